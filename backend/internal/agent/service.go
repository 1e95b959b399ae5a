package agent

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"buffr-host/backend/internal/graph"
	"buffr-host/backend/internal/personality"
	"buffr-host/backend/internal/store"
	"buffr-host/backend/internal/tools"
	"buffr-host/backend/pkg/logger"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// exportMemoryLimit caps how many records a state export carries.
const exportMemoryLimit = 50

// HealthStatus aggregates the sub-system probes. Computed on demand,
// never persisted.
type HealthStatus struct {
	Status     string          `json:"status"`
	Components map[string]bool `json:"components"`
	Timestamp  time.Time       `json:"timestamp"`
}

// StateExport is a point-in-time snapshot for backup or migration.
type StateExport struct {
	Personality personality.Profile  `json:"personality"`
	Memories    []graph.MemoryRecord `json:"memories"`
	Health      HealthStatus         `json:"health"`
	ExportedAt  time.Time            `json:"exportedAt"`
}

// Service is the facade the HTTP layer talks to. It owns the chat
// pipeline plus the management surface around it: memories, tools,
// health and state export.
type Service struct {
	orchestrator  *Orchestrator
	memories      Memories
	conversations Conversations
	persona       *personality.Engine
	executor      *tools.Executor
	composer      Composer
	store         store.Store
	logger        *zap.Logger
}

// NewService wires the facade and its orchestrator.
func NewService(memories Memories, conversations Conversations, persona *personality.Engine, executor *tools.Executor, composer Composer, st store.Store) *Service {
	return &Service{
		orchestrator:  NewOrchestrator(memories, conversations, persona, executor, composer),
		memories:      memories,
		conversations: conversations,
		persona:       persona,
		executor:      executor,
		composer:      composer,
		store:         st,
		logger:        logger.Named("service"),
	}
}

// Chat runs one conversation turn.
func (s *Service) Chat(ctx context.Context, chatCtx ChatContext, message string) *ChatResult {
	return s.orchestrator.Chat(ctx, chatCtx, message)
}

// ConversationHistory returns the most recent turns, oldest first.
func (s *Service) ConversationHistory(ctx context.Context, tenantID, userID string, limit int) ([]graph.Message, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.conversations.GetConversationHistory(ctx, tenantID, userID, limit)
}

// Tools lists the catalog the executor dispatches on.
func (s *Service) Tools() []tools.ToolDescriptor {
	return s.executor.Registry().List()
}

// ExecuteTool invokes a single tool outside a chat turn.
func (s *Service) ExecuteTool(ctx context.Context, execCtx *tools.ExecutionContext, toolName, argumentsJSON string) *tools.ToolResult {
	return s.executor.Execute(ctx, execCtx, toolName, argumentsJSON)
}

// StoreMemory persists one memory record.
func (s *Service) StoreMemory(ctx context.Context, tenantID, userID, content string) (*graph.MemoryRecord, error) {
	return s.memories.Store(ctx, tenantID, userID, content)
}

// SearchMemories matches records by content.
func (s *Service) SearchMemories(ctx context.Context, tenantID, query string, limit int) ([]graph.MemoryRecord, error) {
	return s.memories.Search(ctx, tenantID, query, limit)
}

// UpdateMemory rewrites a record's content.
func (s *Service) UpdateMemory(ctx context.Context, tenantID, memoryID, newContent string) (*graph.MemoryRecord, error) {
	return s.memories.Update(ctx, tenantID, memoryID, newContent)
}

// DeleteMemory removes a record.
func (s *Service) DeleteMemory(ctx context.Context, tenantID, memoryID string) error {
	return s.memories.Delete(ctx, tenantID, memoryID)
}

// Personality returns the current profile for a property.
func (s *Service) Personality(ctx context.Context, tenantID, propertyID string) personality.Profile {
	return s.persona.Export(ctx, tenantID, propertyID)
}

// HealthStatus probes every sub-system concurrently and aggregates:
// healthy only when all components report healthy, degraded when any
// probe fails, unhealthy when the aggregation itself breaks.
func (s *Service) HealthStatus(ctx context.Context) HealthStatus {
	probes := []struct {
		name  string
		check func(context.Context) error
	}{
		{"memory", s.memories.Ping},
		{"personality", s.persona.Ping},
		{"tools", s.store.Ping},
		{"composer", s.composerPing},
	}

	results := make([]bool, len(probes))
	g, gctx := errgroup.WithContext(ctx)
	for i, probe := range probes {
		idx := i
		name := probe.name
		check := probe.check
		g.Go(func() error {
			err := check(gctx)
			if err != nil {
				s.logger.Warn("Health probe failed",
					zap.String("component", name),
					zap.Error(err),
				)
			}
			results[idx] = err == nil
			return nil
		})
	}

	status := StatusHealthy
	if err := g.Wait(); err != nil {
		status = StatusUnhealthy
	}

	components := make(map[string]bool, len(probes))
	for i, probe := range probes {
		components[probe.name] = results[i]
		if !results[i] && status == StatusHealthy {
			status = StatusDegraded
		}
	}

	return HealthStatus{
		Status:     status,
		Components: components,
		Timestamp:  time.Now().UTC(),
	}
}

// composerPing treats a missing composer as healthy: template mode is a
// supported configuration, not an outage.
func (s *Service) composerPing(ctx context.Context) error {
	if s.composer == nil {
		return nil
	}
	return s.composer.Ping(ctx)
}

// ExportState gathers personality, memories and health in one concurrent
// read. No side effects.
func (s *Service) ExportState(ctx context.Context, tenantID, propertyID, userID string) (*StateExport, error) {
	export := &StateExport{ExportedAt: time.Now().UTC()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		export.Personality = s.persona.Export(gctx, tenantID, propertyID)
		return nil
	})
	g.Go(func() error {
		records, err := s.memories.RetrieveRecent(gctx, tenantID, userID, exportMemoryLimit)
		if err != nil {
			return err
		}
		export.Memories = records
		return nil
	})
	g.Go(func() error {
		export.Health = s.HealthStatus(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return export, nil
}
