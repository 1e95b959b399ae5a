package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"buffr-host/backend/internal/adapter"
	"buffr-host/backend/internal/graph"
	"buffr-host/backend/internal/personality"
	"buffr-host/backend/internal/tools"
	"buffr-host/backend/pkg/logger"
)

// Memories is the slice of the memory manager the agent depends on.
// *memory.Manager satisfies it.
type Memories interface {
	Store(ctx context.Context, tenantID, userID, content string) (*graph.MemoryRecord, error)
	RetrieveRecent(ctx context.Context, tenantID, userID string, limit int) ([]graph.MemoryRecord, error)
	Search(ctx context.Context, tenantID, query string, limit int) ([]graph.MemoryRecord, error)
	Update(ctx context.Context, tenantID, memoryID, newContent string) (*graph.MemoryRecord, error)
	Delete(ctx context.Context, tenantID, memoryID string) error
	Ping(ctx context.Context) error
}

// Conversations is the slice of the graph repository that logs and
// replays chat turns. *graph.Repository satisfies it.
type Conversations interface {
	LogMessage(ctx context.Context, tenantID, userID, content, role string) error
	GetConversationHistory(ctx context.Context, tenantID, userID string, limit int) ([]graph.Message, error)
}

// Composer is the language model surface the agent composes with. A nil
// Composer switches the agent to template-only responses.
type Composer interface {
	Generate(ctx context.Context, systemPrompt, userMsg string, tools []adapter.Tool) (*adapter.Response, error)
	Ping(ctx context.Context) error
}

// ChatContext identifies who is talking and what they are allowed to do.
type ChatContext struct {
	TenantID    string   `json:"tenantId"`
	PropertyID  string   `json:"propertyId,omitempty"`
	UserID      string   `json:"userId"`
	AuthSubject string   `json:"-"`
	Scopes      []string `json:"-"`
}

// ChatResult is everything one turn produced.
type ChatResult struct {
	Response    string              `json:"response"`
	ToolsUsed   []tools.ToolResult  `json:"toolsUsed"`
	Memories    []string            `json:"memories"`
	Personality personality.Profile `json:"personality"`
}

// Orchestrator runs the chat turn pipeline: recall, adapt, compose,
// dispatch, record.
type Orchestrator struct {
	memories      Memories
	conversations Conversations
	persona       *personality.Engine
	executor      *tools.Executor
	composer      Composer
	logger        *zap.Logger
}

// NewOrchestrator creates the agent core.
func NewOrchestrator(memories Memories, conversations Conversations, persona *personality.Engine, executor *tools.Executor, composer Composer) *Orchestrator {
	return &Orchestrator{
		memories:      memories,
		conversations: conversations,
		persona:       persona,
		executor:      executor,
		composer:      composer,
		logger:        logger.Named("agent"),
	}
}

// Chat runs one conversation turn. Failures in any sub-system degrade the
// turn instead of aborting it: the guest always gets a response.
func (o *Orchestrator) Chat(ctx context.Context, chatCtx ChatContext, message string) *ChatResult {
	o.logger.Debug("Starting chat turn",
		zap.String("tenantId", chatCtx.TenantID),
		zap.String("userId", chatCtx.UserID),
	)

	// 1. Recall what we know about this guest.
	memories := o.recallMemories(ctx, chatCtx)

	// 2. Read the guest's tone and adapt the personality.
	signal := personality.DeriveSignal(message)
	profile := o.persona.Adapt(ctx, chatCtx.TenantID, chatCtx.PropertyID, signal)

	// 3. Recent turns give the composer short-term context.
	history := o.recentHistory(ctx, chatCtx)

	// 4. Compose. The model may answer directly or request tool calls.
	systemPrompt := o.buildSystemPrompt(profile, memories, history)
	response, toolCalls := o.compose(ctx, systemPrompt, message)

	// 5. Dispatch the requested tool calls.
	results := o.dispatchToolCalls(ctx, chatCtx, toolCalls)

	// 6. Finalize: fold tool outcomes into the reply, falling back to a
	//    templated response so the turn never comes back empty.
	response = o.finalize(ctx, systemPrompt, message, response, profile, results)

	// 7. Record the turn.
	o.recordTurn(ctx, chatCtx, message, response)

	contents := make([]string, 0, len(memories))
	for _, record := range memories {
		contents = append(contents, record.Content)
	}

	return &ChatResult{
		Response:    response,
		ToolsUsed:   results,
		Memories:    contents,
		Personality: profile,
	}
}

func (o *Orchestrator) recallMemories(ctx context.Context, chatCtx ChatContext) []graph.MemoryRecord {
	records, err := o.memories.RetrieveRecent(ctx, chatCtx.TenantID, chatCtx.UserID, 0)
	if err != nil {
		o.logger.Warn("Memory retrieval failed, continuing without",
			zap.String("userId", chatCtx.UserID),
			zap.Error(err),
		)
		return nil
	}
	return records
}

func (o *Orchestrator) recentHistory(ctx context.Context, chatCtx ChatContext) []graph.Message {
	history, err := o.conversations.GetConversationHistory(ctx, chatCtx.TenantID, chatCtx.UserID, 10)
	if err != nil {
		o.logger.Debug("Failed to fetch conversation history", zap.Error(err))
		return nil
	}
	return history
}

// compose asks the model for a reply. Returns empty content and no tool
// calls when no composer is configured or the model call fails.
func (o *Orchestrator) compose(ctx context.Context, systemPrompt, message string) (string, []adapter.ToolCall) {
	if o.composer == nil {
		return "", nil
	}
	response, err := o.composer.Generate(ctx, systemPrompt, message, o.executor.Registry().Definitions())
	if err != nil {
		o.logger.Warn("Composer failed, falling back to template", zap.Error(err))
		return "", nil
	}
	return response.Content, response.ToolCalls
}

func (o *Orchestrator) dispatchToolCalls(ctx context.Context, chatCtx ChatContext, toolCalls []adapter.ToolCall) []tools.ToolResult {
	results := make([]tools.ToolResult, 0, len(toolCalls))
	if len(toolCalls) == 0 {
		return results
	}
	execCtx := &tools.ExecutionContext{
		TenantID:    chatCtx.TenantID,
		PropertyID:  chatCtx.PropertyID,
		UserID:      chatCtx.UserID,
		AuthSubject: chatCtx.AuthSubject,
		Scopes:      chatCtx.Scopes,
	}
	for _, call := range toolCalls {
		result := o.executor.Execute(ctx, execCtx, call.Name, call.Arguments)
		if result.Success {
			o.logger.Info("Tool executed", zap.String("tool", call.Name))
		} else {
			o.logger.Warn("Tool execution failed",
				zap.String("tool", call.Name),
				zap.String("error", result.Error),
			)
		}
		results = append(results, *result)
	}
	return results
}

// finalize produces the guest-facing reply. Order of preference: the
// model's own content, a second compose pass over the tool outcomes,
// then the template fallback.
func (o *Orchestrator) finalize(ctx context.Context, systemPrompt, message, response string, profile personality.Profile, results []tools.ToolResult) string {
	if response != "" {
		return response
	}
	if o.composer != nil && len(results) > 0 {
		followup := fmt.Sprintf("%s\n\n[Tool results]:\n%s\n\nNow reply to the guest based on these results.",
			message, strings.Join(toolResultLines(results), "\n"))
		followupResponse, err := o.composer.Generate(ctx, systemPrompt, followup, nil)
		if err == nil && followupResponse.Content != "" {
			return followupResponse.Content
		}
		if err != nil {
			o.logger.Warn("Followup composition failed, falling back to template", zap.Error(err))
		}
	}
	return fallbackResponse(profile.Mood(), results)
}

// toolResultLines renders results in the compact form the composer sees
// on the followup pass.
func toolResultLines(results []tools.ToolResult) []string {
	lines := make([]string, 0, len(results))
	for _, result := range results {
		if result.Success {
			payload, err := json.Marshal(result.Result)
			if err != nil {
				payload = []byte("ok")
			}
			lines = append(lines, fmt.Sprintf("[%s]: %s", result.ToolName, payload))
		} else {
			lines = append(lines, fmt.Sprintf("[%s] ERROR: %s", result.ToolName, result.Error))
		}
	}
	return lines
}

func (o *Orchestrator) recordTurn(ctx context.Context, chatCtx ChatContext, message, response string) {
	if err := o.conversations.LogMessage(ctx, chatCtx.TenantID, chatCtx.UserID, message, "user"); err != nil {
		o.logger.Warn("Failed to log guest message", zap.Error(err))
	}
	if response != "" {
		if err := o.conversations.LogMessage(ctx, chatCtx.TenantID, chatCtx.UserID, response, "assistant"); err != nil {
			o.logger.Warn("Failed to log agent response", zap.Error(err))
		}
	}
	if _, err := o.memories.Store(ctx, chatCtx.TenantID, chatCtx.UserID, response); err != nil {
		o.logger.Warn("Failed to store turn memory", zap.Error(err))
	}
}
