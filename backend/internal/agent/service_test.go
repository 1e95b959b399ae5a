package agent

import (
	"context"
	"strings"
	"testing"
	"time"

	"buffr-host/backend/internal/personality"
	"buffr-host/backend/internal/store"
	"buffr-host/backend/internal/tools"
	apperrors "buffr-host/backend/pkg/errors"
)

func newTestService(memories *fakeMemories, conversations *fakeConversations, composer Composer) *Service {
	executor := tools.NewExecutor(tools.NewRegistry(), store.NewMemory(), nil, 5*time.Second)
	persona := personality.NewEngine(0, nil)
	return NewService(memories, conversations, persona, executor, composer, store.NewMemory())
}

func TestService_HealthStatus_AllHealthy(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&fakeMemories{}, &fakeConversations{}, &fakeComposer{})

	health := svc.HealthStatus(ctx)
	if health.Status != StatusHealthy {
		t.Fatalf("expected %s, got %s", StatusHealthy, health.Status)
	}
	if len(health.Components) != 4 {
		t.Fatalf("expected 4 components, got %v", health.Components)
	}
	for name, ok := range health.Components {
		if !ok {
			t.Errorf("component %s reported unhealthy", name)
		}
	}
	if health.Timestamp.IsZero() {
		t.Error("expected a timestamp")
	}
}

func TestService_HealthStatus_DegradedWhenMemoryDown(t *testing.T) {
	ctx := context.Background()
	memories := &fakeMemories{pingErr: apperrors.NewStorageUnavailable("neo4j", nil)}
	svc := newTestService(memories, &fakeConversations{}, &fakeComposer{})

	health := svc.HealthStatus(ctx)
	if health.Status != StatusDegraded {
		t.Fatalf("expected %s, got %s", StatusDegraded, health.Status)
	}
	if health.Components["memory"] {
		t.Error("expected the memory component to report unhealthy")
	}
	if !health.Components["personality"] || !health.Components["tools"] || !health.Components["composer"] {
		t.Errorf("expected the other components to stay healthy: %v", health.Components)
	}
}

func TestService_HealthStatus_ComposerDownDegrades(t *testing.T) {
	ctx := context.Background()
	composer := &fakeComposer{pingErr: apperrors.NewStorageUnavailable("openai", nil)}
	svc := newTestService(&fakeMemories{}, &fakeConversations{}, composer)

	health := svc.HealthStatus(ctx)
	if health.Status != StatusDegraded || health.Components["composer"] {
		t.Fatalf("expected a degraded composer, got %+v", health)
	}
}

func TestService_HealthStatus_MissingComposerIsHealthy(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&fakeMemories{}, &fakeConversations{}, nil)

	health := svc.HealthStatus(ctx)
	if health.Status != StatusHealthy || !health.Components["composer"] {
		t.Fatalf("template mode should report healthy, got %+v", health)
	}
}

func TestService_HealthStatus_ProbesRunConcurrently(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}
	ctx := context.Background()
	memories := &fakeMemories{pingDelay: 200 * time.Millisecond}
	composer := &fakeComposer{pingDelay: 200 * time.Millisecond}
	svc := newTestService(memories, &fakeConversations{}, composer)

	start := time.Now()
	health := svc.HealthStatus(ctx)
	elapsed := time.Since(start)

	if health.Status != StatusHealthy {
		t.Fatalf("expected healthy, got %s", health.Status)
	}
	// Serial probing would take at least 400ms.
	if elapsed >= 350*time.Millisecond {
		t.Errorf("probes do not appear to run concurrently: %v", elapsed)
	}
}

func TestService_ExportState(t *testing.T) {
	ctx := context.Background()
	memories := &fakeMemories{}
	svc := newTestService(memories, &fakeConversations{}, nil)

	if _, err := memories.Store(ctx, "tenant-1", "user-1", "Prefers the quiet wing"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := memories.Store(ctx, "tenant-1", "user-1", "Checks out on Sundays"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	export, err := svc.ExportState(ctx, "tenant-1", "property-1", "user-1")
	if err != nil {
		t.Fatalf("ExportState: %v", err)
	}
	if len(export.Memories) != 2 {
		t.Errorf("expected 2 memories, got %d", len(export.Memories))
	}
	if len(export.Personality.Traits) != len(personality.AllTraits) {
		t.Errorf("expected a full trait set, got %v", export.Personality.Traits)
	}
	if export.Health.Status != StatusHealthy {
		t.Errorf("expected a healthy snapshot, got %s", export.Health.Status)
	}
	if export.ExportedAt.IsZero() {
		t.Error("expected an export timestamp")
	}
}

func TestService_ExportState_PropagatesMemoryFailure(t *testing.T) {
	ctx := context.Background()
	memories := &fakeMemories{retrieveErr: apperrors.NewStorageUnavailable("neo4j", nil)}
	svc := newTestService(memories, &fakeConversations{}, nil)

	if _, err := svc.ExportState(ctx, "tenant-1", "property-1", "user-1"); err == nil {
		t.Fatal("expected an error when the memory export fails")
	}
}

func TestService_ConversationHistory_DefaultLimit(t *testing.T) {
	ctx := context.Background()
	conversations := &fakeConversations{}
	svc := newTestService(&fakeMemories{}, conversations, nil)

	if _, err := svc.ConversationHistory(ctx, "tenant-1", "user-1", 0); err != nil {
		t.Fatalf("ConversationHistory: %v", err)
	}
	if conversations.lastLimit != 20 {
		t.Errorf("expected the default limit 20, got %d", conversations.lastLimit)
	}
}

func TestService_ToolCatalogAndExecution(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&fakeMemories{}, &fakeConversations{}, nil)

	catalog := svc.Tools()
	if len(catalog) == 0 {
		t.Fatal("expected a tool catalog")
	}

	execCtx := &tools.ExecutionContext{
		TenantID:    "tenant-1",
		AuthSubject: "staff-7",
		Scopes:      []string{"billing:write"},
	}
	result := svc.ExecuteTool(ctx, execCtx, tools.ToolGenerateInvoice, `{"totalAmount": 99.5}`)
	if !result.Success {
		t.Fatalf("expected a successful invoice, got %q", result.Error)
	}
}

func TestService_MemoryPassthroughs(t *testing.T) {
	ctx := context.Background()
	memories := &fakeMemories{}
	svc := newTestService(memories, &fakeConversations{}, nil)

	record, err := svc.StoreMemory(ctx, "tenant-1", "user-1", "Window seat at breakfast")
	if err != nil {
		t.Fatalf("StoreMemory: %v", err)
	}

	found, err := svc.SearchMemories(ctx, "tenant-1", "breakfast", 5)
	if err != nil || len(found) != 1 {
		t.Fatalf("SearchMemories: %v, %d records", err, len(found))
	}

	updated, err := svc.UpdateMemory(ctx, "tenant-1", record.ID, "Terrace seat at breakfast")
	if err != nil || !strings.Contains(updated.Content, "Terrace") {
		t.Fatalf("UpdateMemory: %v, %+v", err, updated)
	}

	if err := svc.DeleteMemory(ctx, "tenant-1", record.ID); err != nil {
		t.Fatalf("DeleteMemory: %v", err)
	}
	if err := svc.DeleteMemory(ctx, "tenant-1", record.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not-found on the second delete, got %v", err)
	}
}
