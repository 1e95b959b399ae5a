package graph

import (
	"context"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	apperrors "buffr-host/backend/pkg/errors"
)

// These tests require a running Neo4j instance at bolt://localhost:7687
// with the default neo4j/password credentials.

func TestRepository_MemoryLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	tenantID := "test-tenant-" + time.Now().Format("20060102150405")
	defer cleanupTenant(ctx, driver, tenantID)

	stored, err := repo.StoreMemory(ctx, tenantID, "guest-1", "Guest prefers a ground-floor room")
	if err != nil {
		t.Fatalf("StoreMemory failed: %v", err)
	}
	if stored.ID == "" {
		t.Fatal("Expected stored memory to have an id")
	}
	if stored.TenantID != tenantID {
		t.Errorf("Expected tenant %s, got %s", tenantID, stored.TenantID)
	}
	if !stored.CreatedAt.Equal(stored.UpdatedAt) {
		t.Error("Expected createdAt == updatedAt on a fresh record")
	}

	got, err := repo.GetMemory(ctx, tenantID, stored.ID)
	if err != nil {
		t.Fatalf("GetMemory failed: %v", err)
	}
	if got.Content != stored.Content {
		t.Errorf("Expected content %q, got %q", stored.Content, got.Content)
	}

	// Update keeps id and createdAt, moves updatedAt
	updated, err := repo.UpdateMemory(ctx, tenantID, stored.ID, "Guest prefers a lake-view room")
	if err != nil {
		t.Fatalf("UpdateMemory failed: %v", err)
	}
	if updated.ID != stored.ID {
		t.Errorf("Expected id preserved, got %s", updated.ID)
	}
	if !updated.CreatedAt.Equal(stored.CreatedAt) {
		t.Errorf("Expected createdAt preserved, got %v vs %v", updated.CreatedAt, stored.CreatedAt)
	}
	if updated.Content != "Guest prefers a lake-view room" {
		t.Errorf("Unexpected content after update: %q", updated.Content)
	}

	if err := repo.DeleteMemory(ctx, tenantID, stored.ID); err != nil {
		t.Fatalf("DeleteMemory failed: %v", err)
	}
	if _, err := repo.GetMemory(ctx, tenantID, stored.ID); !apperrors.IsNotFound(err) {
		t.Errorf("Expected not-found after delete, got %v", err)
	}
	if err := repo.DeleteMemory(ctx, tenantID, stored.ID); !apperrors.IsNotFound(err) {
		t.Errorf("Expected not-found deleting twice, got %v", err)
	}
}

func TestRepository_RetrieveAndSearch(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	tenantID := "test-tenant-" + time.Now().Format("20060102150405.000")
	defer cleanupTenant(ctx, driver, tenantID)

	contents := []string{
		"Guest is allergic to shellfish",
		"Guest celebrates an anniversary on August 22",
		"Guest always orders the house red wine",
	}
	for _, c := range contents {
		if _, err := repo.StoreMemory(ctx, tenantID, "guest-7", c); err != nil {
			t.Fatalf("StoreMemory failed: %v", err)
		}
	}

	recent, err := repo.RetrieveRecentMemories(ctx, tenantID, "guest-7", 2)
	if err != nil {
		t.Fatalf("RetrieveRecentMemories failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 recent memories, got %d", len(recent))
	}

	found, err := repo.SearchMemories(ctx, tenantID, "shellfish", 10)
	if err != nil {
		t.Fatalf("SearchMemories failed: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("Expected 1 search hit, got %d", len(found))
	}
	if found[0].Content != contents[0] {
		t.Errorf("Unexpected search hit: %q", found[0].Content)
	}

	none, err := repo.SearchMemories(ctx, tenantID, "scuba gear", 10)
	if err != nil {
		t.Fatalf("SearchMemories failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no hits, got %d", len(none))
	}
}

func TestRepository_PersonalityProfileRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	tenantID := "test-tenant-" + time.Now().Format("20060102150405.00")
	defer cleanupTenant(ctx, driver, tenantID)

	missing, err := repo.GetPersonalityProfile(ctx, tenantID, "etuna-lodge")
	if err != nil {
		t.Fatalf("GetPersonalityProfile failed: %v", err)
	}
	if missing != "" {
		t.Errorf("Expected empty profile before store, got %q", missing)
	}

	profile := `{"warmth":0.8,"formality":0.4}`
	if err := repo.StorePersonalityProfile(ctx, tenantID, "etuna-lodge", profile); err != nil {
		t.Fatalf("StorePersonalityProfile failed: %v", err)
	}

	got, err := repo.GetPersonalityProfile(ctx, tenantID, "etuna-lodge")
	if err != nil {
		t.Fatalf("GetPersonalityProfile failed: %v", err)
	}
	if got != profile {
		t.Errorf("Expected profile %s, got %s", profile, got)
	}

	// Upsert replaces, never duplicates
	profile2 := `{"warmth":0.9,"formality":0.4}`
	if err := repo.StorePersonalityProfile(ctx, tenantID, "etuna-lodge", profile2); err != nil {
		t.Fatalf("StorePersonalityProfile (update) failed: %v", err)
	}
	got, err = repo.GetPersonalityProfile(ctx, tenantID, "etuna-lodge")
	if err != nil {
		t.Fatalf("GetPersonalityProfile failed: %v", err)
	}
	if got != profile2 {
		t.Errorf("Expected profile %s, got %s", profile2, got)
	}
}

func TestRepository_ConversationLog(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	tenantID := "test-tenant-" + time.Now().Format("20060102150405.0")
	defer cleanupTenant(ctx, driver, tenantID)

	if err := repo.LogMessage(ctx, tenantID, "guest-3", "Do you have a table for two tonight?", "guest"); err != nil {
		t.Fatalf("LogMessage failed: %v", err)
	}
	if err := repo.LogMessage(ctx, tenantID, "guest-3", "Of course, I reserved table 12 for 19:00.", "agent"); err != nil {
		t.Fatalf("LogMessage failed: %v", err)
	}

	history, err := repo.GetConversationHistory(ctx, tenantID, "guest-3", 10)
	if err != nil {
		t.Fatalf("GetConversationHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(history))
	}
	// Chronological order
	if history[0].Role != "guest" || history[1].Role != "agent" {
		t.Errorf("Expected [guest agent], got [%s %s]", history[0].Role, history[1].Role)
	}
}

func createTestDriver() (neo4j.DriverWithContext, error) {
	uri := "bolt://localhost:7687"
	user := "neo4j"
	password := "password"

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, err
	}

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}

	return driver, nil
}

func cleanupTenant(ctx context.Context, driver neo4j.DriverWithContext, tenantID string) {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)
	_, _ = session.Run(ctx, `
		MATCH (t:Tenant {id: $id})
		OPTIONAL MATCH (t)-[:HAS_MEMORY]->(m:MemoryRecord)
		OPTIONAL MATCH (t)-[:HAS_PROFILE]->(p:PersonalityProfile)
		OPTIONAL MATCH (c:Conversation {tenant_id: $id})-[:CONTAINS]->(msg:Message)
		OPTIONAL MATCH (u:User {tenant_id: $id})
		DETACH DELETE m, p, msg, c, u, t
	`, map[string]interface{}{"id": tenantID})
}
