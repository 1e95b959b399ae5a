package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"buffr-host/backend/internal/graph"
	apperrors "buffr-host/backend/pkg/errors"
)

// fakeGraph is an in-memory stand-in for the Neo4j repository with call
// counters so tests can see whether the manager hit the backend.
type fakeGraph struct {
	mu        sync.Mutex
	records   map[string]graph.MemoryRecord
	order     []string
	seq       int
	retrieves int
	searches  int
	lastLimit int
	pingErr   error
	storeErr  error
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{records: make(map[string]graph.MemoryRecord)}
}

func (f *fakeGraph) StoreMemory(ctx context.Context, tenantID, userID, content string) (*graph.MemoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.storeErr != nil {
		return nil, f.storeErr
	}
	f.seq++
	record := graph.MemoryRecord{
		ID:        fmt.Sprintf("mem-%d", f.seq),
		TenantID:  tenantID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Unix(1700000000, 0).Add(time.Duration(f.seq) * time.Second),
	}
	record.UpdatedAt = record.CreatedAt
	f.records[record.ID] = record
	f.order = append(f.order, record.ID)
	out := record
	return &out, nil
}

func (f *fakeGraph) GetMemory(ctx context.Context, tenantID, memoryID string) (*graph.MemoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[memoryID]
	if !ok || record.TenantID != tenantID {
		return nil, apperrors.NewMemoryNotFound(memoryID)
	}
	out := record
	return &out, nil
}

func (f *fakeGraph) RetrieveRecentMemories(ctx context.Context, tenantID, userID string, limit int) ([]graph.MemoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retrieves++
	f.lastLimit = limit
	var out []graph.MemoryRecord
	for i := len(f.order) - 1; i >= 0 && len(out) < limit; i-- {
		record := f.records[f.order[i]]
		if record.TenantID == tenantID && record.UserID == userID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f *fakeGraph) SearchMemories(ctx context.Context, tenantID, query string, limit int) ([]graph.MemoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches++
	lower := strings.ToLower(query)
	var out []graph.MemoryRecord
	for i := len(f.order) - 1; i >= 0 && len(out) < limit; i-- {
		record := f.records[f.order[i]]
		if record.TenantID == tenantID && strings.Contains(strings.ToLower(record.Content), lower) {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f *fakeGraph) UpdateMemory(ctx context.Context, tenantID, memoryID, content string) (*graph.MemoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[memoryID]
	if !ok || record.TenantID != tenantID {
		return nil, apperrors.NewMemoryNotFound(memoryID)
	}
	record.Content = content
	record.UpdatedAt = record.CreatedAt.Add(time.Minute)
	f.records[memoryID] = record
	out := record
	return &out, nil
}

func (f *fakeGraph) DeleteMemory(ctx context.Context, tenantID, memoryID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[memoryID]
	if !ok || record.TenantID != tenantID {
		return apperrors.NewMemoryNotFound(memoryID)
	}
	delete(f.records, memoryID)
	for i, id := range f.order {
		if id == memoryID {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeGraph) Ping(ctx context.Context) error {
	return f.pingErr
}

func (f *fakeGraph) retrieveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.retrieves
}

func TestManager_StoreAndRetrieveRecent(t *testing.T) {
	ctx := context.Background()
	g := newFakeGraph()
	mgr := NewManager(g, 0, 0)

	for _, content := range []string{
		"Guest prefers a high floor",
		"Asked about airport shuttle times",
		"Likes corner rooms",
	} {
		if _, err := mgr.Store(ctx, "tenant-1", "user-1", content); err != nil {
			t.Fatalf("Store: %v", err)
		}
	}
	if _, err := mgr.Store(ctx, "tenant-1", "user-2", "Travels with a dog"); err != nil {
		t.Fatalf("Store: %v", err)
	}

	records, err := mgr.RetrieveRecent(ctx, "tenant-1", "user-1", 0)
	if err != nil {
		t.Fatalf("RetrieveRecent: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Content != "Likes corner rooms" {
		t.Errorf("expected most recent record first, got %q", records[0].Content)
	}
	if records[2].Content != "Guest prefers a high floor" {
		t.Errorf("expected oldest record last, got %q", records[2].Content)
	}
	if g.lastLimit != defaultRetrieveLimit {
		t.Errorf("expected default limit %d, backend saw %d", defaultRetrieveLimit, g.lastLimit)
	}
}

func TestManager_RetrieveServesFromCache(t *testing.T) {
	ctx := context.Background()
	g := newFakeGraph()
	mgr := NewManager(g, 8, 5)

	if _, err := mgr.Store(ctx, "tenant-1", "user-1", "Vegetarian"); err != nil {
		t.Fatalf("Store: %v", err)
	}

	first, err := mgr.RetrieveRecent(ctx, "tenant-1", "user-1", 5)
	if err != nil {
		t.Fatalf("RetrieveRecent: %v", err)
	}
	if g.retrieveCount() != 1 {
		t.Fatalf("expected 1 backend retrieve, got %d", g.retrieveCount())
	}

	// Mutating the returned slice must not poison the cache.
	first[0].Content = "tampered"

	second, err := mgr.RetrieveRecent(ctx, "tenant-1", "user-1", 5)
	if err != nil {
		t.Fatalf("RetrieveRecent: %v", err)
	}
	if g.retrieveCount() != 1 {
		t.Errorf("expected repeated read to hit the cache, backend saw %d retrieves", g.retrieveCount())
	}
	if second[0].Content != "Vegetarian" {
		t.Errorf("cached record was mutated: %q", second[0].Content)
	}
}

func TestManager_CacheHonorsRequestedWindow(t *testing.T) {
	ctx := context.Background()
	g := newFakeGraph()
	mgr := NewManager(g, 8, 5)

	for i := 0; i < 3; i++ {
		if _, err := mgr.Store(ctx, "tenant-1", "user-1", fmt.Sprintf("note %d", i)); err != nil {
			t.Fatalf("Store: %v", err)
		}
	}

	two, err := mgr.RetrieveRecent(ctx, "tenant-1", "user-1", 2)
	if err != nil {
		t.Fatalf("RetrieveRecent: %v", err)
	}
	if len(two) != 2 || g.retrieveCount() != 1 {
		t.Fatalf("expected 2 records from backend, got %d records after %d retrieves", len(two), g.retrieveCount())
	}

	// A wider window than the cached one must go back to the graph.
	three, err := mgr.RetrieveRecent(ctx, "tenant-1", "user-1", 3)
	if err != nil {
		t.Fatalf("RetrieveRecent: %v", err)
	}
	if len(three) != 3 || g.retrieveCount() != 2 {
		t.Fatalf("expected wider read to refetch, got %d records after %d retrieves", len(three), g.retrieveCount())
	}

	// A narrower window is served from the wider cached slice.
	one, err := mgr.RetrieveRecent(ctx, "tenant-1", "user-1", 1)
	if err != nil {
		t.Fatalf("RetrieveRecent: %v", err)
	}
	if len(one) != 1 || g.retrieveCount() != 2 {
		t.Fatalf("expected narrow read from cache, got %d records after %d retrieves", len(one), g.retrieveCount())
	}
	if one[0].Content != "note 2" {
		t.Errorf("expected newest record, got %q", one[0].Content)
	}
}

func TestManager_WritesInvalidateCache(t *testing.T) {
	ctx := context.Background()
	g := newFakeGraph()
	mgr := NewManager(g, 8, 5)

	if _, err := mgr.Store(ctx, "tenant-1", "user-1", "Prefers still water"); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if _, err := mgr.RetrieveRecent(ctx, "tenant-1", "user-1", 5); err != nil {
		t.Fatalf("RetrieveRecent: %v", err)
	}
	if g.retrieveCount() != 1 {
		t.Fatalf("expected 1 retrieve, got %d", g.retrieveCount())
	}

	// A write for a different user leaves this cache entry alone.
	if _, err := mgr.Store(ctx, "tenant-1", "user-2", "Late checkout on Fridays"); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if _, err := mgr.RetrieveRecent(ctx, "tenant-1", "user-1", 5); err != nil {
		t.Fatalf("RetrieveRecent: %v", err)
	}
	if g.retrieveCount() != 1 {
		t.Fatalf("unrelated write invalidated the cache, %d retrieves", g.retrieveCount())
	}

	// Store for the cached user forces the next read back to the graph.
	stored, err := mgr.Store(ctx, "tenant-1", "user-1", "Allergic to peanuts")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	records, err := mgr.RetrieveRecent(ctx, "tenant-1", "user-1", 5)
	if err != nil {
		t.Fatalf("RetrieveRecent: %v", err)
	}
	if g.retrieveCount() != 2 {
		t.Fatalf("expected store to invalidate cache, %d retrieves", g.retrieveCount())
	}
	if len(records) != 2 || records[0].Content != "Allergic to peanuts" {
		t.Fatalf("expected new record first, got %+v", records)
	}

	// Update invalidates too.
	if _, err := mgr.Update(ctx, "tenant-1", stored.ID, "Allergic to all nuts"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	records, err = mgr.RetrieveRecent(ctx, "tenant-1", "user-1", 5)
	if err != nil {
		t.Fatalf("RetrieveRecent: %v", err)
	}
	if g.retrieveCount() != 3 {
		t.Fatalf("expected update to invalidate cache, %d retrieves", g.retrieveCount())
	}
	if records[0].Content != "Allergic to all nuts" {
		t.Errorf("expected updated content, got %q", records[0].Content)
	}

	// Delete invalidates and the record disappears.
	if err := mgr.Delete(ctx, "tenant-1", stored.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	records, err = mgr.RetrieveRecent(ctx, "tenant-1", "user-1", 5)
	if err != nil {
		t.Fatalf("RetrieveRecent: %v", err)
	}
	if g.retrieveCount() != 4 {
		t.Fatalf("expected delete to invalidate cache, %d retrieves", g.retrieveCount())
	}
	if len(records) != 1 || records[0].Content != "Prefers still water" {
		t.Fatalf("expected only the original record, got %+v", records)
	}
}

func TestManager_NotFoundPropagates(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(newFakeGraph(), 8, 5)

	if _, err := mgr.Get(ctx, "tenant-1", "mem-999"); !apperrors.IsNotFound(err) {
		t.Errorf("Get: expected not-found, got %v", err)
	}
	if _, err := mgr.Update(ctx, "tenant-1", "mem-999", "x"); !apperrors.IsNotFound(err) {
		t.Errorf("Update: expected not-found, got %v", err)
	}
	if err := mgr.Delete(ctx, "tenant-1", "mem-999"); !apperrors.IsNotFound(err) {
		t.Errorf("Delete: expected not-found, got %v", err)
	}
}

func TestManager_SearchMatchesContent(t *testing.T) {
	ctx := context.Background()
	g := newFakeGraph()
	mgr := NewManager(g, 8, 5)

	if _, err := mgr.Store(ctx, "tenant-1", "user-1", "Guest is allergic to shellfish"); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if _, err := mgr.Store(ctx, "tenant-1", "user-1", "Prefers sparkling water"); err != nil {
		t.Fatalf("Store: %v", err)
	}

	records, err := mgr.Search(ctx, "tenant-1", "Shellfish", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 1 || !strings.Contains(records[0].Content, "shellfish") {
		t.Fatalf("expected the shellfish record, got %+v", records)
	}

	// Search is never cached.
	if _, err := mgr.Search(ctx, "tenant-1", "Shellfish", 0); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if g.searches != 2 {
		t.Errorf("expected 2 backend searches, got %d", g.searches)
	}
}

func TestManager_StorageFailurePassesThrough(t *testing.T) {
	ctx := context.Background()
	g := newFakeGraph()
	g.storeErr = apperrors.NewStorageUnavailable("neo4j", nil)
	mgr := NewManager(g, 8, 5)

	_, err := mgr.Store(ctx, "tenant-1", "user-1", "unreachable")
	if err == nil || !strings.Contains(err.Error(), "storage unavailable") {
		t.Fatalf("expected storage unavailable, got %v", err)
	}
}

func TestManager_PingPropagates(t *testing.T) {
	ctx := context.Background()
	g := newFakeGraph()
	mgr := NewManager(g, 8, 5)

	if err := mgr.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	g.pingErr = apperrors.NewStorageUnavailable("neo4j", nil)
	if err := mgr.Ping(ctx); err == nil {
		t.Fatal("expected ping failure to propagate")
	}
}
