package memory

import (
	"context"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	"buffr-host/backend/internal/graph"
	"buffr-host/backend/pkg/logger"
)

const (
	defaultCacheSize     = 256
	defaultRetrieveLimit = 5
)

// Graph is the slice of the graph repository the manager depends on.
// *graph.Repository satisfies it.
type Graph interface {
	StoreMemory(ctx context.Context, tenantID, userID, content string) (*graph.MemoryRecord, error)
	GetMemory(ctx context.Context, tenantID, memoryID string) (*graph.MemoryRecord, error)
	RetrieveRecentMemories(ctx context.Context, tenantID, userID string, limit int) ([]graph.MemoryRecord, error)
	SearchMemories(ctx context.Context, tenantID, query string, limit int) ([]graph.MemoryRecord, error)
	UpdateMemory(ctx context.Context, tenantID, memoryID, content string) (*graph.MemoryRecord, error)
	DeleteMemory(ctx context.Context, tenantID, memoryID string) error
	Ping(ctx context.Context) error
}

// cachedRecent remembers which limit produced the cached slice so a hit
// is only served when it covers the requested window.
type cachedRecent struct {
	limit   int
	records []graph.MemoryRecord
}

// Manager owns guest memory records. Reads on the chat hot path
// (RetrieveRecent) are fronted by an ARC cache keyed per (tenant, user);
// every write for that pair drops its entry so the next read sees the
// graph's current state.
type Manager struct {
	graph         Graph
	cache         *lru.ARCCache
	retrieveLimit int
	logger        *zap.Logger
}

// NewManager builds a Manager over the given graph. cacheSize and
// retrieveLimit fall back to their defaults when non-positive.
func NewManager(g Graph, cacheSize, retrieveLimit int) *Manager {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	if retrieveLimit <= 0 {
		retrieveLimit = defaultRetrieveLimit
	}
	// NewARC only fails for a non-positive size, which is guarded above.
	cache, _ := lru.NewARC(cacheSize)
	return &Manager{
		graph:         g,
		cache:         cache,
		retrieveLimit: retrieveLimit,
		logger:        logger.Named("memory"),
	}
}

func cacheKey(tenantID, userID string) string {
	return tenantID + "/" + userID
}

// Store persists a new memory record and invalidates the owner's cached
// recency window.
func (m *Manager) Store(ctx context.Context, tenantID, userID, content string) (*graph.MemoryRecord, error) {
	record, err := m.graph.StoreMemory(ctx, tenantID, userID, content)
	if err != nil {
		return nil, err
	}
	m.cache.Remove(cacheKey(tenantID, userID))
	m.logger.Debug("Stored memory",
		zap.String("tenantId", tenantID),
		zap.String("userId", userID),
		zap.String("memoryId", record.ID))
	return record, nil
}

// Get fetches a single record by ID.
func (m *Manager) Get(ctx context.Context, tenantID, memoryID string) (*graph.MemoryRecord, error) {
	return m.graph.GetMemory(ctx, tenantID, memoryID)
}

// RetrieveRecent returns the user's memories most-recent-first. A limit
// of zero or less uses the configured default. Results are cached per
// (tenant, user); a cached slice is reused only when it was fetched with
// at least the requested limit.
func (m *Manager) RetrieveRecent(ctx context.Context, tenantID, userID string, limit int) ([]graph.MemoryRecord, error) {
	if limit <= 0 {
		limit = m.retrieveLimit
	}
	key := cacheKey(tenantID, userID)
	if v, ok := m.cache.Get(key); ok {
		cached := v.(cachedRecent)
		if cached.limit >= limit {
			records := cached.records
			if len(records) > limit {
				records = records[:limit]
			}
			return append([]graph.MemoryRecord(nil), records...), nil
		}
	}

	records, err := m.graph.RetrieveRecentMemories(ctx, tenantID, userID, limit)
	if err != nil {
		return nil, err
	}
	m.cache.Add(key, cachedRecent{limit: limit, records: records})
	return append([]graph.MemoryRecord(nil), records...), nil
}

// Search matches records by content substring. Uncached: it reflects the
// graph's state at call time.
func (m *Manager) Search(ctx context.Context, tenantID, query string, limit int) ([]graph.MemoryRecord, error) {
	if limit <= 0 {
		limit = m.retrieveLimit
	}
	return m.graph.SearchMemories(ctx, tenantID, query, limit)
}

// Update rewrites a record's content, keeping its ID and creation time.
func (m *Manager) Update(ctx context.Context, tenantID, memoryID, newContent string) (*graph.MemoryRecord, error) {
	record, err := m.graph.UpdateMemory(ctx, tenantID, memoryID, newContent)
	if err != nil {
		return nil, err
	}
	m.cache.Remove(cacheKey(tenantID, record.UserID))
	return record, nil
}

// Delete removes a record. The record is read first so the owning user's
// cache entry can be dropped.
func (m *Manager) Delete(ctx context.Context, tenantID, memoryID string) error {
	record, err := m.graph.GetMemory(ctx, tenantID, memoryID)
	if err != nil {
		return err
	}
	if err := m.graph.DeleteMemory(ctx, tenantID, memoryID); err != nil {
		return err
	}
	m.cache.Remove(cacheKey(tenantID, record.UserID))
	return nil
}

// Ping reports whether the backing graph is reachable.
func (m *Manager) Ping(ctx context.Context) error {
	return m.graph.Ping(ctx)
}

// Purge drops every cached recency window. Used when the backing store
// is mutated outside the manager.
func (m *Manager) Purge() {
	m.cache.Purge()
}
