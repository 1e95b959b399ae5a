package graph

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "buffr-host/backend/pkg/errors"
)

// ============================================================================
// Memory Record Operations
// ============================================================================

// StoreMemory persists a new memory record under a tenant and links it to the
// guest it concerns
func (r *Repository) StoreMemory(ctx context.Context, tenantID, userID, content string) (*MemoryRecord, error) {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	memoryID := uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339)

	query := `
		MERGE (t:Tenant {id: $tenantID})
		MERGE (u:User {id: $userID, tenant_id: $tenantID})
		CREATE (m:MemoryRecord {
			id: $memoryID,
			tenant_id: $tenantID,
			user_id: $userID,
			content: $content,
			created_at: $now,
			updated_at: $now
		})
		MERGE (t)-[:HAS_MEMORY]->(m)
		MERGE (u)-[:REMEMBERS]->(m)
	` + memoryReturnClause

	result, err := session.Run(ctx, query, map[string]interface{}{
		"tenantID": tenantID,
		"userID":   userID,
		"memoryID": memoryID,
		"content":  content,
		"now":      now,
	})
	if err != nil {
		return nil, apperrors.NewStorageUnavailable("neo4j", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, apperrors.NewStorageUnavailable("neo4j", err)
		}
		return nil, apperrors.NewStorageUnavailable("neo4j", nil)
	}

	memory := recordToMemory(result.Record())

	r.logger.Info("Memory stored",
		zap.String("memory_id", memoryID),
		zap.String("tenant_id", tenantID),
		zap.String("user_id", userID),
	)

	return &memory, nil
}

// GetMemory fetches one memory record by id within a tenant
func (r *Repository) GetMemory(ctx context.Context, tenantID, memoryID string) (*MemoryRecord, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (t:Tenant {id: $tenantID})-[:HAS_MEMORY]->(m:MemoryRecord {id: $memoryID})
	` + memoryReturnClause

	result, err := session.Run(ctx, query, map[string]interface{}{
		"tenantID": tenantID,
		"memoryID": memoryID,
	})
	if err != nil {
		return nil, apperrors.NewStorageUnavailable("neo4j", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, apperrors.NewStorageUnavailable("neo4j", err)
		}
		return nil, apperrors.NewMemoryNotFound(memoryID)
	}

	memory := recordToMemory(result.Record())
	return &memory, nil
}

// RetrieveRecentMemories returns the newest records for a tenant/user pair.
// Ordering is newest-first with id as tie-break so reads are deterministic.
func (r *Repository) RetrieveRecentMemories(ctx context.Context, tenantID, userID string, limit int) ([]MemoryRecord, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	if limit <= 0 {
		limit = 5
	}

	query := `
		MATCH (t:Tenant {id: $tenantID})-[:HAS_MEMORY]->(m:MemoryRecord {user_id: $userID})
		WITH m
		ORDER BY m.created_at DESC, m.id ASC
		LIMIT $limit
	` + memoryReturnClause

	result, err := session.Run(ctx, query, map[string]interface{}{
		"tenantID": tenantID,
		"userID":   userID,
		"limit":    limit,
	})
	if err != nil {
		return nil, apperrors.NewStorageUnavailable("neo4j", err)
	}

	var memories []MemoryRecord
	for result.Next(ctx) {
		memories = append(memories, recordToMemory(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewStorageUnavailable("neo4j", err)
	}

	return memories, nil
}

// SearchMemories finds records whose content matches the query text.
// Substring match with exact-phrase boosting; vector search can slot in later.
func (r *Repository) SearchMemories(ctx context.Context, tenantID, query string, limit int) ([]MemoryRecord, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	if limit <= 0 {
		limit = 10
	}

	searchQuery := `
		MATCH (t:Tenant {id: $tenantID})-[:HAS_MEMORY]->(m:MemoryRecord)
		WHERE toLower(m.content) CONTAINS toLower($query)
		WITH m,
		     CASE
		       WHEN m.content CONTAINS $query THEN 2.0
		       ELSE 1.0
		     END as relevance
		ORDER BY relevance DESC, m.created_at DESC, m.id ASC
		LIMIT $limit
	` + memoryReturnClause

	result, err := session.Run(ctx, searchQuery, map[string]interface{}{
		"tenantID": tenantID,
		"query":    query,
		"limit":    limit,
	})
	if err != nil {
		return nil, apperrors.NewStorageUnavailable("neo4j", err)
	}

	var memories []MemoryRecord
	for result.Next(ctx) {
		memories = append(memories, recordToMemory(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewStorageUnavailable("neo4j", err)
	}

	return memories, nil
}

// UpdateMemory replaces a record's content. CreatedAt and id are untouched;
// UpdatedAt moves to now.
func (r *Repository) UpdateMemory(ctx context.Context, tenantID, memoryID, content string) (*MemoryRecord, error) {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	now := time.Now().UTC().Format(time.RFC3339)

	query := `
		MATCH (t:Tenant {id: $tenantID})-[:HAS_MEMORY]->(m:MemoryRecord {id: $memoryID})
		SET m.content = $content,
		    m.updated_at = $now
	` + memoryReturnClause

	result, err := session.Run(ctx, query, map[string]interface{}{
		"tenantID": tenantID,
		"memoryID": memoryID,
		"content":  content,
		"now":      now,
	})
	if err != nil {
		return nil, apperrors.NewStorageUnavailable("neo4j", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, apperrors.NewStorageUnavailable("neo4j", err)
		}
		return nil, apperrors.NewMemoryNotFound(memoryID)
	}

	memory := recordToMemory(result.Record())

	r.logger.Info("Memory updated",
		zap.String("memory_id", memoryID),
		zap.String("tenant_id", tenantID),
	)

	return &memory, nil
}

// DeleteMemory removes a record and its relationships
func (r *Repository) DeleteMemory(ctx context.Context, tenantID, memoryID string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	query := `
		MATCH (t:Tenant {id: $tenantID})-[:HAS_MEMORY]->(m:MemoryRecord {id: $memoryID})
		DETACH DELETE m
		RETURN count(*) as deleted
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"tenantID": tenantID,
		"memoryID": memoryID,
	})
	if err != nil {
		return apperrors.NewStorageUnavailable("neo4j", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return apperrors.NewStorageUnavailable("neo4j", err)
		}
		return apperrors.NewMemoryNotFound(memoryID)
	}
	if getIntFromRecord(result.Record(), "deleted") == 0 {
		return apperrors.NewMemoryNotFound(memoryID)
	}

	r.logger.Info("Memory deleted",
		zap.String("memory_id", memoryID),
		zap.String("tenant_id", tenantID),
	)

	return nil
}
