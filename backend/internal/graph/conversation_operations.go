package graph

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "buffr-host/backend/pkg/errors"
)

// ============================================================================
// Conversation Operations
// ============================================================================

// LogMessage appends one message to the tenant/user conversation log
func (r *Repository) LogMessage(ctx context.Context, tenantID, userID, content, role string) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	msgID := uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339)

	query := `
		MERGE (t:Tenant {id: $tenantID})
		MERGE (u:User {id: $userID, tenant_id: $tenantID})
		MERGE (c:Conversation {tenant_id: $tenantID, user_id: $userID})
		ON CREATE SET c.id = $convID, c.started_at = $now

		CREATE (m:Message {
			id: $msgID,
			content: $content,
			role: $role,
			timestamp: $now
		})

		MERGE (u)-[:PARTICIPATED_IN]->(c)
		MERGE (c)-[:CONTAINS]->(m)
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"tenantID": tenantID,
		"userID":   userID,
		"convID":   uuid.New().String(),
		"msgID":    msgID,
		"content":  content,
		"role":     role,
		"now":      now,
	})
	if err != nil {
		return apperrors.NewStorageUnavailable("neo4j", err)
	}

	return nil
}

// GetConversationHistory retrieves the last messages for a tenant/user pair
// in chronological order
func (r *Repository) GetConversationHistory(ctx context.Context, tenantID, userID string, limit int) ([]Message, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	if limit < 1 {
		limit = 20
	}

	query := `
		MATCH (c:Conversation {tenant_id: $tenantID, user_id: $userID})-[:CONTAINS]->(m:Message)
		RETURN m.id as id, m.content as content, m.role as role, m.timestamp as timestamp
		ORDER BY m.timestamp DESC, m.id ASC
		LIMIT $limit
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"tenantID": tenantID,
		"userID":   userID,
		"limit":    limit,
	})
	if err != nil {
		return nil, apperrors.NewStorageUnavailable("neo4j", err)
	}

	var messages []Message
	for result.Next(ctx) {
		record := result.Record()
		messages = append(messages, Message{
			ID:        getStringFromRecord(record, "id"),
			UserID:    userID,
			Content:   getStringFromRecord(record, "content"),
			Role:      getStringFromRecord(record, "role"),
			Timestamp: getTimeFromRecord(record, "timestamp"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewStorageUnavailable("neo4j", err)
	}

	// Reverse to get chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
