package graph

import (
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

func getStringFromRecord(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

func getIntFromRecord(record *neo4j.Record, key string) int {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	if i, ok := val.(int64); ok {
		return int(i)
	}
	return 0
}

// Timestamps are stored as RFC3339 strings so they round-trip without
// driver-specific temporal types; same-format strings also sort correctly.
func getTimeFromRecord(record *neo4j.Record, key string) time.Time {
	str := getStringFromRecord(record, key)
	if str == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return time.Time{}
	}
	return t
}

func recordToMemory(record *neo4j.Record) MemoryRecord {
	return MemoryRecord{
		ID:        getStringFromRecord(record, "id"),
		TenantID:  getStringFromRecord(record, "tenant_id"),
		UserID:    getStringFromRecord(record, "user_id"),
		Content:   getStringFromRecord(record, "content"),
		CreatedAt: getTimeFromRecord(record, "created_at"),
		UpdatedAt: getTimeFromRecord(record, "updated_at"),
	}
}

const memoryReturnClause = `
		RETURN m.id as id, m.tenant_id as tenant_id, m.user_id as user_id,
		       m.content as content, m.created_at as created_at, m.updated_at as updated_at
	`
