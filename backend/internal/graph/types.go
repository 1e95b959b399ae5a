package graph

import "time"

// MemoryRecord is a durable fact the agent keeps about a guest or operation,
// scoped to a tenant. UpdatedAt moves on edits; CreatedAt never does.
type MemoryRecord struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenantId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Message is one entry of a tenant/user conversation log.
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	Role      string    `json:"role"` // user, assistant
	Timestamp time.Time `json:"timestamp"`
}
