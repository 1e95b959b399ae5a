package store

import (
	"time"

	"github.com/uptrace/bun"
)

// OutboundEmail is a queued email. A delivery worker owned by the email
// provider integration drains the queue; this service only enqueues.
type OutboundEmail struct {
	bun.BaseModel `bun:"table:outbound_emails,alias:oe"`

	ID        string    `bun:",pk" json:"id"`
	TenantID  string    `bun:",notnull" json:"tenantId"`
	Recipient string    `bun:",notnull" json:"recipient"`
	Subject   string    `json:"subject"`
	BodyHTML  string    `json:"bodyHtml"`
	BodyText  string    `json:"bodyText"`
	Kind      string    `json:"kind"` // booking_confirmation, quotation, marketing
	Provider  string    `json:"provider"`
	Status    string    `json:"status"` // queued, sent, failed
	CreatedAt time.Time `bun:",notnull" json:"createdAt"`
}

// CalendarEvent mirrors an event pushed to the calendar provider.
type CalendarEvent struct {
	bun.BaseModel `bun:"table:calendar_events,alias:ce"`

	ID        string    `bun:",pk" json:"id"`
	TenantID  string    `bun:",notnull" json:"tenantId"`
	Title     string    `bun:",notnull" json:"title"`
	Location  string    `json:"location"`
	StartsAt  time.Time `bun:",notnull" json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	Attendees []string  `bun:",array" json:"attendees"`
	Provider  string    `json:"provider"`
	CreatedAt time.Time `bun:",notnull" json:"createdAt"`
}

// Campaign is a marketing campaign; EmailID links the generated creative.
type Campaign struct {
	bun.BaseModel `bun:"table:campaigns,alias:cp"`

	ID        string    `bun:",pk" json:"id"`
	TenantID  string    `bun:",notnull" json:"tenantId"`
	Name      string    `bun:",notnull" json:"name"`
	Channel   string    `json:"channel"` // email, sms
	Audience  string    `json:"audience"`
	EmailID   string    `json:"emailId,omitempty"`
	Status    string    `json:"status"` // draft, scheduled, running
	StartsAt  time.Time `bun:",nullzero" json:"startsAt,omitempty"`
	CreatedAt time.Time `bun:",notnull" json:"createdAt"`
}

// MenuItem is a property's menu entry, unique per (tenant, name).
type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items,alias:mi"`

	ID          string   `bun:",pk" json:"id"`
	TenantID    string   `bun:",notnull" json:"tenantId"`
	Name        string   `bun:",notnull" json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Allergens   []string `bun:",array" json:"allergens"`
	Available   bool     `json:"available"`
}

// OrderLine is one line of a restaurant order, stored inline as JSONB.
type OrderLine struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// RestaurantOrder tracks an order from intake through station routing.
type RestaurantOrder struct {
	bun.BaseModel `bun:"table:restaurant_orders,alias:ro"`

	ID        string      `bun:",pk" json:"id"`
	TenantID  string      `bun:",notnull" json:"tenantId"`
	Table     string      `bun:"table_number" json:"table"`
	Lines     []OrderLine `bun:"lines,type:jsonb" json:"lines"`
	Total     float64     `json:"total"`
	Station   string      `json:"station"` // pending, kitchen, bar, frontdesk
	Status    string      `json:"status"`  // open, routed, closed
	Notes     string      `json:"notes,omitempty"`
	CreatedAt time.Time   `bun:",notnull" json:"createdAt"`
	UpdatedAt time.Time   `bun:",notnull" json:"updatedAt"`
}

// InventoryItem is a stock counter, unique per (tenant, sku).
// Quantity never goes negative; deductions that would cross zero are rejected.
type InventoryItem struct {
	bun.BaseModel `bun:"table:inventory_items,alias:ii"`

	ID              string    `bun:",pk" json:"id"`
	TenantID        string    `bun:",notnull" json:"tenantId"`
	SKU             string    `bun:",notnull" json:"sku"`
	Name            string    `json:"name"`
	Quantity        int64     `bun:",notnull" json:"quantity"`
	Unit            string    `json:"unit"`
	ReorderLevel    int64     `json:"reorderLevel"`
	ReorderQuantity int64     `json:"reorderQuantity"`
	UpdatedAt       time.Time `bun:",notnull" json:"updatedAt"`
}

// StockMovement is the append-only ledger behind every quantity change.
type StockMovement struct {
	bun.BaseModel `bun:"table:stock_movements,alias:sm"`

	ID        string    `bun:",pk" json:"id"`
	TenantID  string    `bun:",notnull" json:"tenantId"`
	SKU       string    `bun:",notnull" json:"sku"`
	Delta     int64     `bun:",notnull" json:"delta"`
	Reason    string    `json:"reason"`
	Actor     string    `json:"actor"`
	CreatedAt time.Time `bun:",notnull" json:"createdAt"`
}

// Invoice is a billing document generated for a guest or corporate client.
type Invoice struct {
	bun.BaseModel `bun:"table:invoices,alias:iv"`

	ID           string      `bun:",pk" json:"invoiceId"`
	TenantID     string      `bun:",notnull" json:"tenantId"`
	CustomerName string      `json:"customerName"`
	Lines        []OrderLine `bun:"lines,type:jsonb" json:"lines,omitempty"`
	TotalAmount  float64     `json:"totalAmount"`
	Currency     string      `json:"currency"`
	Status       string      `json:"status"` // issued, paid, void
	IssuedAt     time.Time   `bun:",notnull" json:"issuedAt"`
}

// Payment records a settled amount against an invoice; receipts reference it.
type Payment struct {
	bun.BaseModel `bun:"table:payments,alias:pm"`

	ID        string    `bun:",pk" json:"receiptId"`
	TenantID  string    `bun:",notnull" json:"tenantId"`
	InvoiceID string    `json:"invoiceId,omitempty"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"` // card, cash, transfer
	Reference string    `json:"reference,omitempty"`
	CreatedAt time.Time `bun:",notnull" json:"createdAt"`
}
