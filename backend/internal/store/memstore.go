package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	apperrors "buffr-host/backend/pkg/errors"
)

// Memory is the in-memory Store used when DATABASE_URL is unset and in tests.
// One mutex serializes every write, which gives inventory the same
// exactly-one-winner behavior as the Postgres conditional update.
type Memory struct {
	mu        sync.Mutex
	emails    []OutboundEmail
	events    []CalendarEvent
	campaigns []Campaign
	menu      map[string]MenuItem        // tenantID + "/" + lower(name)
	orders    map[string]RestaurantOrder // tenantID + "/" + orderID
	inventory map[string]InventoryItem   // tenantID + "/" + sku
	movements []StockMovement
	invoices  map[string]Invoice // tenantID + "/" + invoiceID
	payments  []Payment
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		menu:      make(map[string]MenuItem),
		orders:    make(map[string]RestaurantOrder),
		inventory: make(map[string]InventoryItem),
		invoices:  make(map[string]Invoice),
	}
}

func memKey(tenantID, id string) string {
	return tenantID + "/" + id
}

func (s *Memory) EnqueueEmail(_ context.Context, email *OutboundEmail) error {
	fillEmailDefaults(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emails = append(s.emails, *email)
	return nil
}

func (s *Memory) InsertCalendarEvent(_ context.Context, event *CalendarEvent) error {
	fillEventDefaults(event)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *event)
	return nil
}

func (s *Memory) InsertCampaign(_ context.Context, campaign *Campaign) error {
	fillCampaignDefaults(campaign)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns = append(s.campaigns, *campaign)
	return nil
}

func (s *Memory) UpsertMenuItem(_ context.Context, item *MenuItem) error {
	fillMenuItemDefaults(item)
	s.mu.Lock()
	defer s.mu.Unlock()
	key := memKey(item.TenantID, strings.ToLower(item.Name))
	if existing, ok := s.menu[key]; ok {
		item.ID = existing.ID
	}
	s.menu[key] = *item
	return nil
}

func (s *Memory) GetMenuItem(_ context.Context, tenantID, name string) (*MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.menu[memKey(tenantID, strings.ToLower(name))]
	if !ok {
		return nil, apperrors.NewRecordNotFound("menu_items", name)
	}
	return &item, nil
}

func (s *Memory) InsertOrder(_ context.Context, order *RestaurantOrder) error {
	fillOrderDefaults(order)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[memKey(order.TenantID, order.ID)] = *order
	return nil
}

func (s *Memory) UpdateOrderStation(_ context.Context, tenantID, orderID, station string) (*RestaurantOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := memKey(tenantID, orderID)
	order, ok := s.orders[key]
	if !ok {
		return nil, apperrors.NewRecordNotFound("restaurant_orders", orderID)
	}
	order.Station = station
	order.Status = "routed"
	order.UpdatedAt = time.Now().UTC()
	s.orders[key] = order
	return &order, nil
}

func (s *Memory) UpsertInventoryItem(_ context.Context, item *InventoryItem) error {
	fillInventoryDefaults(item)
	s.mu.Lock()
	defer s.mu.Unlock()
	key := memKey(item.TenantID, item.SKU)
	if existing, ok := s.inventory[key]; ok {
		item.ID = existing.ID
	}
	s.inventory[key] = *item
	return nil
}

func (s *Memory) GetInventoryItem(_ context.Context, tenantID, sku string) (*InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.inventory[memKey(tenantID, sku)]
	if !ok {
		return nil, apperrors.NewRecordNotFound("inventory_items", sku)
	}
	return &item, nil
}

func (s *Memory) AdjustStock(_ context.Context, tenantID, sku string, delta int64, reason, actor string) (*InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := memKey(tenantID, sku)
	item, ok := s.inventory[key]
	if !ok {
		return nil, apperrors.NewRecordNotFound("inventory_items", sku)
	}
	if item.Quantity+delta < 0 {
		return nil, apperrors.ErrInsufficientStock
	}
	item.Quantity += delta
	item.UpdatedAt = time.Now().UTC()
	s.inventory[key] = item

	movement := StockMovement{
		TenantID:  tenantID,
		SKU:       sku,
		Delta:     delta,
		Reason:    reason,
		Actor:     actor,
		CreatedAt: time.Now().UTC(),
	}
	fillMovementDefaults(&movement)
	s.movements = append(s.movements, movement)
	return &item, nil
}

func (s *Memory) ListItemsBelowReorder(_ context.Context, tenantID string) ([]InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []InventoryItem
	for _, item := range s.inventory {
		if item.TenantID == tenantID && item.Quantity <= item.ReorderLevel {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].SKU < items[j].SKU })
	return items, nil
}

func (s *Memory) ListStockMovements(_ context.Context, tenantID, sku string, limit int) ([]StockMovement, error) {
	if limit <= 0 {
		limit = 20
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var movements []StockMovement
	// Appended in order, so walk backwards for newest first
	for i := len(s.movements) - 1; i >= 0 && len(movements) < limit; i-- {
		m := s.movements[i]
		if m.TenantID == tenantID && m.SKU == sku {
			movements = append(movements, m)
		}
	}
	return movements, nil
}

func (s *Memory) InsertInvoice(_ context.Context, invoice *Invoice) error {
	fillInvoiceDefaults(invoice)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices[memKey(invoice.TenantID, invoice.ID)] = *invoice
	return nil
}

func (s *Memory) GetInvoice(_ context.Context, tenantID, invoiceID string) (*Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	invoice, ok := s.invoices[memKey(tenantID, invoiceID)]
	if !ok {
		return nil, apperrors.NewRecordNotFound("invoices", invoiceID)
	}
	return &invoice, nil
}

func (s *Memory) InsertPayment(_ context.Context, payment *Payment) error {
	fillPaymentDefaults(payment)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = append(s.payments, *payment)
	return nil
}

func (s *Memory) Ping(context.Context) error {
	return nil
}

func (s *Memory) Close() error {
	return nil
}
