package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap"

	apperrors "buffr-host/backend/pkg/errors"
	"buffr-host/backend/pkg/logger"
)

// Store is the hospitality persistence layer tool handlers write through.
// Postgres backs production; Memory backs development and tests.
type Store interface {
	EnqueueEmail(ctx context.Context, email *OutboundEmail) error
	InsertCalendarEvent(ctx context.Context, event *CalendarEvent) error
	InsertCampaign(ctx context.Context, campaign *Campaign) error

	UpsertMenuItem(ctx context.Context, item *MenuItem) error
	GetMenuItem(ctx context.Context, tenantID, name string) (*MenuItem, error)

	InsertOrder(ctx context.Context, order *RestaurantOrder) error
	UpdateOrderStation(ctx context.Context, tenantID, orderID, station string) (*RestaurantOrder, error)

	UpsertInventoryItem(ctx context.Context, item *InventoryItem) error
	GetInventoryItem(ctx context.Context, tenantID, sku string) (*InventoryItem, error)
	// AdjustStock applies delta to the item's quantity as one atomic,
	// conditional update: it fails with ErrInsufficientStock rather than
	// letting the counter go negative, and appends a StockMovement on success.
	AdjustStock(ctx context.Context, tenantID, sku string, delta int64, reason, actor string) (*InventoryItem, error)
	ListItemsBelowReorder(ctx context.Context, tenantID string) ([]InventoryItem, error)
	ListStockMovements(ctx context.Context, tenantID, sku string, limit int) ([]StockMovement, error)

	InsertInvoice(ctx context.Context, invoice *Invoice) error
	GetInvoice(ctx context.Context, tenantID, invoiceID string) (*Invoice, error)
	InsertPayment(ctx context.Context, payment *Payment) error

	Ping(ctx context.Context) error
	Close() error
}

// Postgres implements Store on top of bun.
type Postgres struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewPostgres connects to Postgres and creates missing tables.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	s := &Postgres{
		db:     db,
		logger: logger.Named("store"),
	}

	if err := s.db.PingContext(ctx); err != nil {
		return nil, apperrors.NewStorageUnavailable("postgres", err)
	}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s.logger.Info("Connected to Postgres")
	return s, nil
}

func (s *Postgres) migrate(ctx context.Context) error {
	models := []interface{}{
		(*OutboundEmail)(nil),
		(*CalendarEvent)(nil),
		(*Campaign)(nil),
		(*MenuItem)(nil),
		(*RestaurantOrder)(nil),
		(*InventoryItem)(nil),
		(*StockMovement)(nil),
		(*Invoice)(nil),
		(*Payment)(nil),
	}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return apperrors.NewStorageUnavailable("postgres", err)
		}
	}

	// Upserts and the stock counter rely on these being unique.
	if _, err := s.db.NewCreateIndex().
		Model((*InventoryItem)(nil)).
		Index("idx_inventory_items_tenant_sku").
		Unique().
		Column("tenant_id", "sku").
		IfNotExists().
		Exec(ctx); err != nil {
		return apperrors.NewStorageUnavailable("postgres", err)
	}
	if _, err := s.db.NewCreateIndex().
		Model((*MenuItem)(nil)).
		Index("idx_menu_items_tenant_name").
		Unique().
		Column("tenant_id", "name").
		IfNotExists().
		Exec(ctx); err != nil {
		return apperrors.NewStorageUnavailable("postgres", err)
	}
	return nil
}

func (s *Postgres) EnqueueEmail(ctx context.Context, email *OutboundEmail) error {
	fillEmailDefaults(email)
	if _, err := s.db.NewInsert().Model(email).Exec(ctx); err != nil {
		return apperrors.NewStorageUnavailable("postgres", err)
	}
	return nil
}

func (s *Postgres) InsertCalendarEvent(ctx context.Context, event *CalendarEvent) error {
	fillEventDefaults(event)
	if _, err := s.db.NewInsert().Model(event).Exec(ctx); err != nil {
		return apperrors.NewStorageUnavailable("postgres", err)
	}
	return nil
}

func (s *Postgres) InsertCampaign(ctx context.Context, campaign *Campaign) error {
	fillCampaignDefaults(campaign)
	if _, err := s.db.NewInsert().Model(campaign).Exec(ctx); err != nil {
		return apperrors.NewStorageUnavailable("postgres", err)
	}
	return nil
}

func (s *Postgres) UpsertMenuItem(ctx context.Context, item *MenuItem) error {
	fillMenuItemDefaults(item)
	if _, err := s.db.NewInsert().
		Model(item).
		On("CONFLICT (tenant_id, name) DO UPDATE").
		Set("description = EXCLUDED.description").
		Set("price = EXCLUDED.price").
		Set("category = EXCLUDED.category").
		Set("allergens = EXCLUDED.allergens").
		Set("available = EXCLUDED.available").
		Exec(ctx); err != nil {
		return apperrors.NewStorageUnavailable("postgres", err)
	}
	return nil
}

func (s *Postgres) GetMenuItem(ctx context.Context, tenantID, name string) (*MenuItem, error) {
	item := new(MenuItem)
	err := s.db.NewSelect().
		Model(item).
		Where("tenant_id = ?", tenantID).
		Where("lower(name) = lower(?)", name).
		Limit(1).
		Scan(ctx)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewRecordNotFound("menu_items", name)
	}
	if err != nil {
		return nil, apperrors.NewStorageUnavailable("postgres", err)
	}
	return item, nil
}

func (s *Postgres) InsertOrder(ctx context.Context, order *RestaurantOrder) error {
	fillOrderDefaults(order)
	if _, err := s.db.NewInsert().Model(order).Exec(ctx); err != nil {
		return apperrors.NewStorageUnavailable("postgres", err)
	}
	return nil
}

func (s *Postgres) UpdateOrderStation(ctx context.Context, tenantID, orderID, station string) (*RestaurantOrder, error) {
	order := new(RestaurantOrder)
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*RestaurantOrder)(nil)).
			Set("station = ?", station).
			Set("status = ?", "routed").
			Set("updated_at = ?", time.Now().UTC()).
			Where("tenant_id = ?", tenantID).
			Where("id = ?", orderID).
			Exec(ctx)
		if err != nil {
			return apperrors.NewStorageUnavailable("postgres", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return apperrors.NewStorageUnavailable("postgres", err)
		}
		if affected == 0 {
			return apperrors.NewRecordNotFound("restaurant_orders", orderID)
		}
		if err := tx.NewSelect().
			Model(order).
			Where("tenant_id = ?", tenantID).
			Where("id = ?", orderID).
			Scan(ctx); err != nil {
			return apperrors.NewStorageUnavailable("postgres", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Postgres) UpsertInventoryItem(ctx context.Context, item *InventoryItem) error {
	fillInventoryDefaults(item)
	if _, err := s.db.NewInsert().
		Model(item).
		On("CONFLICT (tenant_id, sku) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("quantity = EXCLUDED.quantity").
		Set("unit = EXCLUDED.unit").
		Set("reorder_level = EXCLUDED.reorder_level").
		Set("reorder_quantity = EXCLUDED.reorder_quantity").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx); err != nil {
		return apperrors.NewStorageUnavailable("postgres", err)
	}
	return nil
}

func (s *Postgres) GetInventoryItem(ctx context.Context, tenantID, sku string) (*InventoryItem, error) {
	item := new(InventoryItem)
	err := s.db.NewSelect().
		Model(item).
		Where("tenant_id = ?", tenantID).
		Where("sku = ?", sku).
		Limit(1).
		Scan(ctx)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewRecordNotFound("inventory_items", sku)
	}
	if err != nil {
		return nil, apperrors.NewStorageUnavailable("postgres", err)
	}
	return item, nil
}

func (s *Postgres) AdjustStock(ctx context.Context, tenantID, sku string, delta int64, reason, actor string) (*InventoryItem, error) {
	item := new(InventoryItem)
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// Conditional update: concurrent deductions race on this one
		// statement, and Postgres lets exactly one of two conflicting
		// updates cross the zero boundary.
		res, err := tx.NewUpdate().
			Model((*InventoryItem)(nil)).
			Set("quantity = quantity + ?", delta).
			Set("updated_at = ?", time.Now().UTC()).
			Where("tenant_id = ?", tenantID).
			Where("sku = ?", sku).
			Where("quantity + ? >= 0", delta).
			Exec(ctx)
		if err != nil {
			return apperrors.NewStorageUnavailable("postgres", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return apperrors.NewStorageUnavailable("postgres", err)
		}
		if affected == 0 {
			exists, err := tx.NewSelect().
				Model((*InventoryItem)(nil)).
				Where("tenant_id = ?", tenantID).
				Where("sku = ?", sku).
				Exists(ctx)
			if err != nil {
				return apperrors.NewStorageUnavailable("postgres", err)
			}
			if !exists {
				return apperrors.NewRecordNotFound("inventory_items", sku)
			}
			return apperrors.ErrInsufficientStock
		}

		if err := tx.NewSelect().
			Model(item).
			Where("tenant_id = ?", tenantID).
			Where("sku = ?", sku).
			Scan(ctx); err != nil {
			return apperrors.NewStorageUnavailable("postgres", err)
		}

		movement := &StockMovement{
			TenantID: tenantID,
			SKU:      sku,
			Delta:    delta,
			Reason:   reason,
			Actor:    actor,
		}
		fillMovementDefaults(movement)
		if _, err := tx.NewInsert().Model(movement).Exec(ctx); err != nil {
			return apperrors.NewStorageUnavailable("postgres", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Postgres) ListItemsBelowReorder(ctx context.Context, tenantID string) ([]InventoryItem, error) {
	var items []InventoryItem
	err := s.db.NewSelect().
		Model(&items).
		Where("tenant_id = ?", tenantID).
		Where("quantity <= reorder_level").
		Order("sku ASC").
		Scan(ctx)
	if err != nil {
		return nil, apperrors.NewStorageUnavailable("postgres", err)
	}
	return items, nil
}

func (s *Postgres) ListStockMovements(ctx context.Context, tenantID, sku string, limit int) ([]StockMovement, error) {
	if limit <= 0 {
		limit = 20
	}
	var movements []StockMovement
	err := s.db.NewSelect().
		Model(&movements).
		Where("tenant_id = ?", tenantID).
		Where("sku = ?", sku).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, apperrors.NewStorageUnavailable("postgres", err)
	}
	return movements, nil
}

func (s *Postgres) InsertInvoice(ctx context.Context, invoice *Invoice) error {
	fillInvoiceDefaults(invoice)
	if _, err := s.db.NewInsert().Model(invoice).Exec(ctx); err != nil {
		return apperrors.NewStorageUnavailable("postgres", err)
	}
	return nil
}

func (s *Postgres) GetInvoice(ctx context.Context, tenantID, invoiceID string) (*Invoice, error) {
	invoice := new(Invoice)
	err := s.db.NewSelect().
		Model(invoice).
		Where("tenant_id = ?", tenantID).
		Where("id = ?", invoiceID).
		Limit(1).
		Scan(ctx)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewRecordNotFound("invoices", invoiceID)
	}
	if err != nil {
		return nil, apperrors.NewStorageUnavailable("postgres", err)
	}
	return invoice, nil
}

func (s *Postgres) InsertPayment(ctx context.Context, payment *Payment) error {
	fillPaymentDefaults(payment)
	if _, err := s.db.NewInsert().Model(payment).Exec(ctx); err != nil {
		return apperrors.NewStorageUnavailable("postgres", err)
	}
	return nil
}

func (s *Postgres) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return apperrors.NewStorageUnavailable("postgres", err)
	}
	return nil
}

func (s *Postgres) Close() error {
	return s.db.Close()
}

// Default fillers shared by both Store implementations.

func fillEmailDefaults(email *OutboundEmail) {
	if email.ID == "" {
		email.ID = uuid.New().String()
	}
	if email.Status == "" {
		email.Status = "queued"
	}
	if email.CreatedAt.IsZero() {
		email.CreatedAt = time.Now().UTC()
	}
}

func fillEventDefaults(event *CalendarEvent) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
}

func fillCampaignDefaults(campaign *Campaign) {
	if campaign.ID == "" {
		campaign.ID = uuid.New().String()
	}
	if campaign.Status == "" {
		campaign.Status = "draft"
	}
	if campaign.CreatedAt.IsZero() {
		campaign.CreatedAt = time.Now().UTC()
	}
}

func fillMenuItemDefaults(item *MenuItem) {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
}

func fillOrderDefaults(order *RestaurantOrder) {
	now := time.Now().UTC()
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.Station == "" {
		order.Station = "pending"
	}
	if order.Status == "" {
		order.Status = "open"
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}
}

func fillInventoryDefaults(item *InventoryItem) {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = time.Now().UTC()
	}
}

func fillMovementDefaults(movement *StockMovement) {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now().UTC()
	}
}

func fillInvoiceDefaults(invoice *Invoice) {
	if invoice.Currency == "" {
		invoice.Currency = "NAD"
	}
	if invoice.Status == "" {
		invoice.Status = "issued"
	}
	if invoice.IssuedAt.IsZero() {
		invoice.IssuedAt = time.Now().UTC()
	}
}

func fillPaymentDefaults(payment *Payment) {
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}
}
