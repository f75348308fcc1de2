package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/unimart/settlement/internal/domain/errors"
	"github.com/unimart/settlement/internal/domain/model"
	"github.com/unimart/settlement/internal/domain/repository"
)

// PgxPool is the subset of pgxpool.Pool the storage layer relies on, kept as
// an interface so tests can substitute a mock pool.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   PgxPool
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

type ledgerRepository struct {
	storage *Storage
}

type vendorRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Ledger() repository.LedgerRepository {
	return &ledgerRepository{storage: s}
}

func (s *Storage) Vendors() repository.VendorRepository {
	return &vendorRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            customer_id TEXT NOT NULL,
            status TEXT NOT NULL,
            total_amount BIGINT NOT NULL,
            currency TEXT NOT NULL,
            payment_method TEXT NOT NULL DEFAULT '',
            ship_name TEXT NOT NULL DEFAULT '',
            ship_line1 TEXT NOT NULL DEFAULT '',
            ship_line2 TEXT NOT NULL DEFAULT '',
            ship_city TEXT NOT NULL DEFAULT '',
            ship_postcode TEXT NOT NULL DEFAULT '',
            ship_country TEXT NOT NULL DEFAULT '',
            tracking_number TEXT,
            carrier TEXT,
            estimated_delivery_at TIMESTAMPTZ,
            actual_delivery_at TIMESTAMPTZ,
            last_tracking_update_at TIMESTAMPTZ,
            delivery_notes TEXT NOT NULL DEFAULT '',
            polled_at TIMESTAMPTZ,
            version BIGINT NOT NULL DEFAULT 1,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            product_id TEXT NOT NULL,
            vendor_id TEXT NOT NULL,
            quantity BIGINT NOT NULL,
            unit_price BIGINT NOT NULL,
            subtotal BIGINT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS ledger_entries (
            id UUID PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            vendor_id TEXT,
            kind TEXT NOT NULL,
            amount BIGINT NOT NULL,
            currency TEXT NOT NULL,
            state TEXT NOT NULL,
            external_ref TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS vendor_accounts (
            id TEXT PRIMARY KEY,
            tier TEXT NOT NULL,
            commission_override_bps BIGINT,
            payout_destination TEXT NOT NULL DEFAULT '',
            payout_verified BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_ledger_charge_ref
            ON ledger_entries(order_id, external_ref) WHERE kind = 'charge'`,
		`CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_order ON ledger_entries(order_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_vendor ON ledger_entries(vendor_id, state) WHERE kind = 'vendor_payout'`,
		`CREATE INDEX IF NOT EXISTS idx_orders_pollable ON orders(polled_at)
            WHERE tracking_number IS NOT NULL
              AND status IN ('processing', 'packed', 'shipped', 'out_for_delivery')`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

const orderColumns = `id, customer_id, status, total_amount, currency, payment_method,
        ship_name, ship_line1, ship_line2, ship_city, ship_postcode, ship_country,
        tracking_number, carrier, estimated_delivery_at, actual_delivery_at,
        last_tracking_update_at, delivery_notes, version, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	var carrier *string
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.Status, &o.TotalAmount, &o.Currency, &o.PaymentMethod,
		&o.Shipping.Name, &o.Shipping.Line1, &o.Shipping.Line2, &o.Shipping.City,
		&o.Shipping.Postcode, &o.Shipping.Country,
		&o.TrackingNumber, &carrier, &o.EstimatedDeliveryAt, &o.ActualDeliveryAt,
		&o.LastTrackingUpdateAt, &o.DeliveryNotes, &o.Version, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if carrier != nil {
		c := model.Carrier(*carrier)
		o.Carrier = &c
	}
	return &o, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order, items []model.OrderLineItem) (*model.Order, error) {
	created := *order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders
            (customer_id, status, total_amount, currency, payment_method,
             ship_name, ship_line1, ship_line2, ship_city, ship_postcode, ship_country)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
            RETURNING id, version, created_at, updated_at`
		err := tx.QueryRow(ctx, insertOrder,
			order.CustomerID, order.Status, order.TotalAmount, order.Currency, order.PaymentMethod,
			order.Shipping.Name, order.Shipping.Line1, order.Shipping.Line2,
			order.Shipping.City, order.Shipping.Postcode, order.Shipping.Country,
		).Scan(&created.ID, &created.Version, &created.CreatedAt, &created.UpdatedAt)
		if err != nil {
			return err
		}

		const insertItem = `INSERT INTO order_items
            (order_id, product_id, vendor_id, quantity, unit_price, subtotal)
            VALUES ($1, $2, $3, $4, $5, $6)`
		for _, item := range items {
			if _, err := tx.Exec(ctx, insertItem,
				created.ID, item.ProductID, item.VendorID, item.Quantity, item.UnitPrice, item.Subtotal,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListItems(ctx context.Context, orderID int64) ([]model.OrderLineItem, error) {
	const query = `SELECT id, order_id, product_id, vendor_id, quantity, unit_price, subtotal
                   FROM order_items WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.OrderLineItem
	for rows.Next() {
		var item model.OrderLineItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.VendorID,
			&item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID string) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID, version int64, status model.OrderStatus, patch model.TrackingPatch) error {
	const query = `UPDATE orders SET
            status=$1,
            estimated_delivery_at=COALESCE($2, estimated_delivery_at),
            actual_delivery_at=COALESCE($3, actual_delivery_at),
            last_tracking_update_at=COALESCE($4, last_tracking_update_at),
            delivery_notes=COALESCE($5, delivery_notes),
            version=version+1,
            updated_at=NOW()
        WHERE id=$6 AND version=$7`
	tag, err := r.storage.pool.Exec(ctx, query,
		status, patch.EstimatedDeliveryAt, patch.ActualDeliveryAt,
		patch.LastTrackingUpdateAt, patch.DeliveryNotes, orderID, version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrVersionConflict
	}
	return nil
}

func (r *orderRepository) SetTracking(ctx context.Context, orderID, version int64, carrier model.Carrier, trackingNumber string) error {
	const query = `UPDATE orders SET carrier=$1, tracking_number=$2, version=version+1, updated_at=NOW()
                   WHERE id=$3 AND version=$4`
	tag, err := r.storage.pool.Exec(ctx, query, string(carrier), trackingNumber, orderID, version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrVersionConflict
	}
	return nil
}

func (r *orderRepository) SelectBatchForTracking(ctx context.Context, limit int) ([]model.Order, error) {
	selectQuery := `SELECT ` + orderColumns + `
                    FROM orders
                    WHERE tracking_number IS NOT NULL
                      AND status IN ('processing', 'packed', 'shipped', 'out_for_delivery')
                    ORDER BY COALESCE(polled_at, created_at)
                    LIMIT $1
                    FOR UPDATE SKIP LOCKED`

	var orders []model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			order, err := scanOrder(rows)
			if err != nil {
				return err
			}
			orders = append(orders, *order)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		for _, order := range orders {
			if _, err := tx.Exec(ctx, `UPDATE orders SET polled_at=NOW() WHERE id=$1`, order.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// --- LedgerRepository implementation ---

func (r *ledgerRepository) Append(ctx context.Context, entry *model.LedgerEntry) (bool, error) {
	const query = `INSERT INTO ledger_entries
            (id, order_id, vendor_id, kind, amount, currency, state, external_ref)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
            ON CONFLICT DO NOTHING`
	tag, err := r.storage.pool.Exec(ctx, query,
		entry.ID, entry.OrderID, entry.VendorID, entry.Kind,
		entry.Amount, entry.Currency, entry.State, entry.ExternalRef)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ledgerRepository) HasCharge(ctx context.Context, orderID int64, externalRef string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM ledger_entries
                   WHERE order_id=$1 AND kind='charge' AND external_ref=$2)`
	var exists bool
	if err := r.storage.pool.QueryRow(ctx, query, orderID, externalRef).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *ledgerRepository) MarkSettled(ctx context.Context, id uuid.UUID, externalRef string) error {
	const query = `UPDATE ledger_entries SET state='settled', external_ref=$2 WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, id, externalRef)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *ledgerRepository) ListByOrder(ctx context.Context, orderID int64) ([]model.LedgerEntry, error) {
	const query = `SELECT id, order_id, vendor_id, kind, amount, currency, state, external_ref, created_at
                   FROM ledger_entries WHERE order_id=$1 ORDER BY created_at, id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.LedgerEntry
	for rows.Next() {
		var e model.LedgerEntry
		if err := rows.Scan(&e.ID, &e.OrderID, &e.VendorID, &e.Kind, &e.Amount,
			&e.Currency, &e.State, &e.ExternalRef, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *ledgerRepository) VendorBalance(ctx context.Context, vendorID string) (*model.VendorBalance, error) {
	const query = `SELECT
            COALESCE(SUM(amount) FILTER (WHERE state='settled'), 0),
            COALESCE(SUM(amount) FILTER (WHERE state='pending'), 0)
        FROM ledger_entries WHERE vendor_id=$1 AND kind='vendor_payout'`
	balance := model.VendorBalance{VendorID: vendorID}
	if err := r.storage.pool.QueryRow(ctx, query, vendorID).Scan(&balance.Paid, &balance.Pending); err != nil {
		return nil, err
	}
	return &balance, nil
}

// --- VendorRepository implementation ---

func (r *vendorRepository) Get(ctx context.Context, id string) (*model.VendorAccount, error) {
	const query = `SELECT id, tier, commission_override_bps, payout_destination, payout_verified, created_at, updated_at
                   FROM vendor_accounts WHERE id=$1`
	var v model.VendorAccount
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&v.ID, &v.Tier, &v.CommissionOverrideBps,
		&v.PayoutDestination, &v.PayoutVerified, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *vendorRepository) Upsert(ctx context.Context, account *model.VendorAccount) (*model.VendorAccount, error) {
	const query = `INSERT INTO vendor_accounts
            (id, tier, commission_override_bps, payout_destination, payout_verified)
            VALUES ($1, $2, $3, $4, $5)
            ON CONFLICT (id) DO UPDATE SET
                tier=EXCLUDED.tier,
                commission_override_bps=EXCLUDED.commission_override_bps,
                payout_destination=EXCLUDED.payout_destination,
                payout_verified=EXCLUDED.payout_verified,
                updated_at=NOW()
            RETURNING created_at, updated_at`
	stored := *account
	err := r.storage.pool.QueryRow(ctx, query, account.ID, account.Tier, account.CommissionOverrideBps,
		account.PayoutDestination, account.PayoutVerified).Scan(&stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
