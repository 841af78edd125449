package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"order-dispatch/internal/common"
	"order-dispatch/internal/reconcile"
	"order-dispatch/internal/spreadsheet"
)

// Batch is one processed spreadsheet persisted for later listing and routing.
type Batch struct {
	ID            uuid.UUID
	Filename      string
	Layout        string
	CreatedAt     time.Time
	Orders        []spreadsheet.Order
	Discrepancies []reconcile.Discrepancy
}

// BatchSummary is the listing view of a stored batch.
type BatchSummary struct {
	ID        uuid.UUID
	Filename  string
	Layout    string
	CreatedAt time.Time
	Orders    int
}

// BatchRepository persists processed spreadsheet batches in the history
// database.
type BatchRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewBatchRepository(db *sql.DB, logger *slog.Logger) *BatchRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchRepository{db: db, logger: logger}
}

// Save stores a batch with its orders, per-item quantities and discrepancies
// in one transaction.
func (r *BatchRepository) Save(ctx context.Context, b *Batch) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return common.WrapError(err, "begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO batches (id, filename, layout, created_at) VALUES (?, ?, ?, ?)`,
		b.ID.String(), b.Filename, b.Layout, b.CreatedAt.UTC(),
	); err != nil {
		return common.WrapError(err, "insert batch")
	}

	for _, o := range b.Orders {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO orders (batch_id, idx, delivery, customer, items_text, phone, address, city, zip_code)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID.String(), o.Index, o.Delivery, o.Customer, o.ItemsText, o.Phone, o.Address, o.City, o.ZipCode,
		); err != nil {
			return common.WrapError(err, "insert order")
		}
		for item, qty := range o.Quantities {
			if qty == 0 {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO order_items (batch_id, idx, item, quantity) VALUES (?, ?, ?, ?)`,
				b.ID.String(), o.Index, item, qty,
			); err != nil {
				return common.WrapError(err, "insert order item")
			}
		}
	}

	for _, d := range b.Discrepancies {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO discrepancies (batch_id, item, computed, expected) VALUES (?, ?, ?, ?)`,
			b.ID.String(), d.Item, d.Computed, d.Expected,
		); err != nil {
			return common.WrapError(err, "insert discrepancy")
		}
	}

	if err := tx.Commit(); err != nil {
		return common.WrapError(err, "commit batch")
	}
	r.logger.Info("repository.batch.saved",
		"batch_id", b.ID.String(),
		"orders", len(b.Orders),
		"discrepancies", len(b.Discrepancies),
	)
	return nil
}

// List returns the most recent batches, newest first.
func (r *BatchRepository) List(ctx context.Context, limit int) ([]BatchSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.filename, b.layout, b.created_at, COUNT(o.idx)
		 FROM batches b LEFT JOIN orders o ON o.batch_id = b.id
		 GROUP BY b.id ORDER BY b.created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, common.WrapError(err, "list batches")
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []BatchSummary
	for rows.Next() {
		var (
			id string
			s  BatchSummary
		)
		if err := rows.Scan(&id, &s.Filename, &s.Layout, &s.CreatedAt, &s.Orders); err != nil {
			return nil, common.WrapError(err, "scan batch row")
		}
		s.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, common.WrapError(err, "parse batch id")
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get loads a stored batch with its orders, quantities and discrepancies.
func (r *BatchRepository) Get(ctx context.Context, id uuid.UUID) (*Batch, error) {
	b := &Batch{ID: id}
	err := r.db.QueryRowContext(ctx,
		`SELECT filename, layout, created_at FROM batches WHERE id = ?`, id.String(),
	).Scan(&b.Filename, &b.Layout, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("batch %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, common.WrapError(err, "load batch")
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT idx, delivery, customer, items_text, phone, address, city, zip_code
		 FROM orders WHERE batch_id = ? ORDER BY idx`, id.String())
	if err != nil {
		return nil, common.WrapError(err, "load orders")
	}
	defer func() {
		_ = rows.Close()
	}()
	for rows.Next() {
		var o spreadsheet.Order
		if err := rows.Scan(&o.Index, &o.Delivery, &o.Customer, &o.ItemsText, &o.Phone, &o.Address, &o.City, &o.ZipCode); err != nil {
			return nil, common.WrapError(err, "scan order row")
		}
		o.Quantities = make(map[string]int)
		b.Orders = append(b.Orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(err, "iterate orders")
	}

	itemRows, err := r.db.QueryContext(ctx,
		`SELECT idx, item, quantity FROM order_items WHERE batch_id = ?`, id.String())
	if err != nil {
		return nil, common.WrapError(err, "load order items")
	}
	defer func() {
		_ = itemRows.Close()
	}()
	for itemRows.Next() {
		var (
			idx  int
			item string
			qty  int
		)
		if err := itemRows.Scan(&idx, &item, &qty); err != nil {
			return nil, common.WrapError(err, "scan order item row")
		}
		if idx >= 0 && idx < len(b.Orders) {
			b.Orders[idx].Quantities[item] = qty
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, common.WrapError(err, "iterate order items")
	}

	discRows, err := r.db.QueryContext(ctx,
		`SELECT item, computed, expected FROM discrepancies WHERE batch_id = ?`, id.String())
	if err != nil {
		return nil, common.WrapError(err, "load discrepancies")
	}
	defer func() {
		_ = discRows.Close()
	}()
	for discRows.Next() {
		var d reconcile.Discrepancy
		if err := discRows.Scan(&d.Item, &d.Computed, &d.Expected); err != nil {
			return nil, common.WrapError(err, "scan discrepancy row")
		}
		b.Discrepancies = append(b.Discrepancies, d)
	}
	return b, discRows.Err()
}
