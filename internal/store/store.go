// Package store persists confirmed orders in SQLite.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"oss.terrastruct.com/xdefer"

	"github.com/piwi3910/SailQuote/internal/order"
)

//go:embed schema.sql
var schema string

// createdAtLayout is fixed width so created_at sorts correctly as TEXT.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when no order has the requested ID.
var ErrNotFound = errors.New("order not found")

// Open opens the SQLite database at path, creating its directory. An empty
// path opens a private in-memory database.
func Open(path string) (*sql.DB, error) {
	dsn := "file::memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create db dir: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", path)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// Repository reads and writes orders.
type Repository struct {
	db *sql.DB
}

// New wraps an open database.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init creates the schema if it does not exist.
func (r *Repository) Init(ctx context.Context) (err error) {
	defer xdefer.Errorf(&err, "failed to migrate order store")
	_, err = r.db.ExecContext(ctx, schema)
	return err
}

// Ping reports whether the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// SaveOrder inserts o. Saving an ID twice is an error.
func (r *Repository) SaveOrder(ctx context.Context, o order.Order) (err error) {
	defer xdefer.Errorf(&err, "failed to save order %s", o.ID)

	payload, err := json.Marshal(o)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
        INSERT INTO orders (id, status, created_at, fabric_type, corners, total_price, currency, payload)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `,
		o.ID,
		o.Status,
		o.CreatedAt.UTC().Format(createdAtLayout),
		o.Configuration.FabricType,
		o.Configuration.Corners,
		o.Calculations.TotalPrice.String(),
		o.Calculations.Currency,
		string(payload),
	)
	return err
}

// GetOrder loads the order with the given ID.
func (r *Repository) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT status, payload
        FROM orders
        WHERE id = ?
    `, id)

	var status, payload string
	if err := row.Scan(&status, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load order %s: %w", id, err)
	}
	return decode(status, payload)
}

// ListOrders returns up to limit orders, newest first. A limit of zero or
// less returns every order.
func (r *Repository) ListOrders(ctx context.Context, limit int) (_ []order.Order, err error) {
	defer xdefer.Errorf(&err, "failed to list orders")

	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
        SELECT status, payload
        FROM orders
        ORDER BY created_at DESC
        LIMIT ?
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []order.Order
	for rows.Next() {
		var status, payload string
		if err := rows.Scan(&status, &payload); err != nil {
			return nil, err
		}
		o, err := decode(status, payload)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// UpdateStatus changes the fulfilment status of an order.
func (r *Repository) UpdateStatus(ctx context.Context, id, status string) (err error) {
	defer xdefer.Errorf(&err, "failed to update order %s", id)

	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// decode restores an order from its stored payload. The status column wins
// over the payload since it is updated in place.
func decode(status, payload string) (*order.Order, error) {
	var o order.Order
	if err := json.Unmarshal([]byte(payload), &o); err != nil {
		return nil, fmt.Errorf("failed to decode order: %w", err)
	}
	o.Status = status
	return &o, nil
}
