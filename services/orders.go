package services

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"shop-telegram/db"
	"shop-telegram/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// orderCodeAttempts bounds retries when a generated code collides.
const orderCodeAttempts = 3

// OrderLedger appends order records. Nothing in the bot reads them back;
// admins settle orders by hand from the ticket the buyer sends.
type OrderLedger interface {
	CreateOrder(ctx context.Context, in models.CreateOrderInput) (models.Order, error)
}

// NewOrderLedger returns the ledger for whichever backend d has open.
func NewOrderLedger(d *db.DB) OrderLedger {
	if d.Pool != nil {
		return &pgLedger{pool: d.Pool}
	}
	return &sqliteLedger{db: d.SQL}
}

// NewOrderCode returns a row id (UUIDv4) and a short display code derived
// from it: "DH" plus 10 upper-case hex digits (40 random bits).
func NewOrderCode() (id, code string) {
	u := uuid.New()
	return u.String(), "DH" + strings.ToUpper(hex.EncodeToString(u[:5]))
}

func newOrder(in models.CreateOrderInput) (models.Order, error) {
	if in.ItemID == "" {
		return models.Order{}, errors.New("item id is required")
	}
	if in.Qty <= 0 {
		in.Qty = 1
	}
	id, code := NewOrderCode()
	return models.Order{
		ID:        id,
		Code:      code,
		ChatID:    in.ChatID,
		Username:  in.Username,
		ItemID:    in.ItemID,
		Qty:       in.Qty,
		Amount:    in.Amount,
		Status:    models.OrderStatusCreated,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// createWithRetry regenerates the code while insert reports a uniqueness clash.
func createWithRetry(in models.CreateOrderInput, insert func(models.Order) error, isDuplicate func(error) bool) (models.Order, error) {
	var lastErr error
	for i := 0; i < orderCodeAttempts; i++ {
		o, err := newOrder(in)
		if err != nil {
			return models.Order{}, err
		}
		err = insert(o)
		if err == nil {
			return o, nil
		}
		if !isDuplicate(err) {
			return models.Order{}, fmt.Errorf("create order: %w", err)
		}
		lastErr = err
	}
	return models.Order{}, fmt.Errorf("create order: no unique code after %d attempts: %w", orderCodeAttempts, lastErr)
}

type pgLedger struct {
	pool *pgxpool.Pool
}

func (l *pgLedger) CreateOrder(ctx context.Context, in models.CreateOrderInput) (models.Order, error) {
	insert := func(o models.Order) error {
		_, err := l.pool.Exec(ctx, `
			INSERT INTO orders (id, code, chat_id, username, item_id, qty, amount, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9)`,
			o.ID, o.Code, o.ChatID, o.Username, o.ItemID, o.Qty, o.Amount.String(), o.Status, o.CreatedAt,
		)
		return err
	}
	return createWithRetry(in, insert, isPgUniqueViolation)
}

func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type sqliteLedger struct {
	db *sql.DB
}

func (l *sqliteLedger) CreateOrder(ctx context.Context, in models.CreateOrderInput) (models.Order, error) {
	insert := func(o models.Order) error {
		_, err := l.db.ExecContext(ctx, `
			INSERT INTO orders (id, code, chat_id, username, item_id, qty, amount, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			o.ID, o.Code, o.ChatID, o.Username, o.ItemID, o.Qty, o.Amount.String(), o.Status, o.CreatedAt.Format(time.RFC3339),
		)
		return err
	}
	return createWithRetry(in, insert, isSQLiteUniqueViolation)
}

func isSQLiteUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// MemoryLedger records orders in process memory.
type MemoryLedger struct {
	mu     sync.Mutex
	orders []models.Order
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

func (m *MemoryLedger) CreateOrder(_ context.Context, in models.CreateOrderInput) (models.Order, error) {
	o, err := newOrder(in)
	if err != nil {
		return models.Order{}, err
	}
	m.mu.Lock()
	m.orders = append(m.orders, o)
	m.mu.Unlock()
	return o, nil
}

// Orders returns a copy of everything recorded so far.
func (m *MemoryLedger) Orders() []models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Order(nil), m.orders...)
}
