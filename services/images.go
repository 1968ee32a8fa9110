package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"shop-telegram/db"
	"shop-telegram/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ImageStore is the key -> Telegram file_id table used to decorate screens.
// Reads happen before every screen send; writes only from the admin flow.
type ImageStore interface {
	GetImage(ctx context.Context, key string) (ref string, ok bool, err error)
	SetImage(ctx context.Context, b models.ImageBinding) error
}

// NewImageStore returns the store for whichever backend d has open.
func NewImageStore(d *db.DB) ImageStore {
	if d.Pool != nil {
		return &pgImages{pool: d.Pool}
	}
	return &sqliteImages{db: d.SQL}
}

type pgImages struct {
	pool *pgxpool.Pool
}

func (s *pgImages) GetImage(ctx context.Context, key string) (string, bool, error) {
	var ref string
	err := s.pool.QueryRow(ctx, `SELECT ref FROM image_bindings WHERE key = $1`, key).Scan(&ref)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get image %s: %w", key, err)
	}
	return ref, true, nil
}

func (s *pgImages) SetImage(ctx context.Context, b models.ImageBinding) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO image_bindings (key, ref, updated_by, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (key) DO UPDATE SET ref = EXCLUDED.ref, updated_by = EXCLUDED.updated_by, updated_at = now()`,
		b.Key, b.Ref, b.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("set image %s: %w", b.Key, err)
	}
	return nil
}

type sqliteImages struct {
	db *sql.DB
}

func (s *sqliteImages) GetImage(ctx context.Context, key string) (string, bool, error) {
	var ref string
	err := s.db.QueryRowContext(ctx, `SELECT ref FROM image_bindings WHERE key = ?`, key).Scan(&ref)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get image %s: %w", key, err)
	}
	return ref, true, nil
}

func (s *sqliteImages) SetImage(ctx context.Context, b models.ImageBinding) error {
	updatedAt := b.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO image_bindings (key, ref, updated_by, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET ref = excluded.ref, updated_by = excluded.updated_by, updated_at = excluded.updated_at`,
		b.Key, b.Ref, b.UpdatedBy, updatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("set image %s: %w", b.Key, err)
	}
	return nil
}

// MemoryImages keeps bindings in process memory (no persistence; tests and DB-less runs).
type MemoryImages struct {
	mu       sync.RWMutex
	bindings map[string]models.ImageBinding
}

func NewMemoryImages() *MemoryImages {
	return &MemoryImages{bindings: make(map[string]models.ImageBinding)}
}

func (m *MemoryImages) GetImage(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	b, ok := m.bindings[key]
	m.mu.RUnlock()
	return b.Ref, ok, nil
}

func (m *MemoryImages) SetImage(_ context.Context, b models.ImageBinding) error {
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = time.Now()
	}
	m.mu.Lock()
	m.bindings[b.Key] = b
	m.mu.Unlock()
	return nil
}
