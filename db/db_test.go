package db

import (
	"context"
	"path/filepath"
	"testing"

	"shop-telegram/config"
)

func TestSQLiteMigrate(t *testing.T) {
	ctx := context.Background()
	d, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "shop.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer d.Close()

	var applied []string
	if err := d.Migrate(ctx, func(name string) { applied = append(applied, name) }); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if len(applied) == 0 {
		t.Fatal("no migrations applied")
	}
	// Second run must be a no-op, not an error.
	if err := d.Migrate(ctx, nil); err != nil {
		t.Fatalf("Migrate again: %v", err)
	}

	var n int
	if err := d.SQL.QueryRowContext(ctx, `SELECT COUNT(*) FROM image_bindings`).Scan(&n); err != nil {
		t.Fatalf("image_bindings missing: %v", err)
	}
	if err := d.SQL.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		t.Fatalf("orders missing: %v", err)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), config.DBConfig{Driver: "mysql"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
