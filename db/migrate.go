package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

// Migrations are embedded so `shopbot migrate` works regardless of the
// current working directory.
//
//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrate applies every migration for the open driver in file-name order.
// Migrations are idempotent (IF NOT EXISTS) so re-running is safe.
func (d *DB) Migrate(ctx context.Context, applied func(name string)) error {
	names, err := fs.Glob(migrationsFS, "migrations/"+d.Driver+"/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	if len(names) == 0 {
		return fmt.Errorf("no migrations for driver %q", d.Driver)
	}
	sort.Strings(names)
	for _, name := range names {
		sqlBytes, err := migrationsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if err := d.Exec(ctx, string(sqlBytes)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if applied != nil {
			applied(name)
		}
	}
	return nil
}
