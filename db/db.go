package db

import (
	"context"
	"database/sql"
	"fmt"

	"shop-telegram/config"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite"
)

// DB is an open handle on either backend. Exactly one of Pool or SQL is set.
type DB struct {
	Driver string
	Pool   *pgxpool.Pool
	SQL    *sql.DB
}

func Open(ctx context.Context, cfg config.DBConfig) (*DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		return &DB{Driver: cfg.Driver, Pool: pool}, nil
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.Path)
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}

// OpenSQLite opens (creating if needed) the sqlite file at path.
func OpenSQLite(ctx context.Context, path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return &DB{Driver: config.DriverSQLite, SQL: sqlDB}, nil
}

// Exec runs a statement (or a script, for migrations) on whichever backend is open.
func (d *DB) Exec(ctx context.Context, query string) error {
	if d.Pool != nil {
		_, err := d.Pool.Exec(ctx, query)
		return err
	}
	_, err := d.SQL.ExecContext(ctx, query)
	return err
}

func (d *DB) Close() {
	if d == nil {
		return
	}
	if d.Pool != nil {
		d.Pool.Close()
	}
	if d.SQL != nil {
		d.SQL.Close()
	}
}
