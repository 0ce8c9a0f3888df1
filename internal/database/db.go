// Package database handles the initialization of and access to the SQLite store
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "modernc.org/sqlite"
)

// Options tunes how the database is opened.
type Options struct {
	// BusyTimeout is how long SQLite waits on a locked database before failing.
	BusyTimeout time.Duration
	// RetryMaxElapsed bounds the retry of transactions that fail with SQLITE_BUSY.
	RetryMaxElapsed time.Duration
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		BusyTimeout:     5 * time.Second,
		RetryMaxElapsed: 10 * time.Second,
	}
}

// InitDB opens (creating if needed) the database file at path and applies
// the schema.
func InitDB(ctx context.Context, path string, opts Options) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return Open(ctx, path, opts)
}

// Open opens the given SQLite DSN (a file path or ":memory:"), configures the
// connection and runs migrations.
func Open(ctx context.Context, dsn string, opts Options) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite benefits from a single writer connection; it also keeps
	// ":memory:" databases on one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	closeOnErr := func(err error) (*sql.DB, error) {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing db", "error", closeErr)
		}
		return nil, err
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", opts.BusyTimeout.Milliseconds()),
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			slog.Error("failed to apply pragma", "pragma", pragma, "error", err)
			return closeOnErr(fmt.Errorf("failed to apply %q: %w", pragma, err))
		}
	}

	ping := func() error { return db.PingContext(ctx) }
	if err := backoff.Retry(ping, backoff.WithContext(newRetryBackoff(opts.RetryMaxElapsed), ctx)); err != nil {
		return closeOnErr(fmt.Errorf("database ping failed: %w", err))
	}

	if err := runMigrations(ctx, db); err != nil {
		return closeOnErr(fmt.Errorf("failed to run migrations: %w", err))
	}

	return db, nil
}
