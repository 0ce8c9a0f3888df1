package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Repository provides a unified interface to all data operations.
// It composes domain-specific repositories using struct embedding.
type Repository struct {
	*ProjectRepo
	*LabelRepo
	*StateRepo
	*IssueRepo
	*CommentRepo
	*UserRepo

	// db is nil when the repository is bound to a transaction.
	db         *sql.DB
	retryLimit time.Duration
}

var _ Store = (*Repository)(nil)

// NewRepository creates a new Repository instance wrapping the given database connection.
func NewRepository(db *sql.DB) *Repository {
	return NewRepositoryWithRetry(db, DefaultOptions().RetryMaxElapsed)
}

// NewRepositoryWithRetry is NewRepository with an explicit bound on how long
// busy transactions are retried.
func NewRepositoryWithRetry(db *sql.DB, retryLimit time.Duration) *Repository {
	r := newRepository(db)
	r.db = db
	r.retryLimit = retryLimit
	return r
}

func newRepository(q DBTX) *Repository {
	return &Repository{
		ProjectRepo: &ProjectRepo{q: q},
		LabelRepo:   &LabelRepo{q: q},
		StateRepo:   &StateRepo{q: q},
		IssueRepo:   &IssueRepo{q: q},
		CommentRepo: &CommentRepo{q: q},
		UserRepo:    &UserRepo{q: q},
	}
}

// WithTx returns a Repository whose every statement runs on tx.
func (r *Repository) WithTx(tx *sql.Tx) *Repository {
	return newRepository(tx)
}

// InTx runs fn inside a transaction, committing when fn returns nil. The
// whole transaction is retried while SQLite reports it busy. Calling InTx on
// a transaction-bound repository reuses the current transaction.
func (r *Repository) InTx(ctx context.Context, fn func(Store) error) error {
	if r.db == nil {
		return fn(r)
	}
	return withRetry(ctx, r.retryLimit, func() error {
		return withTx(ctx, r.db, func(tx *sql.Tx) error {
			return fn(r.WithTx(tx))
		})
	})
}

// Ping checks the database connection.
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return errors.New("ping is not available inside a transaction")
	}
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
