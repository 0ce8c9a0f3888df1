package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thenoetrevino/tracker/internal/models"
)

// UserRepo stores API credentials.
type UserRepo struct {
	q DBTX
}

// CreateUser inserts a user; a taken name yields ErrConflict.
func (r *UserRepo) CreateUser(ctx context.Context, user *models.User) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`,
		user.Name, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		return translateInsertErr(err, "failed to insert user '%s'", user.Name)
	}
	return nil
}

func (r *UserRepo) GetUser(ctx context.Context, name string) (*models.User, error) {
	u := &models.User{}
	err := r.q.QueryRowContext(ctx,
		`SELECT username, password_hash, created_at FROM users WHERE username = ?`,
		name,
	).Scan(&u.Name, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user '%s': %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user '%s': %w", name, err)
	}
	return u, nil
}
