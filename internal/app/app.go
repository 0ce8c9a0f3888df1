package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/tracker/internal/database"
	commentservice "github.com/thenoetrevino/tracker/internal/services/comment"
	issueservice "github.com/thenoetrevino/tracker/internal/services/issue"
	projectservice "github.com/thenoetrevino/tracker/internal/services/project"
	userservice "github.com/thenoetrevino/tracker/internal/services/user"
)

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	// Repository layer (direct database access)
	store database.Store
	db    *sql.DB

	logger *slog.Logger

	// Service layer (business logic)
	ProjectService projectservice.Service
	IssueService   issueservice.Service
	CommentService commentservice.Service
	UserService    userservice.Service
}

// New creates a new App with all services initialized.
// This is the single entry point for creating the application container.
func New(db *sql.DB, opts ...Option) *App {
	cfg := &appConfig{
		logger:     slog.Default(),
		retryLimit: database.DefaultOptions().RetryMaxElapsed,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	store := database.NewRepositoryWithRetry(db, cfg.retryLimit)
	return &App{
		store:          store,
		db:             db,
		logger:         cfg.logger,
		ProjectService: projectservice.NewService(store, cfg.logger),
		IssueService:   issueservice.NewService(store, cfg.logger),
		CommentService: commentservice.NewService(store, cfg.logger),
		UserService:    userservice.NewService(store, cfg.userOpts...),
	}
}

// Store returns the underlying repository for direct database access.
func (a *App) Store() database.Store {
	return a.store
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Ping checks that the database is reachable.
func (a *App) Ping(ctx context.Context) error {
	return a.store.Ping(ctx)
}

// Close releases the database connection.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
