package cli

import (
	"context"
	"fmt"

	"github.com/thenoetrevino/tracker/internal/app"
	"github.com/thenoetrevino/tracker/internal/config"
	"github.com/thenoetrevino/tracker/internal/database"
	"github.com/thenoetrevino/tracker/internal/logging"
)

// CLI represents the CLI application context
type CLI struct {
	App    *app.App // Application container with services
	Config *config.Config
	owned  bool
}

// NewCLI opens the configured database and builds the application container
func NewCLI(ctx context.Context, cfg *config.Config) (*CLI, error) {
	opts := database.Options{
		BusyTimeout:     cfg.Database.BusyTimeout(),
		RetryMaxElapsed: cfg.Database.RetryMaxElapsed,
	}
	db, err := database.InitDB(ctx, cfg.Database.Path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	application := app.New(db,
		app.WithLogger(logging.Logger),
		app.WithRetryLimit(cfg.Database.RetryMaxElapsed),
	)

	return &CLI{
		App:    application,
		Config: cfg,
		owned:  true,
	}, nil
}

// Close cleans up CLI resources. An injected App is left open for its owner.
func (c *CLI) Close() error {
	if !c.owned {
		return nil
	}
	return c.App.Close()
}
