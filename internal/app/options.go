package app

import (
	"log/slog"
	"time"

	userservice "github.com/thenoetrevino/tracker/internal/services/user"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	logger     *slog.Logger
	retryLimit time.Duration
	userOpts   []userservice.Option
}

// WithLogger sets the logger for the application
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithRetryLimit bounds how long busy transactions are retried
func WithRetryLimit(d time.Duration) Option {
	return func(cfg *appConfig) {
		if d > 0 {
			cfg.retryLimit = d
		}
	}
}

// WithPasswordCost sets the bcrypt cost for newly registered users
func WithPasswordCost(cost int) Option {
	return func(cfg *appConfig) {
		cfg.userOpts = append(cfg.userOpts, userservice.WithCost(cost))
	}
}
