package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tracker/internal/api"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the tracker HTTP API until interrupted.

The listen address and database path come from the config file, the
TRACKER_ADDR and TRACKER_DB_PATH environment variables, or the --addr and
--db flags, in increasing order of precedence.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	// Set up signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	formatter := &OutputFormatter{}
	cliInstance, err := GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail(err)
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()

	server := api.NewServer(cliInstance.App, cliInstance.Config)
	slog.Info("tracker starting",
		"addr", cliInstance.Config.Server.Addr,
		"database", cliInstance.Config.Database.Path,
		"pid", os.Getpid(),
	)

	// Blocks until shutdown
	if err := server.Start(ctx); err != nil {
		slog.Error("server error", "error", err)
		return &CommandError{Code: ExitError, Err: err}
	}

	slog.Info("tracker shutting down gracefully")
	return nil
}
