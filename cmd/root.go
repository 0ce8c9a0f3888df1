package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tracker/internal/cli"
	"github.com/thenoetrevino/tracker/internal/config"
	"github.com/thenoetrevino/tracker/internal/logging"
)

var rootCmd = NewRootCmd()

// NewRootCmd builds the tracker command tree.
func NewRootCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		dbPath     string
		logCloser  io.Closer
	)

	root := &cobra.Command{
		Use:   "tracker",
		Short: "Tracker - an issue tracker with per-project workflows",
		Long: `Tracker serves projects, issues and comments over a hypermedia HTTP API.
Each project defines its own labels, states and allowed state transitions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return dataErr(err)
			}
			// Flags override file and environment
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if dbPath != "" {
				cfg.Database.Path = dbPath
			}

			logCloser, err = logging.Init(cfg.Log)
			if err != nil {
				return dataErr(err)
			}

			cmd.SetContext(cli.WithConfig(cmd.Context(), cfg))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if logCloser != nil {
				return logCloser.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/tracker/config.yaml)")
	root.PersistentFlags().StringVar(&addr, "addr", "", "HTTP listen address")
	root.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path")

	root.AddCommand(cli.ServeCmd())
	root.AddCommand(cli.MigrateCmd())
	root.AddCommand(cli.UserCmd())
	root.AddCommand(cli.ProjectCmd())

	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return cli.ExitSuccess
	}

	var ce *cli.CommandError
	if errors.As(err, &ce) {
		return ce.Code
	}
	// Flag and argument errors from cobra
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return cli.ExitUsage
}

func dataErr(err error) error {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return &cli.CommandError{Code: cli.ExitDataErr, Err: err}
}
