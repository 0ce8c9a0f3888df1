package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// MigrateCmd returns the migrate command
func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Args:  cobra.NoArgs,
		RunE:  runMigrate,
	}

	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

type migrateResult struct {
	Database string `json:"database"`
}

func (m migrateResult) String() string {
	return fmt.Sprintf("Database ready at %s", m.Database)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	formatter := &OutputFormatter{JSON: jsonOutput}

	// Opening the database applies the schema
	cliInstance, err := GetCLIFromContext(cmd.Context())
	if err != nil {
		return formatter.Fail(err)
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()

	if err := cliInstance.App.Ping(cmd.Context()); err != nil {
		return formatter.Fail(err)
	}
	return formatter.Success(migrateResult{Database: cliInstance.Config.Database.Path})
}
