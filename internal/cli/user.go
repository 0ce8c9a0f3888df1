package cli

import (
	"fmt"
	"log/slog"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tracker/internal/cli/styles"
	"github.com/thenoetrevino/tracker/internal/models"
	userservice "github.com/thenoetrevino/tracker/internal/services/user"
)

// UserCmd returns the user parent command
func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage API users",
	}

	cmd.AddCommand(userAddCmd())
	return cmd
}

func userAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register an API user",
		Long: `Register a user that can authenticate against the API with HTTP Basic.

Examples:
  # Register the current OS user
  tracker user add --password=secret

  # JSON output for scripts
  tracker user add --name=alice --password=secret --json

  # Quiet mode prints the name only
  NAME=$(tracker user add --name=alice --password=secret --quiet)
`,
		Args: cobra.NoArgs,
		RunE: runUserAdd,
	}

	cmd.Flags().String("name", userservice.CurrentUsername(), "User name (defaults to the OS user)")
	cmd.Flags().String("password", "", "Password (required)")
	if err := cmd.MarkFlagRequired("password"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}

	// Agent-friendly flags
	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (name only)")

	return cmd
}

// userView is the printable form of a user; the hash is never shown.
type userView struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (u userView) GetName() string {
	return u.Name
}

func (u userView) String() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.SuccessStyle.Render("User registered"),
		styles.RenderField("Name", u.Name),
		styles.RenderField("Created", u.CreatedAt.Format(time.RFC3339)),
	)
}

func newUserView(u *models.User) userView {
	return userView{Name: u.Name, CreatedAt: u.CreatedAt}
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	password, _ := cmd.Flags().GetString("password")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")

	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	if name == "" {
		if fmtErr := formatter.ErrorWithSuggestion("INVALID_NAME",
			"could not determine a user name",
			"Usage: tracker user add --name=<name> --password=<password>"); fmtErr != nil {
			slog.Error("failed to format error message", "error", fmtErr)
		}
		return &CommandError{Code: ExitUsage, Err: fmt.Errorf("user name is required")}
	}

	cliInstance, err := GetCLIFromContext(cmd.Context())
	if err != nil {
		return formatter.Fail(err)
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()

	u, err := cliInstance.App.UserService.Register(cmd.Context(), name, password)
	if err != nil {
		return formatter.Fail(err)
	}

	styles.Init(cliInstance.Config.Theme)
	return formatter.Success(newUserView(u))
}
