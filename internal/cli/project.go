package cli

import (
	"log/slog"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tracker/internal/cli/styles"
	"github.com/thenoetrevino/tracker/internal/models"
)

// ProjectCmd returns the project parent command
func ProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Inspect projects",
	}

	cmd.AddCommand(projectShowCmd())
	return cmd
}

func projectShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a project's workflow",
		Long: `Show a project's allowed labels, allowed states and state transitions.

Examples:
  tracker project show --name=Demo
  tracker project show --name=Demo --json
`,
		Args: cobra.NoArgs,
		RunE: runProjectShow,
	}

	cmd.Flags().String("name", "", "Project name (required)")
	if err := cmd.MarkFlagRequired("name"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}

	cmd.Flags().Bool("json", false, "Output in JSON format")
	cmd.Flags().Bool("quiet", false, "Minimal output (name only)")

	return cmd
}

// projectView is the printable form of a project and its workflow.
type projectView struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Owner         string   `json:"owner"`
	InitialState  string   `json:"initial_state"`
	AllowedLabels []string `json:"allowed_labels"`
	AllowedStates []string `json:"allowed_states"`
	Transitions   []string `json:"transitions"`
}

func (p projectView) GetName() string {
	return p.Name
}

func (p projectView) String() string {
	lines := []string{styles.TitleStyle.Render("Project: " + p.Name)}
	if p.Description != "" {
		lines = append(lines, styles.SubtitleStyle.Render(p.Description))
	}
	lines = append(lines,
		"",
		styles.RenderField("Owner", p.Owner),
		styles.RenderField("Initial state", p.InitialState),
		styles.RenderField("Labels", strings.Join(p.AllowedLabels, ", ")),
		styles.RenderField("States", strings.Join(p.AllowedStates, ", ")),
		styles.RenderList("Transitions", p.Transitions),
	)
	return styles.RenderCard(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func newProjectView(d *models.ProjectDetail) projectView {
	v := projectView{
		Name:          d.Name,
		Description:   d.Description,
		Owner:         d.Owner,
		InitialState:  d.InitialState,
		AllowedLabels: append([]string{}, d.AllowedLabels...),
		AllowedStates: append([]string{}, d.AllowedStates...),
		Transitions:   []string{},
	}
	for _, t := range d.Transitions {
		v.Transitions = append(v.Transitions, t.String())
	}
	return v
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")

	formatter := &OutputFormatter{JSON: jsonOutput, Quiet: quietMode}

	cliInstance, err := GetCLIFromContext(cmd.Context())
	if err != nil {
		return formatter.Fail(err)
	}
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Error("failed to close CLI", "error", err)
		}
	}()

	detail, err := cliInstance.App.ProjectService.GetProject(cmd.Context(), name)
	if err != nil {
		return formatter.Fail(err)
	}

	styles.Init(cliInstance.Config.Theme)
	return formatter.Success(newProjectView(detail))
}
