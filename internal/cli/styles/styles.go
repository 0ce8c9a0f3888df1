// Package styles renders human CLI output with lipgloss.
package styles

import (
	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/tracker/internal/config"
)

var (
	// Card styles
	CardStyle lipgloss.Style
	CardWidth = 80

	// Text styles
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	LabelStyle    lipgloss.Style // For field labels like "Owner:", "Initial state:"
	ValueStyle    lipgloss.Style // For field values
	SectionStyle  lipgloss.Style // For section headers like "Transitions"

	SuccessStyle lipgloss.Style
)

// Init initializes all CLI styles with the given color scheme
func Init(colors config.ColorScheme) {
	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colors.Accent)).
		Padding(1, 2).
		Width(CardWidth)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Title))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Subtle))

	LabelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Accent))

	ValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Normal))

	SectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Accent)).
		Bold(true).
		MarginTop(1)

	SuccessStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.InfoFg)).
		Background(lipgloss.Color(colors.InfoBg)).
		Padding(0, 1)
}

// RenderField renders a "Label: value" line. Empty values render as (none).
func RenderField(label, value string) string {
	if value == "" {
		return LabelStyle.Render(label+":") + " " + SubtitleStyle.Render("(none)")
	}
	return LabelStyle.Render(label+":") + " " + ValueStyle.Render(value)
}

// RenderList renders a section header followed by one bulleted line per item.
func RenderList(title string, items []string) string {
	lines := []string{SectionStyle.Render(title)}
	if len(items) == 0 {
		lines = append(lines, SubtitleStyle.Render("  (none)"))
	}
	for _, item := range items {
		lines = append(lines, ValueStyle.Render("  • "+item))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderCard wraps content in a styled card border
func RenderCard(content string) string {
	return CardStyle.Render(content)
}
