package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/thenoetrevino/tracker/internal/config"
)

func TestRenderField(t *testing.T) {
	Init(config.DefaultColorScheme())

	if got := ansi.Strip(RenderField("Owner", "alice")); got != "Owner: alice" {
		t.Errorf("RenderField = %q, want %q", got, "Owner: alice")
	}
	if got := ansi.Strip(RenderField("Labels", "")); got != "Labels: (none)" {
		t.Errorf("RenderField with empty value = %q, want %q", got, "Labels: (none)")
	}
}

func TestRenderList(t *testing.T) {
	Init(config.DefaultColorScheme())

	got := ansi.Strip(RenderList("Transitions", []string{"open->closed", "closed->archived"}))
	for _, want := range []string{"Transitions", "• open->closed", "• closed->archived"} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderList output missing %q:\n%s", want, got)
		}
	}

	empty := ansi.Strip(RenderList("Transitions", nil))
	if !strings.Contains(empty, "(none)") {
		t.Errorf("Expected empty list to render (none), got:\n%s", empty)
	}
}

func TestRenderCard(t *testing.T) {
	Init(config.DefaultColorScheme())

	got := RenderCard("Project: Demo")
	if got == "Project: Demo" {
		t.Error("Expected card to add a border")
	}
	if !strings.Contains(ansi.Strip(got), "Project: Demo") {
		t.Errorf("Expected card to contain its content, got:\n%s", got)
	}
	if w := ansi.StringWidth(strings.Split(got, "\n")[0]); w < CardWidth {
		t.Errorf("Expected card to be at least %d columns wide, got %d", CardWidth, w)
	}
}
