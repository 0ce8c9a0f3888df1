package models

import (
	"time"

	"github.com/thenoetrevino/tracker/internal/workflow"
)

// Project is the top-level unit: it owns its workflow configuration (allowed
// labels, allowed states, state transitions) and its issues.
type Project struct {
	Name         string
	Description  string
	InitialState string
	Owner        string
	CreatedAt    time.Time
}

// ProjectDetail is a project together with its workflow configuration.
type ProjectDetail struct {
	Project
	AllowedLabels []string
	AllowedStates []string
	Transitions   []workflow.Transition
}
