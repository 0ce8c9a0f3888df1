package models

import "time"

// Issue is a unit of work inside a project.
// Project never changes after creation; State always names one of the
// project's allowed states at the time it was set.
type Issue struct {
	ID          int
	ProjectName string
	Name        string
	Description string
	Author      string
	State       string
	Labels      []string
	CreatedAt   time.Time
	ClosedAt    *time.Time
}

// IsArchived reports whether the issue sits in the reserved archived state.
func (i *Issue) IsArchived() bool {
	return i.State == StateArchived
}
