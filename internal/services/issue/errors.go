package issue

import (
	"errors"
	"fmt"

	"github.com/thenoetrevino/tracker/internal/database"
	"github.com/thenoetrevino/tracker/internal/workflow"
)

// Domain errors for issue service
var (
	ErrEmptyName  = workflow.Newf(workflow.KindBadRequest, "issue name cannot be empty")
	ErrInvalidID  = workflow.Newf(workflow.KindNotFound, "invalid issue ID")
	ErrEmptyState = workflow.Newf(workflow.KindBadRequest, "state cannot be empty")
)

func projectErr(project string, err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return workflow.Wrapf(workflow.KindNotFound, err, "project %s doesn't exist", project)
	}
	return fmt.Errorf("failed to load project: %w", err)
}

func issueErr(project string, id int, err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return workflow.Wrapf(workflow.KindNotFound, err, "issue %d doesn't exist in project %s", id, project)
	}
	return fmt.Errorf("failed to load issue: %w", err)
}

func invalidLabel(project, label string) error {
	return workflow.Newf(workflow.KindInvalidLabel, "label %s is not allowed in project %s", label, project)
}
