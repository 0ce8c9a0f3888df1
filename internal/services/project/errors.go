package project

import (
	"errors"
	"fmt"

	"github.com/thenoetrevino/tracker/internal/database"
	"github.com/thenoetrevino/tracker/internal/workflow"
)

// Domain errors for project service
var (
	// Validation errors
	ErrEmptyName         = workflow.Newf(workflow.KindBadRequest, "project name cannot be empty")
	ErrNameTooLong       = workflow.Newf(workflow.KindBadRequest, "project name cannot exceed %d characters", maxNameLength)
	ErrInvalidName       = workflow.Newf(workflow.KindBadRequest, "project name cannot contain '/'")
	ErrEmptyInitialState = workflow.Newf(workflow.KindBadRequest, "initial state cannot be empty")
	ErrEmptyLabel        = workflow.Newf(workflow.KindBadRequest, "allowed labels cannot be empty")
)

const maxNameLength = 100

func projectNotFound(name string, err error) error {
	return workflow.Wrapf(workflow.KindNotFound, err, "project %s doesn't exist", name)
}

// loadErr maps a failed project lookup onto NotFound when the row is missing.
func loadErr(name string, err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return projectNotFound(name, err)
	}
	return fmt.Errorf("failed to load project: %w", err)
}

func notOwner(user, name string) error {
	return workflow.Newf(workflow.KindNotOwner, "user %s is not the owner of project %s", user, name)
}
