package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/thenoetrevino/tracker/internal/database"
	"github.com/thenoetrevino/tracker/internal/models"
	"github.com/thenoetrevino/tracker/internal/workflow"
)

// applyOp performs one project patch operation against a transaction-scoped store.
func applyOp(ctx context.Context, tx database.Store, project *models.Project, op workflow.ProjectOp) error {
	name := project.Name

	switch op := op.(type) {
	case workflow.AddLabel:
		if err := tx.AddAllowedLabel(ctx, name, op.Label); err != nil {
			return fmt.Errorf("failed to add label %s: %w", op.Label, err)
		}

	case workflow.RemoveLabel:
		if err := tx.RemoveAllowedLabel(ctx, name, op.Label); err != nil {
			return fmt.Errorf("failed to remove label %s: %w", op.Label, err)
		}

	case workflow.AddState:
		if err := tx.AddState(ctx, name, op.State); err != nil {
			return fmt.Errorf("failed to add state %s: %w", op.State, err)
		}

	case workflow.RemoveState:
		if op.State == project.InitialState {
			return workflow.Newf(workflow.KindRemoveState,
				"state %s is the initial state of project %s and cannot be removed", op.State, name)
		}
		if err := tx.RemoveTransitionsReferencing(ctx, name, op.State); err != nil {
			return fmt.Errorf("failed to remove transitions of state %s: %w", op.State, err)
		}
		if err := tx.RemoveState(ctx, name, op.State); err != nil {
			return fmt.Errorf("failed to remove state %s: %w", op.State, err)
		}

	case workflow.AddTransition:
		err := tx.AddTransition(ctx, name, op.Transition)
		switch {
		case errors.Is(err, database.ErrConflict):
			return workflow.Wrapf(workflow.KindUnableToAddTransition, err,
				"transition %s already exists in project %s", op.Transition, name)
		case errors.Is(err, database.ErrReference):
			return workflow.Wrapf(workflow.KindUnableToAddTransition, err,
				"both states of transition %s must be allowed states of project %s", op.Transition, name)
		case err != nil:
			return fmt.Errorf("failed to add transition %s: %w", op.Transition, err)
		}

	case workflow.RemoveTransition:
		if err := tx.RemoveTransition(ctx, name, op.Transition); err != nil {
			return fmt.Errorf("failed to remove transition %s: %w", op.Transition, err)
		}

	default:
		return workflow.Newf(workflow.KindBadRequest, "unsupported project operation %T", op)
	}
	return nil
}
