package database

import (
	"context"
	"fmt"

	"github.com/thenoetrevino/tracker/internal/workflow"
)

// StateRepo handles a project's allowed states and the transitions between them.
type StateRepo struct {
	q DBTX
}

// AddState adds state to the project's allowed states. Adding an existing
// state is a no-op.
func (r *StateRepo) AddState(ctx context.Context, project, state string) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO allowed_states (project_name, name) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		project, state,
	)
	if err != nil {
		return translateInsertErr(err, "failed to add state '%s' to project '%s'", state, project)
	}
	return nil
}

// RemoveState deletes the state row. Transitions referencing it go with it
// through the foreign key cascade.
func (r *StateRepo) RemoveState(ctx context.Context, project, state string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM allowed_states WHERE project_name = ? AND name = ?`,
		project, state,
	)
	if err != nil {
		return fmt.Errorf("failed to remove state '%s' from project '%s': %w", state, project, err)
	}
	return nil
}

func (r *StateRepo) HasState(ctx context.Context, project, state string) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM allowed_states WHERE project_name = ? AND name = ?)`,
		project, state,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check state '%s' in project '%s': %w", state, project, err)
	}
	return exists, nil
}

func (r *StateRepo) ListStates(ctx context.Context, project string) ([]string, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT name FROM allowed_states WHERE project_name = ? ORDER BY name`,
		project,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query states for project '%s': %w", project, err)
	}
	states, err := collectStrings(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read states for project '%s': %w", project, err)
	}
	return states, nil
}

func (r *StateRepo) DeleteStatesByProject(ctx context.Context, project string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM allowed_states WHERE project_name = ?`, project); err != nil {
		return fmt.Errorf("failed to delete states of project '%s': %w", project, err)
	}
	return nil
}

// AddTransition inserts an edge. A duplicate edge yields ErrConflict and an
// endpoint outside the allowed states yields ErrReference.
func (r *StateRepo) AddTransition(ctx context.Context, project string, t workflow.Transition) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO state_transitions (project_name, previous_state, next_state) VALUES (?, ?, ?)`,
		project, t.From, t.To,
	)
	if err != nil {
		return translateInsertErr(err, "failed to add transition '%s' to project '%s'", t, project)
	}
	return nil
}

// RemoveTransition deletes an edge; deleting a missing edge is a no-op.
func (r *StateRepo) RemoveTransition(ctx context.Context, project string, t workflow.Transition) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM state_transitions WHERE project_name = ? AND previous_state = ? AND next_state = ?`,
		project, t.From, t.To,
	)
	if err != nil {
		return fmt.Errorf("failed to remove transition '%s' from project '%s': %w", t, project, err)
	}
	return nil
}

// RemoveTransitionsReferencing deletes every edge of the project that starts
// or ends at state.
func (r *StateRepo) RemoveTransitionsReferencing(ctx context.Context, project, state string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM state_transitions WHERE project_name = ? AND (previous_state = ? OR next_state = ?)`,
		project, state, state,
	)
	if err != nil {
		return fmt.Errorf("failed to remove transitions of state '%s' in project '%s': %w", state, project, err)
	}
	return nil
}

func (r *StateRepo) HasTransition(ctx context.Context, project string, t workflow.Transition) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM state_transitions WHERE project_name = ? AND previous_state = ? AND next_state = ?)`,
		project, t.From, t.To,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check transition '%s' in project '%s': %w", t, project, err)
	}
	return exists, nil
}

// ListTransitions returns the project's edges ordered by previous then next state.
func (r *StateRepo) ListTransitions(ctx context.Context, project string) ([]workflow.Transition, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT previous_state, next_state FROM state_transitions
		 WHERE project_name = ? ORDER BY previous_state, next_state`,
		project,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query transitions for project '%s': %w", project, err)
	}
	defer closeRows(rows)

	transitions := []workflow.Transition{}
	for rows.Next() {
		var t workflow.Transition
		if err := rows.Scan(&t.From, &t.To); err != nil {
			return nil, fmt.Errorf("failed to scan transition row: %w", err)
		}
		transitions = append(transitions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transition rows: %w", err)
	}
	return transitions, nil
}

func (r *StateRepo) DeleteTransitionsByProject(ctx context.Context, project string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM state_transitions WHERE project_name = ?`, project); err != nil {
		return fmt.Errorf("failed to delete transitions of project '%s': %w", project, err)
	}
	return nil
}
