package database

import (
	"context"
	"fmt"
)

// LabelRepo handles allowed labels and issue labels.
type LabelRepo struct {
	q DBTX
}

// ============================================================================
// Allowed labels
// ============================================================================

// AddAllowedLabel adds label to the project's allowed set. Adding an existing
// label is a no-op.
func (r *LabelRepo) AddAllowedLabel(ctx context.Context, project, label string) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO allowed_labels (project_name, name) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		project, label,
	)
	if err != nil {
		return translateInsertErr(err, "failed to add label '%s' to project '%s'", label, project)
	}
	return nil
}

// RemoveAllowedLabel removes label from the project's allowed set. Issues
// already carrying the label keep it.
func (r *LabelRepo) RemoveAllowedLabel(ctx context.Context, project, label string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM allowed_labels WHERE project_name = ? AND name = ?`,
		project, label,
	)
	if err != nil {
		return fmt.Errorf("failed to remove label '%s' from project '%s': %w", label, project, err)
	}
	return nil
}

// HasLabel reports whether label is allowed in the project.
func (r *LabelRepo) HasLabel(ctx context.Context, project, label string) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM allowed_labels WHERE project_name = ? AND name = ?)`,
		project, label,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check label '%s' in project '%s': %w", label, project, err)
	}
	return exists, nil
}

// ListAllowedLabels retrieves the project's allowed labels sorted by name
func (r *LabelRepo) ListAllowedLabels(ctx context.Context, project string) ([]string, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT name FROM allowed_labels WHERE project_name = ? ORDER BY name`,
		project,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query labels for project '%s': %w", project, err)
	}
	labels, err := collectStrings(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read labels for project '%s': %w", project, err)
	}
	return labels, nil
}

func (r *LabelRepo) DeleteAllowedLabelsByProject(ctx context.Context, project string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM allowed_labels WHERE project_name = ?`, project); err != nil {
		return fmt.Errorf("failed to delete labels of project '%s': %w", project, err)
	}
	return nil
}

// ============================================================================
// Issue labels
// ============================================================================

// AddIssueLabel attaches label to the issue; attaching it twice is a no-op.
// Whether the label is allowed is checked by the caller.
func (r *LabelRepo) AddIssueLabel(ctx context.Context, issueID int, label string) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO issue_labels (issue_id, name) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		issueID, label,
	)
	if err != nil {
		return translateInsertErr(err, "failed to add label '%s' to issue %d", label, issueID)
	}
	return nil
}

// RemoveIssueLabel detaches label from the issue; detaching an absent label is a no-op.
func (r *LabelRepo) RemoveIssueLabel(ctx context.Context, issueID int, label string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM issue_labels WHERE issue_id = ? AND name = ?`,
		issueID, label,
	)
	if err != nil {
		return fmt.Errorf("failed to remove label '%s' from issue %d: %w", label, issueID, err)
	}
	return nil
}

func (r *LabelRepo) ListIssueLabels(ctx context.Context, issueID int) ([]string, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT name FROM issue_labels WHERE issue_id = ? ORDER BY name`,
		issueID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query labels for issue %d: %w", issueID, err)
	}
	labels, err := collectStrings(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read labels for issue %d: %w", issueID, err)
	}
	return labels, nil
}

func (r *LabelRepo) DeleteIssueLabelsByProject(ctx context.Context, project string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM issue_labels WHERE issue_id IN (SELECT id FROM issues WHERE project_name = ?)`,
		project,
	)
	if err != nil {
		return fmt.Errorf("failed to delete issue labels of project '%s': %w", project, err)
	}
	return nil
}
