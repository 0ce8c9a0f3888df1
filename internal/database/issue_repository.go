package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/thenoetrevino/tracker/internal/models"
)

// IssueRepo handles all issue-related database operations.
type IssueRepo struct {
	q DBTX
}

const issueColumns = `id, project_name, name, description, author_username, state, created_at, closed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIssue(row rowScanner) (*models.Issue, error) {
	issue := &models.Issue{}
	var closedAt sql.NullTime
	if err := row.Scan(
		&issue.ID, &issue.ProjectName, &issue.Name, &issue.Description,
		&issue.Author, &issue.State, &issue.CreatedAt, &closedAt,
	); err != nil {
		return nil, err
	}
	issue.ClosedAt = nullTimeToPtr(closedAt)
	return issue, nil
}

// CreateIssue inserts the issue row and sets issue.ID. Labels are attached by
// the caller in the same transaction.
func (r *IssueRepo) CreateIssue(ctx context.Context, issue *models.Issue) error {
	result, err := r.q.ExecContext(ctx,
		`INSERT INTO issues (project_name, name, description, author_username, state, created_at, closed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		issue.ProjectName, issue.Name, issue.Description, issue.Author, issue.State,
		issue.CreatedAt, timeToNull(issue.ClosedAt),
	)
	if err != nil {
		return translateInsertErr(err, "failed to insert issue '%s' in project '%s'", issue.Name, issue.ProjectName)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get issue ID after insert: %w", err)
	}
	issue.ID = int(id)
	return nil
}

// GetIssue retrieves an issue of the given project, labels included. An id
// that belongs to another project is reported as not found.
func (r *IssueRepo) GetIssue(ctx context.Context, project string, id int) (*models.Issue, error) {
	issue, err := scanIssue(r.q.QueryRowContext(ctx,
		`SELECT `+issueColumns+` FROM issues WHERE id = ? AND project_name = ?`,
		id, project,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("issue %d in project '%s': %w", id, project, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get issue %d: %w", id, err)
	}

	if issue.Labels, err = listIssueLabels(ctx, r.q, issue.ID); err != nil {
		return nil, err
	}
	return issue, nil
}

// ListIssues returns one page of the project's issues ordered by id, plus the
// total count.
func (r *IssueRepo) ListIssues(ctx context.Context, project string, page models.Page) ([]*models.Issue, int, error) {
	var total int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM issues WHERE project_name = ?`, project).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count issues of project '%s': %w", project, err)
	}

	issues, err := r.queryIssuePage(ctx, project, page)
	if err != nil {
		return nil, 0, err
	}

	// Labels are loaded after the page rows are closed; the connection is shared.
	for _, issue := range issues {
		if issue.Labels, err = listIssueLabels(ctx, r.q, issue.ID); err != nil {
			return nil, 0, err
		}
	}
	return issues, total, nil
}

func (r *IssueRepo) queryIssuePage(ctx context.Context, project string, page models.Page) ([]*models.Issue, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+issueColumns+` FROM issues WHERE project_name = ? ORDER BY id LIMIT ? OFFSET ?`,
		project, page.Size, page.Offset(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query issues of project '%s': %w", project, err)
	}
	defer closeRows(rows)

	issues := []*models.Issue{}
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue row: %w", err)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating issue rows: %w", err)
	}
	return issues, nil
}

// UpdateIssueState sets the issue's state and close date together.
func (r *IssueRepo) UpdateIssueState(ctx context.Context, id int, state string, closedAt *time.Time) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE issues SET state = ?, closed_at = ? WHERE id = ?`,
		state, timeToNull(closedAt), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update state of issue %d: %w", id, err)
	}
	return requireAffected(result, fmt.Sprintf("issue %d", id))
}

// DeleteIssue removes the issue; its labels and comments cascade.
func (r *IssueRepo) DeleteIssue(ctx context.Context, id int) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM issues WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete issue %d: %w", id, err)
	}
	return requireAffected(result, fmt.Sprintf("issue %d", id))
}

func (r *IssueRepo) DeleteIssuesByProject(ctx context.Context, project string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM issues WHERE project_name = ?`, project); err != nil {
		return fmt.Errorf("failed to delete issues of project '%s': %w", project, err)
	}
	return nil
}

func listIssueLabels(ctx context.Context, q DBTX, issueID int) ([]string, error) {
	return (&LabelRepo{q: q}).ListIssueLabels(ctx, issueID)
}
