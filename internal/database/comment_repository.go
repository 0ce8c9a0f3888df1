package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thenoetrevino/tracker/internal/models"
)

// CommentRepo handles all comment-related database operations.
type CommentRepo struct {
	q DBTX
}

// CreateComment inserts the comment and sets comment.ID.
func (r *CommentRepo) CreateComment(ctx context.Context, comment *models.Comment) error {
	result, err := r.q.ExecContext(ctx,
		`INSERT INTO comments (issue_id, author_username, text, created_at) VALUES (?, ?, ?, ?)`,
		comment.IssueID, comment.Author, comment.Text, comment.CreatedAt,
	)
	if err != nil {
		return translateInsertErr(err, "failed to insert comment on issue %d", comment.IssueID)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get comment ID after insert: %w", err)
	}
	comment.ID = int(id)
	return nil
}

// GetComment retrieves a comment of the given issue. A comment id belonging
// to another issue is reported as not found.
func (r *CommentRepo) GetComment(ctx context.Context, issueID, id int) (*models.Comment, error) {
	c := &models.Comment{}
	err := r.q.QueryRowContext(ctx,
		`SELECT id, issue_id, author_username, text, created_at FROM comments WHERE id = ? AND issue_id = ?`,
		id, issueID,
	).Scan(&c.ID, &c.IssueID, &c.Author, &c.Text, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comment %d on issue %d: %w", id, issueID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment %d: %w", id, err)
	}
	return c, nil
}

// ListComments returns one page of the issue's comments ordered by id, plus the total count.
func (r *CommentRepo) ListComments(ctx context.Context, issueID int, page models.Page) ([]*models.Comment, int, error) {
	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE issue_id = ?`, issueID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count comments of issue %d: %w", issueID, err)
	}

	rows, err := r.q.QueryContext(ctx,
		`SELECT id, issue_id, author_username, text, created_at
		 FROM comments WHERE issue_id = ? ORDER BY id LIMIT ? OFFSET ?`,
		issueID, page.Size, page.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query comments of issue %d: %w", issueID, err)
	}
	defer closeRows(rows)

	comments := []*models.Comment{}
	for rows.Next() {
		c := &models.Comment{}
		if err := rows.Scan(&c.ID, &c.IssueID, &c.Author, &c.Text, &c.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating comment rows: %w", err)
	}
	return comments, total, nil
}

func (r *CommentRepo) DeleteComment(ctx context.Context, id int) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment %d: %w", id, err)
	}
	return requireAffected(result, fmt.Sprintf("comment %d", id))
}

func (r *CommentRepo) DeleteCommentsByIssue(ctx context.Context, issueID int) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM comments WHERE issue_id = ?`, issueID); err != nil {
		return fmt.Errorf("failed to delete comments of issue %d: %w", issueID, err)
	}
	return nil
}

func (r *CommentRepo) DeleteCommentsByProject(ctx context.Context, project string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM comments WHERE issue_id IN (SELECT id FROM issues WHERE project_name = ?)`,
		project,
	)
	if err != nil {
		return fmt.Errorf("failed to delete comments of project '%s': %w", project, err)
	}
	return nil
}
