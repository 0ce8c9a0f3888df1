package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/thenoetrevino/tracker/internal/models"
)

// ProjectRepo handles all project-related database operations.
type ProjectRepo struct {
	q DBTX
}

// CreateProject inserts the project row. The initial state and allowed labels
// are written by the caller in the same transaction.
func (r *ProjectRepo) CreateProject(ctx context.Context, project *models.Project) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO projects (name, description, initial_state, owner_username, created_at) VALUES (?, ?, ?, ?, ?)`,
		project.Name, project.Description, project.InitialState, project.Owner, project.CreatedAt,
	)
	if err != nil {
		return translateInsertErr(err, "failed to insert project '%s'", project.Name)
	}
	return nil
}

// GetProject retrieves a project by its name
func (r *ProjectRepo) GetProject(ctx context.Context, name string) (*models.Project, error) {
	project := &models.Project{}
	err := r.q.QueryRowContext(ctx,
		`SELECT name, description, initial_state, owner_username, created_at FROM projects WHERE name = ?`,
		name,
	).Scan(&project.Name, &project.Description, &project.InitialState, &project.Owner, &project.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project '%s': %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project '%s': %w", name, err)
	}
	return project, nil
}

// ListProjects returns one page of projects ordered by name, plus the total count.
func (r *ProjectRepo) ListProjects(ctx context.Context, page models.Page) ([]*models.Project, int, error) {
	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	rows, err := r.q.QueryContext(ctx,
		`SELECT name, description, initial_state, owner_username, created_at
		 FROM projects ORDER BY name LIMIT ? OFFSET ?`,
		page.Size, page.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query projects: %w", err)
	}
	defer closeRows(rows)

	projects := []*models.Project{}
	for rows.Next() {
		p := &models.Project{}
		if err := rows.Scan(&p.Name, &p.Description, &p.InitialState, &p.Owner, &p.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, total, nil
}

// DeleteProject removes the project row. Dependent rows are removed by the
// caller first; the foreign key cascade catches anything left behind.
func (r *ProjectRepo) DeleteProject(ctx context.Context, name string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM projects WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete project '%s': %w", name, err)
	}
	return requireAffected(result, fmt.Sprintf("project '%s'", name))
}
