package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied statement by statement; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		username TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,

	// initial_state is not a foreign key: the state row is inserted in the same
	// transaction as the project and the services guard its removal.
	`CREATE TABLE IF NOT EXISTS projects (
		name TEXT PRIMARY KEY,
		description TEXT NOT NULL DEFAULT '',
		initial_state TEXT NOT NULL,
		owner_username TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS allowed_labels (
		project_name TEXT NOT NULL,
		name TEXT NOT NULL,
		PRIMARY KEY (project_name, name),
		FOREIGN KEY (project_name) REFERENCES projects(name) ON DELETE CASCADE
	)`,

	`CREATE TABLE IF NOT EXISTS allowed_states (
		project_name TEXT NOT NULL,
		name TEXT NOT NULL,
		PRIMARY KEY (project_name, name),
		FOREIGN KEY (project_name) REFERENCES projects(name) ON DELETE CASCADE
	)`,

	`CREATE TABLE IF NOT EXISTS state_transitions (
		project_name TEXT NOT NULL,
		previous_state TEXT NOT NULL,
		next_state TEXT NOT NULL,
		PRIMARY KEY (project_name, previous_state, next_state),
		FOREIGN KEY (project_name, previous_state) REFERENCES allowed_states(project_name, name) ON DELETE CASCADE,
		FOREIGN KEY (project_name, next_state) REFERENCES allowed_states(project_name, name) ON DELETE CASCADE
	)`,

	`CREATE TABLE IF NOT EXISTS issues (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_name TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		author_username TEXT NOT NULL,
		state TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		closed_at TIMESTAMP,
		FOREIGN KEY (project_name) REFERENCES projects(name) ON DELETE CASCADE
	)`,

	`CREATE INDEX IF NOT EXISTS idx_issues_project ON issues(project_name, id)`,

	// Issue labels deliberately do not reference allowed_labels: removing an
	// allowed label leaves issues that already carry it untouched.
	`CREATE TABLE IF NOT EXISTS issue_labels (
		issue_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		PRIMARY KEY (issue_id, name),
		FOREIGN KEY (issue_id) REFERENCES issues(id) ON DELETE CASCADE
	)`,

	`CREATE TABLE IF NOT EXISTS comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		issue_id INTEGER NOT NULL,
		author_username TEXT NOT NULL,
		text TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		FOREIGN KEY (issue_id) REFERENCES issues(id) ON DELETE CASCADE
	)`,

	`CREATE INDEX IF NOT EXISTS idx_comments_issue ON comments(issue_id, id)`,
}

// runMigrations creates the database schema if needed
func runMigrations(ctx context.Context, db *sql.DB) error {
	return withTx(ctx, db, func(tx *sql.Tx) error {
		for i, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migration statement %d: %w", i, err)
			}
		}
		return nil
	})
}
