package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/thenoetrevino/tracker/internal/models"
	"github.com/thenoetrevino/tracker/internal/workflow"
)

// ============================================================================
// DATABASE SETUP HELPERS
// ============================================================================

// setupTestDB creates an in-memory database and runs migrations
// This is the unified test database setup used by all tests
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:", DefaultOptions())
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// setupTestDBFile creates a file-based database for testing persistence across restarts
func setupTestDBFile(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "tracker.db")
	db, err := InitDB(context.Background(), path, DefaultOptions())
	if err != nil {
		t.Fatalf("Failed to create file database: %v", err)
	}
	return db, path
}

// ============================================================================
// FIXTURES
// ============================================================================

func createTestProject(t *testing.T, repo *Repository, name, initialState string, labels ...string) *models.Project {
	t.Helper()
	ctx := context.Background()
	p := &models.Project{
		Name:         name,
		Description:  "project " + name,
		InitialState: initialState,
		Owner:        "alice",
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.CreateProject(ctx, p); err != nil {
		t.Fatalf("Failed to create project %s: %v", name, err)
	}
	if err := repo.AddState(ctx, name, initialState); err != nil {
		t.Fatalf("Failed to add initial state: %v", err)
	}
	for _, l := range labels {
		if err := repo.AddAllowedLabel(ctx, name, l); err != nil {
			t.Fatalf("Failed to add label %s: %v", l, err)
		}
	}
	return p
}

func createTestIssue(t *testing.T, repo *Repository, project, name, state string, labels ...string) *models.Issue {
	t.Helper()
	ctx := context.Background()
	issue := &models.Issue{
		ProjectName: project,
		Name:        name,
		Author:      "alice",
		State:       state,
		CreatedAt:   time.Now().UTC(),
	}
	if err := repo.CreateIssue(ctx, issue); err != nil {
		t.Fatalf("Failed to create issue %s: %v", name, err)
	}
	for _, l := range labels {
		if err := repo.AddIssueLabel(ctx, issue.ID, l); err != nil {
			t.Fatalf("Failed to attach label %s: %v", l, err)
		}
	}
	return issue
}

func addTestTransition(t *testing.T, repo *Repository, project, from, to string) {
	t.Helper()
	if err := repo.AddTransition(context.Background(), project, workflow.Transition{From: from, To: to}); err != nil {
		t.Fatalf("Failed to add transition %s->%s: %v", from, to, err)
	}
}

func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}
