package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/thenoetrevino/tracker/internal/database"
	"github.com/thenoetrevino/tracker/internal/models"
	"github.com/thenoetrevino/tracker/internal/workflow"
)

// SetupTestDB creates an in-memory database with full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(context.Background(), ":memory:", database.DefaultOptions())
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// SetupTestStore returns a repository over a fresh in-memory database.
func SetupTestStore(t *testing.T) (*sql.DB, *database.Repository) {
	t.Helper()
	db := SetupTestDB(t)
	return db, database.NewRepository(db)
}

// CreateTestUser registers a user with the given password, hashed at the
// minimum bcrypt cost to keep tests fast.
func CreateTestUser(t *testing.T, store database.Store, name, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	u := &models.User{Name: name, PasswordHash: string(hash), CreatedAt: time.Now().UTC()}
	if err := store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("Failed to create user %s: %v", name, err)
	}
	return u
}

// CreateTestProject creates a project with its initial state and allowed labels.
func CreateTestProject(t *testing.T, store database.Store, owner, name, initialState string, labels ...string) *models.Project {
	t.Helper()
	ctx := context.Background()
	p := &models.Project{
		Name:         name,
		Description:  "test project " + name,
		InitialState: initialState,
		Owner:        owner,
		CreatedAt:    time.Now().UTC(),
	}
	err := store.InTx(ctx, func(s database.Store) error {
		if err := s.CreateProject(ctx, p); err != nil {
			return err
		}
		if err := s.AddState(ctx, name, initialState); err != nil {
			return err
		}
		for _, l := range labels {
			if err := s.AddAllowedLabel(ctx, name, l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to create project %s: %v", name, err)
	}
	return p
}

// AddTestStates adds allowed states to a project.
func AddTestStates(t *testing.T, store database.Store, project string, states ...string) {
	t.Helper()
	for _, s := range states {
		if err := store.AddState(context.Background(), project, s); err != nil {
			t.Fatalf("Failed to add state %s: %v", s, err)
		}
	}
}

// AddTestTransition adds the edge from->to to a project.
func AddTestTransition(t *testing.T, store database.Store, project, from, to string) {
	t.Helper()
	err := store.AddTransition(context.Background(), project, workflow.Transition{From: from, To: to})
	if err != nil {
		t.Fatalf("Failed to add transition %s->%s: %v", from, to, err)
	}
}

// CreateTestIssue inserts an issue directly, bypassing workflow checks.
func CreateTestIssue(t *testing.T, store database.Store, project, author, name, state string, labels ...string) *models.Issue {
	t.Helper()
	ctx := context.Background()
	issue := &models.Issue{
		ProjectName: project,
		Name:        name,
		Author:      author,
		State:       state,
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.CreateIssue(ctx, issue); err != nil {
		t.Fatalf("Failed to create issue %s: %v", name, err)
	}
	for _, l := range labels {
		if err := store.AddIssueLabel(ctx, issue.ID, l); err != nil {
			t.Fatalf("Failed to attach label %s: %v", l, err)
		}
	}
	issue.Labels = labels
	return issue
}

// CountRows runs a COUNT query and returns the result.
func CountRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}
