package app

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/thenoetrevino/tracker/internal/testutil"
)

func TestNew(t *testing.T) {
	db := testutil.SetupTestDB(t)

	app := New(db, WithPasswordCost(bcrypt.MinCost))

	if app == nil {
		t.Fatal("Expected app to be created, got nil")
	}
	if app.ProjectService == nil {
		t.Error("Expected ProjectService to be initialized")
	}
	if app.IssueService == nil {
		t.Error("Expected IssueService to be initialized")
	}
	if app.CommentService == nil {
		t.Error("Expected CommentService to be initialized")
	}
	if app.UserService == nil {
		t.Error("Expected UserService to be initialized")
	}
	if app.Logger() == nil {
		t.Error("Expected a default logger")
	}

	if err := app.Ping(context.Background()); err != nil {
		t.Errorf("Expected Ping to succeed, got error: %v", err)
	}

	if _, err := app.UserService.Register(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := app.Store().GetUser(context.Background(), "alice"); err != nil {
		t.Errorf("Expected user to be stored, got error: %v", err)
	}
}

func TestClose(t *testing.T) {
	db := testutil.SetupTestDB(t)
	app := New(db)

	if err := app.Close(); err != nil {
		t.Errorf("Expected Close to succeed, got error: %v", err)
	}
	if err := app.Ping(context.Background()); err == nil {
		t.Error("Expected Ping to fail after Close")
	}
}
