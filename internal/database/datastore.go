package database

import (
	"context"
	"time"

	"github.com/thenoetrevino/tracker/internal/models"
	"github.com/thenoetrevino/tracker/internal/workflow"
)

// Store defines the unified interface for all data operations needed by the services.
// It is composed of smaller, domain-specific interfaces; consumers that only
// need one concern can depend on that interface alone.
type Store interface {
	ProjectRepository
	LabelRepository
	StateRepository
	IssueRepository
	CommentRepository
	UserRepository

	// InTx runs fn against a Store bound to a single transaction. Only the
	// Store passed to fn may be used inside it.
	InTx(ctx context.Context, fn func(Store) error) error
	Ping(ctx context.Context) error
}

// ProjectRepository stores project rows.
type ProjectRepository interface {
	CreateProject(ctx context.Context, project *models.Project) error
	GetProject(ctx context.Context, name string) (*models.Project, error)
	ListProjects(ctx context.Context, page models.Page) ([]*models.Project, int, error)
	DeleteProject(ctx context.Context, name string) error
}

// LabelRepository stores a project's allowed labels and the labels attached to issues.
type LabelRepository interface {
	AddAllowedLabel(ctx context.Context, project, label string) error
	RemoveAllowedLabel(ctx context.Context, project, label string) error
	HasLabel(ctx context.Context, project, label string) (bool, error)
	ListAllowedLabels(ctx context.Context, project string) ([]string, error)
	DeleteAllowedLabelsByProject(ctx context.Context, project string) error

	AddIssueLabel(ctx context.Context, issueID int, label string) error
	RemoveIssueLabel(ctx context.Context, issueID int, label string) error
	ListIssueLabels(ctx context.Context, issueID int) ([]string, error)
	DeleteIssueLabelsByProject(ctx context.Context, project string) error
}

// StateRepository stores a project's allowed states and its transition graph.
type StateRepository interface {
	AddState(ctx context.Context, project, state string) error
	RemoveState(ctx context.Context, project, state string) error
	HasState(ctx context.Context, project, state string) (bool, error)
	ListStates(ctx context.Context, project string) ([]string, error)
	DeleteStatesByProject(ctx context.Context, project string) error

	AddTransition(ctx context.Context, project string, t workflow.Transition) error
	RemoveTransition(ctx context.Context, project string, t workflow.Transition) error
	RemoveTransitionsReferencing(ctx context.Context, project, state string) error
	HasTransition(ctx context.Context, project string, t workflow.Transition) (bool, error)
	ListTransitions(ctx context.Context, project string) ([]workflow.Transition, error)
	DeleteTransitionsByProject(ctx context.Context, project string) error
}

// IssueRepository stores issues. Returned issues carry their labels.
type IssueRepository interface {
	CreateIssue(ctx context.Context, issue *models.Issue) error
	GetIssue(ctx context.Context, project string, id int) (*models.Issue, error)
	ListIssues(ctx context.Context, project string, page models.Page) ([]*models.Issue, int, error)
	UpdateIssueState(ctx context.Context, id int, state string, closedAt *time.Time) error
	DeleteIssue(ctx context.Context, id int) error
	DeleteIssuesByProject(ctx context.Context, project string) error
}

// CommentRepository stores issue comments.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, issueID, id int) (*models.Comment, error)
	ListComments(ctx context.Context, issueID int, page models.Page) ([]*models.Comment, int, error)
	DeleteComment(ctx context.Context, id int) error
	DeleteCommentsByIssue(ctx context.Context, issueID int) error
	DeleteCommentsByProject(ctx context.Context, project string) error
}

// UserRepository stores API credentials.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, name string) (*models.User, error)
}
