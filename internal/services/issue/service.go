package issue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/thenoetrevino/tracker/internal/database"
	"github.com/thenoetrevino/tracker/internal/models"
	"github.com/thenoetrevino/tracker/internal/workflow"
)

// Service defines all issue-related business operations
type Service interface {
	// Read operations
	ListIssues(ctx context.Context, project string, page models.Page) ([]*models.Issue, int, error)
	GetIssue(ctx context.Context, project string, id int) (*models.Issue, error)

	// Workflow operations
	CreateIssue(ctx context.Context, req CreateIssueRequest) (*models.Issue, error)
	AddLabel(ctx context.Context, project string, id int, label string) error
	RemoveLabel(ctx context.Context, project string, id int, label string) error
	ChangeState(ctx context.Context, project string, id int, state string) error

	// Owner-checked operations
	PatchIssue(ctx context.Context, project string, id int, user string, ops []workflow.IssueOp) error
	DeleteIssue(ctx context.Context, project string, id int, user string) error
}

// CreateIssueRequest encapsulates data for creating an issue
type CreateIssueRequest struct {
	Project     string
	Name        string
	Description string
	Labels      []string
	Author      string
}

type service struct {
	store  database.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new issue service
func NewService(store database.Store, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// ListIssues returns one page of a project's issues
func (s *service) ListIssues(ctx context.Context, project string, page models.Page) ([]*models.Issue, int, error) {
	if _, err := s.store.GetProject(ctx, project); err != nil {
		return nil, 0, projectErr(project, err)
	}
	issues, total, err := s.store.ListIssues(ctx, project, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list issues: %w", err)
	}
	return issues, total, nil
}

// GetIssue retrieves an issue; an issue of another project is not found.
func (s *service) GetIssue(ctx context.Context, project string, id int) (*models.Issue, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	issue, err := s.store.GetIssue(ctx, project, id)
	if err != nil {
		return nil, issueErr(project, id, err)
	}
	return issue, nil
}

// CreateIssue creates an issue in the project's initial state. The issue row
// and its labels are written in one transaction, so a disallowed label
// leaves nothing behind.
func (s *service) CreateIssue(ctx context.Context, req CreateIssueRequest) (*models.Issue, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, ErrEmptyName
	}

	var created *models.Issue
	err := s.store.InTx(ctx, func(tx database.Store) error {
		project, err := tx.GetProject(ctx, req.Project)
		if err != nil {
			return projectErr(req.Project, err)
		}

		issue := &models.Issue{
			ProjectName: project.Name,
			Name:        req.Name,
			Description: req.Description,
			Author:      req.Author,
			State:       project.InitialState,
			CreatedAt:   s.now().UTC(),
		}
		if err := tx.CreateIssue(ctx, issue); err != nil {
			return fmt.Errorf("failed to create issue: %w", err)
		}

		for _, label := range req.Labels {
			if err := attachLabel(ctx, tx, project.Name, issue.ID, strings.TrimSpace(label)); err != nil {
				return err
			}
		}

		created, err = tx.GetIssue(ctx, project.Name, issue.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("issue created", "project", created.ProjectName, "issue", created.ID, "author", created.Author)
	return created, nil
}

// AddLabel attaches an allowed label to the issue
func (s *service) AddLabel(ctx context.Context, project string, id int, label string) error {
	return s.store.InTx(ctx, func(tx database.Store) error {
		return addLabel(ctx, tx, project, id, label)
	})
}

// RemoveLabel detaches a label from the issue
func (s *service) RemoveLabel(ctx context.Context, project string, id int, label string) error {
	return s.store.InTx(ctx, func(tx database.Store) error {
		return removeLabel(ctx, tx, project, id, label)
	})
}

// ChangeState moves the issue along a configured edge of the project's graph
func (s *service) ChangeState(ctx context.Context, project string, id int, state string) error {
	return s.store.InTx(ctx, func(tx database.Store) error {
		return s.changeState(ctx, tx, project, id, state)
	})
}

// PatchIssue checks ownership, then applies ops in order, each in its own
// transaction. The first failing op stops the sequence.
func (s *service) PatchIssue(ctx context.Context, project string, id int, user string, ops []workflow.IssueOp) error {
	issue, err := s.GetIssue(ctx, project, id)
	if err != nil {
		return err
	}
	if issue.Author != user {
		return notOwner(user, id)
	}

	for _, op := range ops {
		err := s.store.InTx(ctx, func(tx database.Store) error {
			switch op := op.(type) {
			case workflow.AddLabel:
				return addLabel(ctx, tx, project, id, op.Label)
			case workflow.RemoveLabel:
				return removeLabel(ctx, tx, project, id, op.Label)
			case workflow.ReplaceState:
				return s.changeState(ctx, tx, project, id, op.State)
			default:
				return workflow.Newf(workflow.KindBadRequest, "unsupported issue operation %T", op)
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// DeleteIssue removes the issue and its comments and labels
func (s *service) DeleteIssue(ctx context.Context, project string, id int, user string) error {
	err := s.store.InTx(ctx, func(tx database.Store) error {
		issue, err := tx.GetIssue(ctx, project, id)
		if err != nil {
			return issueErr(project, id, err)
		}
		if issue.Author != user {
			return notOwner(user, id)
		}
		if err := tx.DeleteCommentsByIssue(ctx, id); err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		if err := tx.DeleteIssue(ctx, id); err != nil {
			return fmt.Errorf("failed to delete issue: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("issue deleted", "project", project, "issue", id, "user", user)
	return nil
}

func (s *service) changeState(ctx context.Context, tx database.Store, project string, id int, state string) error {
	state = strings.TrimSpace(state)
	if state == "" {
		return ErrEmptyState
	}

	issue, err := tx.GetIssue(ctx, project, id)
	if err != nil {
		return issueErr(project, id, err)
	}

	edge := workflow.Transition{From: issue.State, To: state}
	ok, err := tx.HasTransition(ctx, project, edge)
	if err != nil {
		return fmt.Errorf("failed to check transition: %w", err)
	}
	if !ok {
		return workflow.Newf(workflow.KindTransitionNotPossible,
			"transition from %s to %s is not possible in project %s", issue.State, state, project)
	}

	closedAt := nextClosedAt(issue, state, s.now().UTC())
	if err := tx.UpdateIssueState(ctx, id, state, closedAt); err != nil {
		return fmt.Errorf("failed to update issue state: %w", err)
	}
	return nil
}

// nextClosedAt stamps the close date when the issue enters the closed state
// and clears it when the issue leaves closed for anything but archived.
func nextClosedAt(issue *models.Issue, next string, now time.Time) *time.Time {
	switch {
	case next == models.StateClosed:
		return &now
	case issue.State == models.StateClosed && next != models.StateArchived:
		return nil
	default:
		return issue.ClosedAt
	}
}

func addLabel(ctx context.Context, tx database.Store, project string, id int, label string) error {
	if _, err := tx.GetIssue(ctx, project, id); err != nil {
		return issueErr(project, id, err)
	}
	return attachLabel(ctx, tx, project, id, label)
}

func attachLabel(ctx context.Context, tx database.Store, project string, id int, label string) error {
	ok, err := tx.HasLabel(ctx, project, label)
	if err != nil {
		return fmt.Errorf("failed to check label: %w", err)
	}
	if !ok {
		return invalidLabel(project, label)
	}
	if err := tx.AddIssueLabel(ctx, id, label); err != nil {
		return fmt.Errorf("failed to add label to issue: %w", err)
	}
	return nil
}

func removeLabel(ctx context.Context, tx database.Store, project string, id int, label string) error {
	if _, err := tx.GetIssue(ctx, project, id); err != nil {
		return issueErr(project, id, err)
	}
	if err := tx.RemoveIssueLabel(ctx, id, label); err != nil {
		return fmt.Errorf("failed to remove label from issue: %w", err)
	}
	return nil
}

func notOwner(user string, id int) error {
	return workflow.Newf(workflow.KindNotOwner, "user %s is not the owner of issue %d", user, id)
}
