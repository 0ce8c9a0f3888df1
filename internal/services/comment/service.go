package comment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/thenoetrevino/tracker/internal/database"
	"github.com/thenoetrevino/tracker/internal/models"
	"github.com/thenoetrevino/tracker/internal/workflow"
)

// Domain errors for comment service
var (
	ErrEmptyText = workflow.Newf(workflow.KindBadRequest, "comment text cannot be empty")
)

// Service defines all comment-related business operations
type Service interface {
	ListComments(ctx context.Context, project string, issueID int, page models.Page) ([]*models.Comment, int, error)
	GetComment(ctx context.Context, project string, issueID, id int) (*models.Comment, error)
	AddComment(ctx context.Context, req AddCommentRequest) (*models.Comment, error)
	DeleteComment(ctx context.Context, project string, issueID, id int, user string) error
}

// AddCommentRequest encapsulates data for commenting on an issue
type AddCommentRequest struct {
	Project string
	IssueID int
	Author  string
	Text    string
}

type service struct {
	store  database.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new comment service
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

// ListComments returns one page of an issue's comments
func (s *service) ListComments(ctx context.Context, project string, issueID int, page models.Page) ([]*models.Comment, int, error) {
	if _, err := s.store.GetIssue(ctx, project, issueID); err != nil {
		return nil, 0, issueErr(project, issueID, err)
	}
	comments, total, err := s.store.ListComments(ctx, issueID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, total, nil
}

// GetComment retrieves a comment of the given issue
func (s *service) GetComment(ctx context.Context, project string, issueID, id int) (*models.Comment, error) {
	if _, err := s.store.GetIssue(ctx, project, issueID); err != nil {
		return nil, issueErr(project, issueID, err)
	}
	c, err := s.store.GetComment(ctx, issueID, id)
	if err != nil {
		return nil, commentErr(issueID, id, err)
	}
	return c, nil
}

// AddComment adds a comment unless the issue is archived
func (s *service) AddComment(ctx context.Context, req AddCommentRequest) (*models.Comment, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyText
	}

	c := &models.Comment{
		IssueID:   req.IssueID,
		Author:    req.Author,
		Text:      req.Text,
		CreatedAt: s.now().UTC(),
	}
	err := s.store.InTx(ctx, func(tx database.Store) error {
		issue, err := tx.GetIssue(ctx, req.Project, req.IssueID)
		if err != nil {
			return issueErr(req.Project, req.IssueID, err)
		}
		if issue.IsArchived() {
			return workflow.Newf(workflow.KindIssueArchived,
				"issue %d is archived, comments cannot be added", issue.ID)
		}
		if err := tx.CreateComment(ctx, c); err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("comment created", "project", req.Project, "issue", c.IssueID, "comment", c.ID, "author", c.Author)
	return c, nil
}

// DeleteComment removes a comment; only its author may do so.
func (s *service) DeleteComment(ctx context.Context, project string, issueID, id int, user string) error {
	err := s.store.InTx(ctx, func(tx database.Store) error {
		if _, err := tx.GetIssue(ctx, project, issueID); err != nil {
			return issueErr(project, issueID, err)
		}
		c, err := tx.GetComment(ctx, issueID, id)
		if err != nil {
			return commentErr(issueID, id, err)
		}
		if c.Author != user {
			return workflow.Newf(workflow.KindNoPermission,
				"user %s has no permission to delete comment %d", user, id)
		}
		if err := tx.DeleteComment(ctx, id); err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("comment deleted", "project", project, "issue", issueID, "comment", id, "user", user)
	return nil
}

func issueErr(project string, id int, err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return workflow.Wrapf(workflow.KindNotFound, err, "issue %d doesn't exist in project %s", id, project)
	}
	return fmt.Errorf("failed to load issue: %w", err)
}

func commentErr(issueID, id int, err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return workflow.Wrapf(workflow.KindNotFound, err, "comment %d doesn't exist on issue %d", id, issueID)
	}
	return fmt.Errorf("failed to load comment: %w", err)
}
