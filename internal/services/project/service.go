package project

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

// Service defines all project-related business operations
type Service interface {
	// Read operations
	ListProjects(ctx context.Context, page models.Page) ([]*models.Project, int, error)
	GetProject(ctx context.Context, name string) (*models.ProjectDetail, error)

	// Write operations
	CreateProject(ctx context.Context, req CreateProjectRequest) (*models.ProjectDetail, error)
	PatchProject(ctx context.Context, name, user string, ops []workflow.ProjectOp) error
	DeleteProject(ctx context.Context, name, user string) error
}

// CreateProjectRequest encapsulates data for creating a project
type CreateProjectRequest struct {
	Owner         string
	Name          string
	Description   string
	InitialState  string
	AllowedLabels []string
}

// service implements Service interface with private repository
type service struct {
	store  database.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new project service
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

// ListProjects returns one page of projects
func (s *service) ListProjects(ctx context.Context, page models.Page) ([]*models.Project, int, error) {
	projects, total, err := s.store.ListProjects(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// GetProject retrieves a project with its labels, states and transitions
func (s *service) GetProject(ctx context.Context, name string) (*models.ProjectDetail, error) {
	return loadDetail(ctx, s.store, name)
}

// CreateProject writes the project, its initial state and its allowed labels
// in one transaction.
func (s *service) CreateProject(ctx context.Context, req CreateProjectRequest) (*models.ProjectDetail, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.InitialState = strings.TrimSpace(req.InitialState)
	if err := s.validateCreateProject(req); err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:         req.Name,
		Description:  req.Description,
		InitialState: req.InitialState,
		Owner:        req.Owner,
		CreatedAt:    s.now().UTC(),
	}

	var detail *models.ProjectDetail
	err := s.store.InTx(ctx, func(tx database.Store) error {
		if err := tx.CreateProject(ctx, project); err != nil {
			if errors.Is(err, database.ErrConflict) {
				return workflow.Wrapf(workflow.KindAlreadyExists, err, "project %s already exists", req.Name)
			}
			return fmt.Errorf("failed to create project: %w", err)
		}
		if err := tx.AddState(ctx, project.Name, project.InitialState); err != nil {
			return fmt.Errorf("failed to add initial state: %w", err)
		}
		for _, label := range req.AllowedLabels {
			if err := tx.AddAllowedLabel(ctx, project.Name, strings.TrimSpace(label)); err != nil {
				return fmt.Errorf("failed to add label: %w", err)
			}
		}

		var err error
		detail, err = loadDetail(ctx, tx, project.Name)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project created", "project", project.Name, "owner", project.Owner)
	return detail, nil
}

// PatchProject applies ops in order, each in its own transaction. The first
// failing op stops the sequence; ops already applied stay applied.
func (s *service) PatchProject(ctx context.Context, name, user string, ops []workflow.ProjectOp) error {
	project, err := s.store.GetProject(ctx, name)
	if err != nil {
		return loadErr(name, err)
	}
	if project.Owner != user {
		return notOwner(user, name)
	}

	for i, op := range ops {
		err := s.store.InTx(ctx, func(tx database.Store) error {
			return applyOp(ctx, tx, project, op)
		})
		if err != nil {
			s.logger.Debug("project patch stopped", "project", name, "op", i, "error", err)
			return err
		}
	}
	return nil
}

// DeleteProject removes the project with its comments, issues, transitions,
// states and labels in one transaction.
func (s *service) DeleteProject(ctx context.Context, name, user string) error {
	err := s.store.InTx(ctx, func(tx database.Store) error {
		project, err := tx.GetProject(ctx, name)
		if err != nil {
			return loadErr(name, err)
		}
		if project.Owner != user {
			return notOwner(user, name)
		}

		steps := []struct {
			what string
			fn   func(context.Context, string) error
		}{
			{"comments", tx.DeleteCommentsByProject},
			{"issue labels", tx.DeleteIssueLabelsByProject},
			{"issues", tx.DeleteIssuesByProject},
			{"transitions", tx.DeleteTransitionsByProject},
			{"states", tx.DeleteStatesByProject},
			{"labels", tx.DeleteAllowedLabelsByProject},
			{"project", tx.DeleteProject},
		}
		for _, step := range steps {
			if err := step.fn(ctx, name); err != nil {
				return fmt.Errorf("failed to delete %s: %w", step.what, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("project deleted", "project", name, "user", user)
	return nil
}

// validateCreateProject validates a CreateProjectRequest
func (s *service) validateCreateProject(req CreateProjectRequest) error {
	if req.Name == "" {
		return ErrEmptyName
	}
	if len(req.Name) > maxNameLength {
		return ErrNameTooLong
	}
	if strings.Contains(req.Name, "/") {
		return ErrInvalidName
	}
	if req.InitialState == "" {
		return ErrEmptyInitialState
	}
	for _, label := range req.AllowedLabels {
		if strings.TrimSpace(label) == "" {
			return ErrEmptyLabel
		}
	}
	return nil
}

func loadDetail(ctx context.Context, store database.Store, name string) (*models.ProjectDetail, error) {
	project, err := store.GetProject(ctx, name)
	if err != nil {
		return nil, loadErr(name, err)
	}

	detail := &models.ProjectDetail{Project: *project}
	if detail.AllowedLabels, err = store.ListAllowedLabels(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to load labels: %w", err)
	}
	if detail.AllowedStates, err = store.ListStates(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to load states: %w", err)
	}
	if detail.Transitions, err = store.ListTransitions(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to load transitions: %w", err)
	}
	return detail, nil
}
