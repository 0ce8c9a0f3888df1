package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/thenoetrevino/tracker/internal/database"
	"github.com/thenoetrevino/tracker/internal/models"
	"github.com/thenoetrevino/tracker/internal/workflow"
)

// Domain errors for user service
var (
	ErrEmptyName       = workflow.Newf(workflow.KindBadRequest, "user name cannot be empty")
	ErrInvalidName     = workflow.Newf(workflow.KindBadRequest, "user name cannot contain ':'")
	ErrEmptyPassword   = workflow.Newf(workflow.KindBadRequest, "password cannot be empty")
	ErrBadCredentials  = workflow.Newf(workflow.KindUnauthorized, "invalid user name or password")
	ErrPasswordTooLong = workflow.Newf(workflow.KindBadRequest, "password cannot exceed 72 bytes")
)

// Service registers and authenticates API users
type Service interface {
	Register(ctx context.Context, name, password string) (*models.User, error)
	Authenticate(ctx context.Context, name, password string) (*models.User, error)
}

// repository defines the data access methods needed by the user service
type repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, name string) (*models.User, error)
}

// Option configures the user service
type Option func(*service)

// WithCost sets the bcrypt cost used for new password hashes.
func WithCost(cost int) Option {
	return func(s *service) {
		s.cost = cost
	}
}

type service struct {
	repo repository
	cost int
	now  func() time.Time
}

// NewService creates a new user service
func NewService(repo repository, opts ...Option) Service {
	s := &service{repo: repo, cost: bcrypt.DefaultCost, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register stores a new user with a bcrypt hash of password
func (s *service) Register(ctx context.Context, name, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, ErrEmptyName
	case strings.Contains(name, ":"):
		return nil, ErrInvalidName
	case password == "":
		return nil, ErrEmptyPassword
	case len(password) > 72:
		return nil, ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{Name: name, PasswordHash: string(hash), CreatedAt: s.now().UTC()}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, database.ErrConflict) {
			return nil, workflow.Wrapf(workflow.KindAlreadyExists, err, "user %s already exists", name)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// Authenticate checks the credentials and returns the matching user
func (s *service) Authenticate(ctx context.Context, name, password string) (*models.User, error) {
	u, err := s.repo.GetUser(ctx, name)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}
	return u, nil
}
