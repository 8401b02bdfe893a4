// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/openrun/users-api/internal/metrics"
	"github.com/openrun/users-api/internal/model"
	"github.com/openrun/users-api/internal/repository"
)

// Service errors.
var (
	ErrInvalidInput = errors.New("name and email are required")
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository is the store the service operates on.
type UserRepository interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	UpdateUser(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// UserService handles user business logic.
type UserService struct {
	repo    UserRepository
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(repo UserRepository, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		repo:    repo,
		metrics: recorder,
	}
}

// CreateUserInput defines input for creating a user.
type CreateUserInput struct {
	Name  string `validate:"required"`
	Email string `validate:"required"`
}

// UpdateUserInput defines input for updating a user.
// Nil and empty fields are both left unchanged.
type UpdateUserInput struct {
	ID    int64
	Name  *string
	Email *string
}

// ListUsers returns the full collection in insertion order.
func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return user, nil
}

// CreateUser validates input and appends a new user with the next id.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error) {
	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, fieldList(verrs))
		}
		return nil, fmt.Errorf("failed to validate input: %w", err)
	}

	user := &model.User{
		Name:  input.Name,
		Email: input.Email,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserCreated()

	return user, nil
}

// UpdateUser overwrites the supplied fields of an existing user.
// An update that sets no field returns the user unchanged and records no metric.
func (s *UserService) UpdateUser(ctx context.Context, input UpdateUserInput) (*model.User, error) {
	patch := model.UserPatch{
		Name:  nonEmpty(input.Name),
		Email: nonEmpty(input.Email),
	}

	// Nothing to write; still report a missing user.
	if patch.IsEmpty() {
		return s.GetUser(ctx, input.ID)
	}

	user, err := s.repo.UpdateUser(ctx, input.ID, patch)
	if err != nil {
		return nil, mapRepoError(err)
	}

	s.metrics.IncUserUpdated()

	return user, nil
}

// DeleteUser removes a user from the collection.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return mapRepoError(err)
	}

	s.metrics.IncUserDeleted()

	return nil
}

func mapRepoError(err error) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return err
}

// nonEmpty drops empty strings so they behave like omitted fields.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func fieldList(verrs validator.ValidationErrors) string {
	fields := ""
	for i, fe := range verrs {
		if i > 0 {
			fields += ", "
		}
		fields += fe.Field()
	}
	return "missing " + fields
}
