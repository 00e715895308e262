package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mcdur/task-management-api/internal/constants"
	"github.com/mcdur/task-management-api/internal/models"
	"github.com/mcdur/task-management-api/internal/repository"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameTooLong  = errors.New("username too long")
	ErrUsernameTaken    = errors.New("username already exists")
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordTooLong  = errors.New("password too long")
)

// UserService manages the users tasks can be assigned to.
type UserService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, hasher PasswordHasher) *UserService {
	return &UserService{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

// CreateUserInput represents the required information to create a user.
type CreateUserInput struct {
	Username string
	Password string
}

// ListUsers returns every user.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateUser stores a new user with a hashed password.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if utf8.RuneCountInString(username) > constants.MaxUsernameLength {
		return nil, ErrUsernameTooLong
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if len(input.Password) > constants.MaxPasswordLength {
		return nil, ErrPasswordTooLong
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hashedPassword,
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		// A concurrent create can claim the name after the check above.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// DeleteUser removes a user together with every task assigned to them.
func (s *UserService) DeleteUser(ctx context.Context, id uint64) error {
	exists, err := s.userRepo.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if !exists {
		return ErrUserNotFound
	}

	if err := s.userRepo.DeleteWithTasks(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
