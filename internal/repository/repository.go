package repository

import (
	"context"
	"errors"

	"github.com/mcdur/task-management-api/internal/models"
)

// ErrNotFound is returned when no record matches the requested identifier.
var ErrNotFound = errors.New("repository: record not found")

// ErrDuplicate is returned when a write violates a unique constraint.
var ErrDuplicate = errors.New("repository: duplicate record")

// Repository defines generic data access for a single entity type keyed by a
// surrogate identifier.
type Repository[T any] interface {
	// FindAll returns every record in storage order
	FindAll(ctx context.Context) ([]T, error)

	// FindByID returns the record or ErrNotFound
	FindByID(ctx context.Context, id uint64) (*T, error)

	// Save inserts the entity when its ID is zero, otherwise overwrites the matching record
	Save(ctx context.Context, entity *T) error

	// ExistsByID reports whether a record with the ID exists
	ExistsByID(ctx context.Context, id uint64) (bool, error)

	// DeleteByID removes the record; deleting an absent record is a no-op
	DeleteByID(ctx context.Context, id uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Repository[models.Task]

	// ListByAssignee returns the tasks assigned to a user
	ListByAssignee(ctx context.Context, userID uint64) ([]models.Task, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Repository[models.User]

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// DeleteWithTasks deletes a user and every task assigned to them
	DeleteWithTasks(ctx context.Context, id uint64) error
}
