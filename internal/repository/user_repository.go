package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mcdur/task-management-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	*GormRepository[models.User]
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{
		GormRepository: NewGormRepository[models.User](db),
	}
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}
	return &user, nil
}

// DeleteWithTasks deletes a user and the tasks assigned to them in a transaction
func (r *GormUserRepository) DeleteWithTasks(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assigned_to_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("delete tasks for user %d: %w", id, err)
		}

		if err := tx.Delete(&models.User{}, id).Error; err != nil {
			return fmt.Errorf("delete user %d: %w", id, err)
		}

		return nil
	})
}
