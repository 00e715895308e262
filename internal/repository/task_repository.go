package repository

import (
	"context"
	"fmt"

	"github.com/mcdur/task-management-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	*GormRepository[models.Task]
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{
		GormRepository: NewGormRepository[models.Task](db, "AssignedTo"),
	}
}

// ListByAssignee returns the tasks assigned to a user ordered by ID
func (r *GormTaskRepository) ListByAssignee(ctx context.Context, userID uint64) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := r.db.WithContext(ctx).
		Preload("AssignedTo").
		Where("assigned_to_id = ?", userID).
		Order("id").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks for user %d: %w", userID, err)
	}
	return tasks, nil
}
