package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mcdur/task-management-api/internal/models"
	"github.com/mcdur/task-management-api/internal/repository"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrTitleRequired = errors.New("title is required")
	ErrInvalidStatus = errors.New("status must be one of TODO, IN_PROGRESS, COMPLETED")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// GetAllTasks returns every task
func (s *TaskService) GetAllTasks(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.taskRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTaskByID returns a task with its assignee
func (s *TaskService) GetTaskByID(ctx context.Context, id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTask persists a new task. Any ID on the input is ignored.
func (s *TaskService) CreateTask(ctx context.Context, input models.Task) (*models.Task, error) {
	if err := s.normalize(ctx, &input); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:        input.Title,
		Description:  input.Description,
		Status:       input.Status,
		AssignedToID: input.AssignedToID,
	}

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.GetTaskByID(ctx, task.ID)
}

// UpdateTask replaces the title, description, status and assignee of an
// existing task. The ID embedded in input is overridden by id.
func (s *TaskService) UpdateTask(ctx context.Context, id uint64, input models.Task) (*models.Task, error) {
	task, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.normalize(ctx, &input); err != nil {
		return nil, err
	}

	task.ID = id
	task.Title = input.Title
	task.Description = input.Description
	task.Status = input.Status
	task.AssignedToID = input.AssignedToID
	task.AssignedTo = nil

	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.GetTaskByID(ctx, id)
}

// DeleteTask deletes a task, failing with ErrTaskNotFound if it does not exist
func (s *TaskService) DeleteTask(ctx context.Context, id uint64) error {
	exists, err := s.taskRepo.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find task: %w", err)
	}
	if !exists {
		return ErrTaskNotFound
	}

	if err := s.taskRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// ListTasksForUser returns the tasks assigned to a user
func (s *TaskService) ListTasksForUser(ctx context.Context, userID uint64) ([]models.Task, error) {
	if err := s.ensureUserExists(ctx, userID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListByAssignee(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for user: %w", err)
	}

	return tasks, nil
}

// normalize validates a task payload in place: the title must be non-blank,
// an empty status defaults to TODO, and an assignee must exist.
func (s *TaskService) normalize(ctx context.Context, task *models.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return ErrTitleRequired
	}

	if task.Status == "" {
		task.Status = models.TaskStatusTodo
	}
	if !task.Status.Valid() {
		return ErrInvalidStatus
	}

	if task.AssignedToID == nil && task.AssignedTo != nil {
		assigneeID := task.AssignedTo.ID
		task.AssignedToID = &assigneeID
	}
	if task.AssignedToID != nil {
		if err := s.ensureUserExists(ctx, *task.AssignedToID); err != nil {
			return err
		}
	}

	return nil
}

func (s *TaskService) ensureUserExists(ctx context.Context, userID uint64) error {
	exists, err := s.userRepo.ExistsByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to verify user: %w", err)
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}
