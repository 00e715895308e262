package dto

import (
	"github.com/mcdur/task-management-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// TaskDTO represents a task in API responses. The assignee carries no
// task list, so serialization never cycles.
type TaskDTO struct {
	ID          uint64            `json:"id"`
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Status      models.TaskStatus `json:"status"`
	AssignedTo  *UserDTO          `json:"assignedTo"`
}

// UserRef references an existing user by ID in requests. A username, if
// sent, is ignored.
type UserRef struct {
	ID uint64 `json:"id" binding:"required"`
}

// TaskRequest is the body of create and update requests
type TaskRequest struct {
	ID          *uint64           `json:"id"`
	Title       string            `json:"title" binding:"required,max=255"`
	Description *string           `json:"description"`
	Status      models.TaskStatus `json:"status" binding:"omitempty,oneof=TODO IN_PROGRESS COMPLETED"`
	AssignedTo  *UserRef          `json:"assignedTo"`
}

// CreateUserRequest is the body of user creation requests
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=72"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	items := make([]UserDTO, len(users))
	for i, user := range users {
		items[i] = ToUserDTO(user)
	}
	return items
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
	}

	// Include assignee if preloaded
	if task.AssignedTo != nil {
		assignee := ToUserDTO(*task.AssignedTo)
		dto.AssignedTo = &assignee
	} else if task.AssignedToID != nil {
		dto.AssignedTo = &UserDTO{ID: *task.AssignedToID}
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}

// ToTaskModel converts a request into the model passed to the task service.
// The request ID is carried through; the service decides whether it applies.
func (r TaskRequest) ToTaskModel() models.Task {
	task := models.Task{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
	}
	if r.ID != nil {
		task.ID = *r.ID
	}
	if r.AssignedTo != nil {
		assigneeID := r.AssignedTo.ID
		task.AssignedToID = &assigneeID
	}
	return task
}
