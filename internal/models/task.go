package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// Valid reports whether s is one of the known task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

type Task struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	Title        string     `gorm:"type:varchar(255);not null" json:"title"`
	Description  *string    `gorm:"type:text" json:"description"`
	Status       TaskStatus `gorm:"type:varchar(20);not null;default:'TODO';index:idx_tasks_status" json:"status"`
	AssignedToID *uint64    `gorm:"index:idx_tasks_assigned_to_id" json:"assigned_to_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations
	AssignedTo *User `gorm:"foreignKey:AssignedToID;constraint:OnDelete:CASCADE" json:"assigned_to,omitempty"`
}
