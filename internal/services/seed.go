package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcdur/task-management-api/internal/models"
)

const demoUsername = "mcdur"

// SeedDemoData creates the demo user and two tasks assigned to it. It does
// nothing when the demo user already exists.
func SeedDemoData(ctx context.Context, users *UserService, tasks *TaskService, demoPassword string) error {
	user, err := users.CreateUser(ctx, CreateUserInput{
		Username: demoUsername,
		Password: demoPassword,
	})
	if errors.Is(err, ErrUsernameTaken) {
		slog.Info("demo data already present, skipping seed")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to seed demo user: %w", err)
	}

	description1 := "Description 1"
	description2 := "Description 2"
	seeds := []models.Task{
		{Title: "Task 1", Description: &description1, Status: models.TaskStatusTodo, AssignedToID: &user.ID},
		{Title: "Task 2", Description: &description2, Status: models.TaskStatusCompleted, AssignedToID: &user.ID},
	}
	for _, seed := range seeds {
		if _, err := tasks.CreateTask(ctx, seed); err != nil {
			return fmt.Errorf("failed to seed task %q: %w", seed.Title, err)
		}
	}

	slog.Info("seeded demo data", "username", demoUsername, "tasks", len(seeds))
	return nil
}
