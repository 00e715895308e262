package database

import (
	"fmt"
	"log/slog"

	"github.com/mcdur/task-management-api/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the users and tasks tables with their indexes.
func Migrate(db *gorm.DB) error {
	slog.Info("running database migrations")
	if err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("database migrations completed")
	return nil
}
