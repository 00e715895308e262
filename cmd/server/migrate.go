package main

import (
	"github.com/mcdur/task-management-api/internal/config"
	"github.com/mcdur/task-management-api/internal/database"
	"github.com/mcdur/task-management-api/internal/logger"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger.Setup(cfg.Server.LogLevel)

			db, err := database.Connect(cfg.Database, cfg.Server.LogLevel)
			if err != nil {
				return err
			}
			defer database.Close(db)

			return database.Migrate(db)
		},
	}
}
