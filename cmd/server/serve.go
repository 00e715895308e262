package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/mcdur/task-management-api/internal/config"
	"github.com/mcdur/task-management-api/internal/database"
	"github.com/mcdur/task-management-api/internal/logger"
	"github.com/mcdur/task-management-api/internal/server"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP API",
		Long: `Start the HTTP API.

Configuration is read from the environment and an optional .env file.
Set SEED_DEMO_DATA=true to create the demo user and tasks on startup.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Setup(cfg.Server.LogLevel)
	gin.SetMode(cfg.Server.GinMode)

	// Connect to database
	db, err := database.Connect(cfg.Database, cfg.Server.LogLevel)
	if err != nil {
		return err
	}
	defer database.Close(db)

	// Run migrations
	if err := database.Migrate(db); err != nil {
		return err
	}

	srv, err := server.NewServer(cfg, db)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.SeedDemoData {
		if err := srv.SeedDemoData(ctx); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	if err := srv.Run(ctx); err != nil {
		return err
	}

	slog.Info("server stopped")
	return nil
}
