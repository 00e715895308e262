package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mcdur/task-management-api/internal/config"
	"github.com/mcdur/task-management-api/internal/constants"
	"github.com/mcdur/task-management-api/internal/handlers"
	"github.com/mcdur/task-management-api/internal/middleware"
	"github.com/mcdur/task-management-api/internal/models"
	"github.com/mcdur/task-management-api/internal/repository"
	"github.com/mcdur/task-management-api/internal/services"
	"gorm.io/gorm"
)

type Server struct {
	cfg         *config.Config
	app         *gin.Engine
	taskService *services.TaskService
	userService *services.UserService
}

// NewServer wires repositories, services and handlers on top of db and
// registers every route.
func NewServer(cfg *config.Config, db *gorm.DB) (*Server, error) {
	hasher := services.NewBcryptHasher(cfg.Auth.BcryptCost)

	credentials, err := services.NewStaticCredentialStore(hasher,
		services.Account{
			Username: cfg.Auth.UserUsername,
			Password: cfg.Auth.UserPassword,
			Roles:    []models.Role{models.RoleUser},
		},
		services.Account{
			Username: cfg.Auth.AdminUsername,
			Password: cfg.Auth.AdminPassword,
			Roles:    []models.Role{models.RoleAdmin},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to provision credentials: %w", err)
	}

	// Initialize repositories
	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)

	s := &Server{
		cfg:         cfg,
		app:         gin.New(),
		taskService: services.NewTaskService(taskRepo, userRepo),
		userService: services.NewUserService(userRepo, hasher),
	}
	s.routes(credentials)

	return s, nil
}

func (s *Server) routes(credentials services.CredentialProvider) {
	s.app.Use(gin.Recovery())
	s.app.Use(middleware.RequestLogger())
	s.app.Use(cors.New(corsConfig(s.cfg.Server.CORSAllowedOrigins)))

	s.app.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task Management API is running",
		})
	})

	taskHandler := handlers.NewTaskHandler(s.taskService)
	userHandler := handlers.NewUserHandler(s.userService, s.taskService)

	requireUser := middleware.RequireRole(models.RoleUser)
	requireAdmin := middleware.RequireRole(models.RoleAdmin)

	api := s.app.Group("/api")
	api.Use(middleware.BasicAuth(credentials, s.cfg.Auth.Realm))
	{
		tasks := api.Group("/tasks")
		{
			tasks.GET("", requireUser, taskHandler.ListTasks)
			tasks.GET("/:id", requireUser, taskHandler.GetTask)
			tasks.POST("", requireAdmin, taskHandler.CreateTask)
			tasks.PUT("/:id", requireAdmin, taskHandler.UpdateTask)
			tasks.DELETE("/:id", requireAdmin, taskHandler.DeleteTask)
		}

		users := api.Group("/users")
		{
			users.GET("", requireUser, userHandler.ListUsers)
			users.GET("/:id/tasks", requireUser, userHandler.ListUserTasks)
			users.POST("", requireAdmin, userHandler.CreateUser)
			users.DELETE("/:id", requireAdmin, userHandler.DeleteUser)
		}
	}
}

func corsConfig(origins []string) cors.Config {
	config := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", constants.HeaderRequestID}
	config.ExposeHeaders = []string{constants.HeaderRequestID}
	return config
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.app
}

// SeedDemoData provisions the demo user and its tasks. The demo user only
// exists to own tasks and never logs in, so its password is random.
func (s *Server) SeedDemoData(ctx context.Context) error {
	return services.SeedDemoData(ctx, s.userService, s.taskService, uuid.NewString())
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests
// within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(s.cfg.Server.Port),
		Handler: s.app,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server", "timeout", s.cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
