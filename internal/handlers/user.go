package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mcdur/task-management-api/internal/dto"
	apierrors "github.com/mcdur/task-management-api/internal/errors"
	"github.com/mcdur/task-management-api/internal/services"
)

type UserHandler struct {
	userService *services.UserService
	taskService *services.TaskService
}

func NewUserHandler(userService *services.UserService, taskService *services.TaskService) *UserHandler {
	return &UserHandler{
		userService: userService,
		taskService: taskService,
	}
}

// ListUsers returns every user
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// CreateUser registers a user that tasks can be assigned to
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), services.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// DeleteUser deletes a user together with the tasks assigned to them
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListUserTasks returns the tasks assigned to a user
func (h *UserHandler) ListUserTasks(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasksForUser(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}
