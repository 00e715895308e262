package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mcdur/task-management-api/internal/constants"
	apierrors "github.com/mcdur/task-management-api/internal/errors"
	"github.com/mcdur/task-management-api/internal/services"
)

// respondServiceError maps a service error onto the API error envelope.
// Anything unrecognised is logged and reported as a 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrUsernameRequired),
		errors.Is(err, services.ErrUsernameTooLong),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrPasswordTooLong):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, err.Error())
	default:
		slog.Error("request failed",
			"request_id", c.GetString(constants.ContextKeyRequestID),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
		apierrors.InternalError(c, "")
	}
}

// parseID reads a numeric path parameter, answering 400 when it is malformed
func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}
