package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeConflict      = "CONFLICT"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

var defaultMessages = map[string]string{
	ErrCodeUnauthorized:  "Authentication required",
	ErrCodeForbidden:     "Access denied",
	ErrCodeInvalidInput:  "Invalid request",
	ErrCodeNotFound:      "Resource not found",
	ErrCodeConflict:      "Resource conflict",
	ErrCodeInternalError: "Internal server error",
}

// APIError is the JSON body of every error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates an APIError, falling back to the code's default message
func NewAPIError(code, message string) *APIError {
	if message == "" {
		message = defaultMessages[code]
	}
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// RespondWithError writes err and stops the handler chain
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.AbortWithStatusJSON(statusCode, err)
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, message))
}

// Challenge sends a 401 response carrying a WWW-Authenticate header
func Challenge(c *gin.Context, challenge, message string) {
	c.Header("WWW-Authenticate", challenge)
	Unauthorized(c, message)
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeForbidden, message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// BadRequestWithDetails sends a 400 response with details
func BadRequestWithDetails(c *gin.Context, message string, details interface{}) {
	err := NewAPIError(ErrCodeInvalidInput, message)
	err.Details = details
	RespondWithError(c, http.StatusBadRequest, err)
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, message string) {
	RespondWithError(c, http.StatusConflict, NewAPIError(ErrCodeConflict, message))
}

// InternalError sends a 500 response. The message must never carry
// storage details.
func InternalError(c *gin.Context, message string) {
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}
