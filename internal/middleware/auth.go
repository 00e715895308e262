package middleware

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/mcdur/task-management-api/internal/constants"
	apierrors "github.com/mcdur/task-management-api/internal/errors"
	"github.com/mcdur/task-management-api/internal/models"
	"github.com/mcdur/task-management-api/internal/services"
)

// BasicAuth verifies HTTP Basic credentials on every request against the
// provider. Missing or invalid credentials get a 401 with a Basic challenge.
func BasicAuth(provider services.CredentialProvider, realm string) gin.HandlerFunc {
	challenge := fmt.Sprintf("Basic realm=%q, charset=\"UTF-8\"", realm)

	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			apierrors.Challenge(c, challenge, "")
			return
		}

		principal, err := provider.Verify(c.Request.Context(), username, password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				apierrors.Challenge(c, challenge, err.Error())
				return
			}
			slog.Error("credential verification failed", "error", err, "request_id", c.GetString(constants.ContextKeyRequestID))
			apierrors.InternalError(c, "")
			return
		}

		// Store principal in context for role checks
		c.Set(constants.ContextKeyPrincipal, principal)
		c.Next()
	}
}

// RequireRole rejects requests whose principal does not hold the role.
// It must run after BasicAuth.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		if !principal.HasRole(role) {
			apierrors.Forbidden(c, fmt.Sprintf("Role %s required", role))
			return
		}

		c.Next()
	}
}

// GetPrincipal retrieves the authenticated principal from context
func GetPrincipal(c *gin.Context) (*services.Principal, bool) {
	value, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return nil, false
	}

	principal, ok := value.(*services.Principal)
	return principal, ok && principal != nil
}
