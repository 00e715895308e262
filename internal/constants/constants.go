package constants

const (
	// ContextKeyPrincipal is the gin context key holding the authenticated principal.
	ContextKeyPrincipal = "principal"
	// ContextKeyRequestID is the gin context key holding the request id.
	ContextKeyRequestID = "request_id"

	// HeaderRequestID is echoed back on every response.
	HeaderRequestID = "X-Request-ID"

	// MinPasswordLength applies to users created through the API.
	MinPasswordLength = 8
	// MaxPasswordLength is the bcrypt input limit in bytes.
	MaxPasswordLength = 72
	// MaxUsernameLength matches the users.username column width.
	MaxUsernameLength = 100
)
