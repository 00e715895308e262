package models

// Role is a permission tier gating endpoint access.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Satisfies reports whether holding r grants access that requires the given role.
// ADMIN satisfies USER requirements.
func (r Role) Satisfies(required Role) bool {
	if r == required {
		return true
	}
	return r == RoleAdmin && required == RoleUser
}
