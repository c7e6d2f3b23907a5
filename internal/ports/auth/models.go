package auth

import "strings"

type Role string

const (
	RoleAdopter Role = "adopter"
	RoleShelter Role = "shelter"
	RoleAdmin   Role = "admin"
)

// ParseRole normaliza el rol; desconocido o vacío = adopter.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleShelter:
		return RoleShelter
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleAdopter
	}
}

// Claims representa la información extraída del token.
type Claims struct {
	UserID   string
	Email    string
	TenantID string
	Role     Role
}

func (c Claims) IsAdmin() bool { return c.Role == RoleAdmin }
