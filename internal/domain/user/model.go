package user

import "strings"

const (
	RoleAdmin     = "admin"
	RoleOrganizer = "organizer"
	RolePlayer    = "player"
)

// Principal is the authenticated caller resolved from a bearer token.
type Principal struct {
	UserID string
	Email  string
}

// Profile is the public part of a registered user.
type Profile struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// HasAnyRole reports whether the profile role is one of roles.
func (p Profile) HasAnyRole(roles []string) bool {
	role := strings.ToLower(strings.TrimSpace(p.Role))
	if role == "" {
		return false
	}
	for _, candidate := range roles {
		if strings.ToLower(strings.TrimSpace(candidate)) == role {
			return true
		}
	}
	return false
}
