package users

import (
	"fmt"
	"strings"
)

// Role represents a user's capability level as the backend encodes it.
type Role string

const (
	RoleAdmin   Role = "ADMIN"        // full access, logs in via administrateurs/login
	RoleManager Role = "GESTIONNAIRE" // store manager, logs in via gestionnaires/login
	RoleSeller  Role = "VENDEUR"      // seller account, no dedicated login endpoint
	RoleBuyer   Role = "ACHETEUR"     // buyer account, no dedicated login endpoint
)

// ParseRole maps user-facing role names ("admin", "manager", ...) onto the
// backend's role encoding. The backend is French; the client accepts both.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin", "administrateur":
		return RoleAdmin, nil
	case "manager", "gestionnaire":
		return RoleManager, nil
	case "seller", "vendeur":
		return RoleSeller, nil
	case "buyer", "acheteur":
		return RoleBuyer, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) IsAdmin() bool   { return r == RoleAdmin }
func (r Role) IsManager() bool { return r == RoleManager || r == RoleAdmin }

// AuthenticatedUser is the identity attached to the current session.
// It is an immutable value; the session store hands out copies.
type AuthenticatedUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Role     Role   `json:"role"`
}
