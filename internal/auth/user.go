package auth

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role selects the dashboard shown to a user.
type Role string

const (
	// RolePatient is an individual band wearer.
	RolePatient Role = "patient"

	// RolePro is a workplace-health professional.
	RolePro Role = "pro"
)

// ParseRole converts s to a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.TrimSpace(s))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RolePatient || r == RolePro
}

// DashboardPath returns the page a user with role r lands on.
func (r Role) DashboardPath() string {
	if r == RolePro {
		return "/pro"
	}
	return "/patient"
}

// User is a stored account.
type User struct {
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Role         Role   `json:"role"`
}

// NormalizeEmail trims surrounding space and lower-cases email.
func NormalizeEmail(email string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(email))
}
