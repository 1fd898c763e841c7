package user

import (
	"strings"
)

// Role gates what the storefront offers a user. It is trusted as sent by the
// client and is not an authorization boundary.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleSeller
}

// User is the session identity.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Name  string `json:"name,omitempty"`
}

// NameFromEmail derives a display name from the local part of an email.
func NameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
