// Package auth provides authentication domain logic.
package auth

import (
	"time"

	"voltstore/internal/core/id"
)

// User roles.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleViewer  = "viewer"
)

// User is a platform account.
type User struct {
	ID id.ID `db:"id" json:"id"`

	Email string `db:"email" json:"email"`

	// PasswordHash is a bcrypt hash, never exposed.
	PasswordHash string `db:"password_hash" json:"-"`

	Name string `db:"name" json:"name"`
	Role string `db:"role" json:"role"`

	IsActive bool `db:"is_active" json:"is_active"`

	LastLoginAt *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
