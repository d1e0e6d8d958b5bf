package auth

import (
	"context"

	"voltstore/internal/core/id"
)

// Repository defines storage operations for users.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateLastLogin(ctx context.Context, user *User) error
}
