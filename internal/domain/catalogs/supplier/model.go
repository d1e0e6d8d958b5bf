// Package supplier provides the Supplier catalog.
package supplier

import (
	"context"
	"regexp"
	"time"

	"voltstore/internal/core/apperror"
	"voltstore/internal/core/id"
)

// Supplier represents a vendor that fulfills stock imports.
type Supplier struct {
	ID id.ID `db:"id" json:"id"`

	Name string `db:"name" json:"name"`

	// ContactEmail receives purchase order notifications
	ContactEmail *string `db:"contact_email" json:"contact_email,omitempty"`

	Phone   *string `db:"phone" json:"phone,omitempty"`
	Address *string `db:"address" json:"address,omitempty"`

	IsActive bool `db:"is_active" json:"is_active"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewSupplier creates a new Supplier with required fields.
func NewSupplier(name string) *Supplier {
	return &Supplier{
		ID:       id.New(),
		Name:     name,
		IsActive: true,
	}
}

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validate checks required fields.
func (s *Supplier) Validate(ctx context.Context) error {
	if s.Name == "" {
		return apperror.NewValidation("supplier name is required").
			WithDetail("field", "name")
	}
	if s.ContactEmail != nil && *s.ContactEmail != "" && !emailRe.MatchString(*s.ContactEmail) {
		return apperror.NewValidation("invalid contact email").
			WithDetail("field", "contact_email").
			WithDetail("value", *s.ContactEmail)
	}
	return nil
}
