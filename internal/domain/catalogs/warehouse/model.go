// Package warehouse provides the Warehouse catalog.
// Warehouses represent physical locations for storing goods and inventory.
package warehouse

import (
	"context"
	"time"

	"voltstore/internal/core/apperror"
	"voltstore/internal/core/id"
)

// Warehouse represents a storage location for goods.
type Warehouse struct {
	ID id.ID `db:"id" json:"id"`

	// Code is the short unique warehouse code (e.g., "MAIN", "EAST-1")
	Code string `db:"code" json:"code"`

	Name string `db:"name" json:"name"`

	// Address is the physical address
	Address *string `db:"address" json:"address,omitempty"`

	// IsActive indicates if warehouse is operational
	IsActive bool `db:"is_active" json:"is_active"`

	// IsDefault marks the warehouse used for order fulfillment when the
	// caller does not specify one
	IsDefault bool `db:"is_default" json:"is_default"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewWarehouse creates a new Warehouse with required fields.
func NewWarehouse(code, name string) *Warehouse {
	return &Warehouse{
		ID:       id.New(),
		Code:     code,
		Name:     name,
		IsActive: true,
	}
}

// Validate checks required fields.
func (w *Warehouse) Validate(ctx context.Context) error {
	if w.Code == "" {
		return apperror.NewValidation("warehouse code is required").
			WithDetail("field", "code")
	}
	if w.Name == "" {
		return apperror.NewValidation("warehouse name is required").
			WithDetail("field", "name")
	}
	return nil
}

// CanAcceptStock returns true if warehouse can accept stock.
func (w *Warehouse) CanAcceptStock() bool {
	return w.IsActive
}
