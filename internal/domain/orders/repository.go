package orders

import (
	"context"

	"voltstore/internal/core/id"
)

// Filter narrows order listing.
type Filter struct {
	UserID *id.ID
	Status *OrderStatus
	Limit  int
	Offset int
}

// Repository defines storage operations for orders.
type Repository interface {
	// Create inserts the header and all items.
	Create(ctx context.Context, order *Order) error

	// GetByID returns the order with its items.
	GetByID(ctx context.Context, orderID id.ID) (*Order, error)

	// GetByIDForUpdate locks the header row for the surrounding
	// transaction, then loads items.
	GetByIDForUpdate(ctx context.Context, orderID id.ID) (*Order, error)

	// GetByNumber returns the order with its items by document number.
	GetByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// UpdateStatus persists status, cancelled_at and updated_at.
	UpdateStatus(ctx context.Context, order *Order) error

	// List returns orders matching the filter, newest first, items included.
	List(ctx context.Context, filter Filter) ([]*Order, error)
}
