package imports

import (
	"context"

	"voltstore/internal/core/id"
)

// Filter narrows import listing.
type Filter struct {
	WarehouseID *id.ID
	SupplierID  *id.ID
	Status      *ImportStatus
	Limit       int
	Offset      int
}

// Repository defines storage operations for stock imports.
type Repository interface {
	// Create inserts the header and all items.
	Create(ctx context.Context, imp *StockImport) error

	// GetByID returns the import with its items.
	GetByID(ctx context.Context, importID id.ID) (*StockImport, error)

	// GetByIDForUpdate locks the header row for the surrounding
	// transaction, then loads items.
	GetByIDForUpdate(ctx context.Context, importID id.ID) (*StockImport, error)

	// GetByNumber returns the import with its items by document number.
	GetByNumber(ctx context.Context, importNumber string) (*StockImport, error)

	// UpdateHeader persists status, received_date, notes and updated_at.
	UpdateHeader(ctx context.Context, imp *StockImport) error

	// UpdateItem persists quantity_received for one line.
	UpdateItem(ctx context.Context, item *Item) error

	// List returns imports matching the filter, newest first, items included.
	List(ctx context.Context, filter Filter) ([]*StockImport, error)
}
