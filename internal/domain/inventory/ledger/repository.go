package ledger

import (
	"context"

	"voltstore/internal/core/id"
)

// Repository defines storage operations for ledger entries and movements.
// Mutating methods are expected to run inside a transaction carried in ctx.
type Repository interface {
	// Get returns the entry for a pair, or NotFound.
	Get(ctx context.Context, warehouseID, variantID id.ID) (*Entry, error)

	// GetForUpdate returns the entry with a row-level lock held for the
	// duration of the surrounding transaction, or NotFound.
	GetForUpdate(ctx context.Context, warehouseID, variantID id.ID) (*Entry, error)

	// Create inserts a new entry.
	Create(ctx context.Context, entry *Entry) error

	// UpdateQuantities persists quantity, reserved_quantity,
	// low_stock_threshold and last_restocked_at for an existing entry.
	UpdateQuantities(ctx context.Context, entry *Entry) error

	// ListByWarehouse returns all entries for a warehouse.
	ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*Entry, error)

	// ListLowStock returns entries with available quantity at or below
	// their threshold, including out-of-stock ones.
	ListLowStock(ctx context.Context) ([]*Entry, error)

	// ListOutOfStock returns entries with zero available quantity.
	ListOutOfStock(ctx context.Context) ([]*Entry, error)

	// ListAll returns every entry. Used by the alert sweep.
	ListAll(ctx context.Context) ([]*Entry, error)

	// AppendMovement inserts a movement record.
	AppendMovement(ctx context.Context, m *Movement) error

	// Movements returns movement records matching the filter,
	// newest first.
	Movements(ctx context.Context, filter MovementFilter) ([]*Movement, error)

	// MovementsTotal returns the sum of movement deltas for a pair.
	// Equals the entry's quantity when the ledger is consistent.
	MovementsTotal(ctx context.Context, warehouseID, variantID id.ID) (int64, error)
}
