// Package ledger provides the per-warehouse stock ledger and its movement log.
// The ledger is the source of truth for availability; every quantity change
// appends an immutable movement record.
package ledger

import (
	"time"

	"voltstore/internal/core/id"
)

// DefaultLowStockThreshold applies to entries created without an explicit
// threshold and to synthetic entries built from the legacy variant counter.
const DefaultLowStockThreshold = 10

// MovementType classifies the reason for a quantity change.
type MovementType string

const (
	MovementImport     MovementType = "IMPORT"
	MovementSale       MovementType = "SALE"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementTransfer   MovementType = "TRANSFER"
	MovementReturn     MovementType = "RETURN"
	MovementDamaged    MovementType = "DAMAGED"
)

// Entry is the stock record for one (warehouse, variant) pair.
type Entry struct {
	ID          id.ID `db:"id" json:"id"`
	WarehouseID id.ID `db:"warehouse_id" json:"warehouse_id"`
	VariantID   id.ID `db:"variant_id" json:"variant_id"`

	// Quantity is the total physically on hand. Never negative.
	Quantity int64 `db:"quantity" json:"quantity"`

	// ReservedQuantity is the portion earmarked by explicit holds.
	// Order consumption decrements Quantity directly and leaves this alone.
	ReservedQuantity int64 `db:"reserved_quantity" json:"reserved_quantity"`

	LowStockThreshold int64 `db:"low_stock_threshold" json:"low_stock_threshold"`

	// LastRestockedAt is set only by import receipts.
	LastRestockedAt *time.Time `db:"last_restocked_at" json:"last_restocked_at,omitempty"`

	// Synthetic marks a read-only pseudo-entry built from the variant's
	// legacy counter when no real row exists. Never persisted.
	Synthetic bool `db:"-" json:"synthetic,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AvailableQuantity is the sellable quantity: on hand minus reserved,
// floored at zero.
func (e *Entry) AvailableQuantity() int64 {
	avail := e.Quantity - e.ReservedQuantity
	if avail < 0 {
		return 0
	}
	return avail
}

// IsLowStock reports whether available quantity is at or below threshold.
func (e *Entry) IsLowStock() bool {
	return e.AvailableQuantity() <= e.LowStockThreshold
}

// IsOutOfStock reports whether nothing is available to sell.
func (e *Entry) IsOutOfStock() bool {
	return e.AvailableQuantity() == 0
}

// Movement is an append-only audit record of one quantity change.
// Movements are never updated or deleted.
type Movement struct {
	ID          id.ID        `db:"id" json:"id"`
	WarehouseID id.ID        `db:"warehouse_id" json:"warehouse_id"`
	VariantID   id.ID        `db:"variant_id" json:"variant_id"`
	Type        MovementType `db:"type" json:"type"`

	// Delta is the signed quantity change applied to the entry.
	Delta int64 `db:"delta" json:"delta"`

	// Reference ties the movement to a document (order or import number,
	// transfer reference). Empty for standalone adjustments.
	Reference string `db:"reference" json:"reference,omitempty"`

	Notes string `db:"notes" json:"notes,omitempty"`

	// CreatedBy is nil for system or anonymous actions.
	CreatedBy *id.ID `db:"created_by" json:"created_by,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// MovementFilter narrows movement log queries.
type MovementFilter struct {
	WarehouseID *id.ID
	VariantID   *id.ID
	Type        *MovementType
	Reference   *string
	Limit       int
	Offset      int
}
