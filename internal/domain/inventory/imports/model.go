// Package imports provides the stock import (replenishment) workflow.
// An import is a purchase order against one warehouse, received in one or
// more batches that feed the ledger engine.
package imports

import (
	"time"

	"voltstore/internal/core/id"
	"voltstore/internal/core/types"
)

// ImportStatus is the workflow state. Transitions only move forward:
// PENDING -> PARTIALLY_RECEIVED -> RECEIVED, or PENDING -> CANCELLED.
type ImportStatus string

const (
	StatusPending           ImportStatus = "PENDING"
	StatusPartiallyReceived ImportStatus = "PARTIALLY_RECEIVED"
	StatusReceived          ImportStatus = "RECEIVED"
	StatusCancelled         ImportStatus = "CANCELLED"
)

// StockImport is the header of one replenishment order.
type StockImport struct {
	ID id.ID `db:"id" json:"id"`

	// ImportNumber is the generated document number (IMP-YYYY-NNNNN).
	ImportNumber string `db:"import_number" json:"import_number"`

	WarehouseID id.ID  `db:"warehouse_id" json:"warehouse_id"`
	SupplierID  *id.ID `db:"supplier_id" json:"supplier_id,omitempty"`

	Status ImportStatus `db:"status" json:"status"`

	// TotalCost is fixed at creation time from the ordered quantities.
	// Partial receipts do not recompute it.
	TotalCost types.Money `db:"total_cost" json:"total_cost"`

	Notes string `db:"notes" json:"notes,omitempty"`

	ExpectedDate *time.Time `db:"expected_date" json:"expected_date,omitempty"`

	// ReceivedDate is stamped on the first receipt.
	ReceivedDate *time.Time `db:"received_date" json:"received_date,omitempty"`

	CreatedBy *id.ID `db:"created_by" json:"created_by,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Items []*Item `db:"-" json:"items"`
}

// Item is one ordered line on a stock import.
type Item struct {
	ID       id.ID `db:"id" json:"id"`
	ImportID id.ID `db:"import_id" json:"import_id"`

	VariantID id.ID `db:"variant_id" json:"variant_id"`

	QuantityOrdered  int64 `db:"quantity_ordered" json:"quantity_ordered"`
	QuantityReceived int64 `db:"quantity_received" json:"quantity_received"`

	UnitCost types.Money `db:"unit_cost" json:"unit_cost"`

	// TotalCost = unit_cost x quantity_ordered, rounded half-up.
	TotalCost types.Money `db:"total_cost" json:"total_cost"`
}

// Remaining returns the quantity still expected on this line.
func (i *Item) Remaining() int64 {
	return i.QuantityOrdered - i.QuantityReceived
}

// IsComplete reports whether the line is fully received.
func (i *Item) IsComplete() bool {
	return i.QuantityReceived >= i.QuantityOrdered
}

// IsTerminal reports whether no further receipts are possible.
func (s *StockImport) IsTerminal() bool {
	return s.Status == StatusReceived || s.Status == StatusCancelled
}

// AllComplete reports whether every line is fully received.
func (s *StockImport) AllComplete() bool {
	for _, item := range s.Items {
		if !item.IsComplete() {
			return false
		}
	}
	return len(s.Items) > 0
}
