// Package orders provides the order workflow that consumes and restores
// stock through the ledger engine.
package orders

import (
	"time"

	"voltstore/internal/core/id"
	"voltstore/internal/core/types"
)

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// transitions lists the allowed forward moves per status.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusShipped, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

// CanTransition reports whether moving from to next is allowed.
func CanTransition(from, next OrderStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is one customer order. Stock is consumed at creation and restored
// exactly once on cancellation, guarded by the status transition.
type Order struct {
	ID id.ID `db:"id" json:"id"`

	// OrderNumber is the generated document number (ORD-YYYY-NNNNN).
	OrderNumber string `db:"order_number" json:"order_number"`

	// UserID is the customer, nil for guest checkout.
	UserID *id.ID `db:"user_id" json:"user_id,omitempty"`

	// WarehouseID is the fulfillment warehouse.
	WarehouseID id.ID `db:"warehouse_id" json:"warehouse_id"`

	Status OrderStatus `db:"status" json:"status"`

	Subtotal    types.Money `db:"subtotal" json:"subtotal"`
	TaxAmount   types.Money `db:"tax_amount" json:"tax_amount"`
	TotalAmount types.Money `db:"total_amount" json:"total_amount"`

	Notes string `db:"notes" json:"notes,omitempty"`

	CancelledAt *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Items []*Item `db:"-" json:"items"`
}

// Item is one purchased line.
type Item struct {
	ID      id.ID `db:"id" json:"id"`
	OrderID id.ID `db:"order_id" json:"order_id"`

	VariantID id.ID  `db:"variant_id" json:"variant_id"`
	SKU       string `db:"sku" json:"sku"`

	Quantity int64 `db:"quantity" json:"quantity"`

	UnitPrice types.Money `db:"unit_price" json:"unit_price"`

	// TotalPrice = unit_price x quantity, rounded half-up.
	TotalPrice types.Money `db:"total_price" json:"total_price"`
}

// CanCancel reports whether the order may still be cancelled.
func (o *Order) CanCancel() bool {
	return CanTransition(o.Status, StatusCancelled)
}
