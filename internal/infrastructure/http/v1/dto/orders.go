package dto

import (
	"time"

	"voltstore/internal/domain/orders"
)

// CreateOrderRequest for creating an order.
type CreateOrderRequest struct {
	Notes string                   `json:"notes"`
	Items []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateOrderItemRequest is one requested line.
type CreateOrderItemRequest struct {
	VariantID string `json:"variant_id" binding:"required,uuid"`
	Quantity  int64  `json:"quantity" binding:"required,min=1"`
}

// UpdateOrderStatusRequest moves an order forward in its lifecycle.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderResponse is one order with its items.
type OrderResponse struct {
	ID          string     `json:"id"`
	OrderNumber string     `json:"order_number"`
	UserID      *string    `json:"user_id,omitempty"`
	WarehouseID string     `json:"warehouse_id"`
	Status      string     `json:"status"`
	Subtotal    string     `json:"subtotal"`
	TaxAmount   string     `json:"tax_amount"`
	TotalAmount string     `json:"total_amount"`
	Notes       string     `json:"notes,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Items []OrderItemResponse `json:"items"`
}

// OrderItemResponse is one purchased line.
type OrderItemResponse struct {
	ID         string `json:"id"`
	VariantID  string `json:"variant_id"`
	SKU        string `json:"sku"`
	Quantity   int64  `json:"quantity"`
	UnitPrice  string `json:"unit_price"`
	TotalPrice string `json:"total_price"`
}

// FromOrder converts an order.
func FromOrder(o *orders.Order) OrderResponse {
	resp := OrderResponse{
		ID:          o.ID.String(),
		OrderNumber: o.OrderNumber,
		WarehouseID: o.WarehouseID.String(),
		Status:      string(o.Status),
		Subtotal:    o.Subtotal.StringFixed(2),
		TaxAmount:   o.TaxAmount.StringFixed(2),
		TotalAmount: o.TotalAmount.StringFixed(2),
		Notes:       o.Notes,
		CancelledAt: o.CancelledAt,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		Items:       make([]OrderItemResponse, len(o.Items)),
	}
	if o.UserID != nil {
		s := o.UserID.String()
		resp.UserID = &s
	}
	for i, item := range o.Items {
		resp.Items[i] = OrderItemResponse{
			ID:         item.ID.String(),
			VariantID:  item.VariantID.String(),
			SKU:        item.SKU,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice.StringFixed(2),
			TotalPrice: item.TotalPrice.StringFixed(2),
		}
	}
	return resp
}

// FromOrders converts a list of orders.
func FromOrders(list []*orders.Order) []OrderResponse {
	result := make([]OrderResponse, len(list))
	for i, o := range list {
		result[i] = FromOrder(o)
	}
	return result
}
