package dto

import (
	"time"

	"voltstore/internal/domain/inventory/imports"
)

// CreateImportRequest for creating a stock import.
type CreateImportRequest struct {
	WarehouseID  string                    `json:"warehouse_id" binding:"required,uuid"`
	SupplierID   *string                   `json:"supplier_id" binding:"omitempty,uuid"`
	ExpectedDate *time.Time                `json:"expected_date"`
	Notes        string                    `json:"notes"`
	Items        []CreateImportItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateImportItemRequest is one ordered line.
type CreateImportItemRequest struct {
	VariantID       string `json:"variant_id" binding:"required,uuid"`
	QuantityOrdered int64  `json:"quantity_ordered" binding:"required,min=1"`
	UnitCost        string `json:"unit_cost" binding:"required"`
}

// ReceiveImportRequest for receiving one batch against an import.
type ReceiveImportRequest struct {
	Receipts []ReceiptLineRequest `json:"receipts" binding:"required,min=1,dive"`
}

// ReceiptLineRequest is one received quantity for an import item.
type ReceiptLineRequest struct {
	ItemID   string `json:"item_id" binding:"required,uuid"`
	Quantity int64  `json:"quantity" binding:"required,min=1"`
}

// ImportResponse is one stock import with its items.
type ImportResponse struct {
	ID           string     `json:"id"`
	ImportNumber string     `json:"import_number"`
	WarehouseID  string     `json:"warehouse_id"`
	SupplierID   *string    `json:"supplier_id,omitempty"`
	Status       string     `json:"status"`
	TotalCost    string     `json:"total_cost"`
	Notes        string     `json:"notes,omitempty"`
	ExpectedDate *time.Time `json:"expected_date,omitempty"`
	ReceivedDate *time.Time `json:"received_date,omitempty"`
	CreatedBy    *string    `json:"created_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Items []ImportItemResponse `json:"items"`
}

// ImportItemResponse is one ordered line.
type ImportItemResponse struct {
	ID               string `json:"id"`
	VariantID        string `json:"variant_id"`
	QuantityOrdered  int64  `json:"quantity_ordered"`
	QuantityReceived int64  `json:"quantity_received"`
	QuantityPending  int64  `json:"quantity_pending"`
	UnitCost         string `json:"unit_cost"`
	TotalCost        string `json:"total_cost"`
}

// FromImport converts a stock import.
func FromImport(imp *imports.StockImport) ImportResponse {
	resp := ImportResponse{
		ID:           imp.ID.String(),
		ImportNumber: imp.ImportNumber,
		WarehouseID:  imp.WarehouseID.String(),
		Status:       string(imp.Status),
		TotalCost:    imp.TotalCost.StringFixed(2),
		Notes:        imp.Notes,
		ExpectedDate: imp.ExpectedDate,
		ReceivedDate: imp.ReceivedDate,
		CreatedAt:    imp.CreatedAt,
		UpdatedAt:    imp.UpdatedAt,
		Items:        make([]ImportItemResponse, len(imp.Items)),
	}
	if imp.SupplierID != nil {
		s := imp.SupplierID.String()
		resp.SupplierID = &s
	}
	if imp.CreatedBy != nil {
		s := imp.CreatedBy.String()
		resp.CreatedBy = &s
	}
	for i, item := range imp.Items {
		resp.Items[i] = ImportItemResponse{
			ID:               item.ID.String(),
			VariantID:        item.VariantID.String(),
			QuantityOrdered:  item.QuantityOrdered,
			QuantityReceived: item.QuantityReceived,
			QuantityPending:  item.Remaining(),
			UnitCost:         item.UnitCost.StringFixed(2),
			TotalCost:        item.TotalCost.StringFixed(2),
		}
	}
	return resp
}

// FromImports converts a list of stock imports.
func FromImports(list []*imports.StockImport) []ImportResponse {
	result := make([]ImportResponse, len(list))
	for i, imp := range list {
		result[i] = FromImport(imp)
	}
	return result
}
