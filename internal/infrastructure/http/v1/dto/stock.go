package dto

import (
	"time"

	"voltstore/internal/domain/inventory/ledger"
)

// StockEntryResponse is one ledger entry with derived fields.
type StockEntryResponse struct {
	ID                string     `json:"id"`
	WarehouseID       string     `json:"warehouse_id"`
	VariantID         string     `json:"variant_id"`
	Quantity          int64      `json:"quantity"`
	ReservedQuantity  int64      `json:"reserved_quantity"`
	AvailableQuantity int64      `json:"available_quantity"`
	LowStockThreshold int64      `json:"low_stock_threshold"`
	IsLowStock        bool       `json:"is_low_stock"`
	IsOutOfStock      bool       `json:"is_out_of_stock"`
	LastRestockedAt   *time.Time `json:"last_restocked_at,omitempty"`
	Synthetic         bool       `json:"synthetic,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// FromEntry converts a ledger entry.
func FromEntry(e *ledger.Entry) StockEntryResponse {
	return StockEntryResponse{
		ID:                e.ID.String(),
		WarehouseID:       e.WarehouseID.String(),
		VariantID:         e.VariantID.String(),
		Quantity:          e.Quantity,
		ReservedQuantity:  e.ReservedQuantity,
		AvailableQuantity: e.AvailableQuantity(),
		LowStockThreshold: e.LowStockThreshold,
		IsLowStock:        e.IsLowStock(),
		IsOutOfStock:      e.IsOutOfStock(),
		LastRestockedAt:   e.LastRestockedAt,
		Synthetic:         e.Synthetic,
		UpdatedAt:         e.UpdatedAt,
	}
}

// FromEntries converts a list of ledger entries.
func FromEntries(entries []*ledger.Entry) []StockEntryResponse {
	result := make([]StockEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = FromEntry(e)
	}
	return result
}

// MovementResponse is one movement log record.
type MovementResponse struct {
	ID          string    `json:"id"`
	WarehouseID string    `json:"warehouse_id"`
	VariantID   string    `json:"variant_id"`
	Type        string    `json:"type"`
	Delta       int64     `json:"delta"`
	Reference   string    `json:"reference,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedBy   *string   `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// FromMovement converts a movement record.
func FromMovement(m *ledger.Movement) MovementResponse {
	resp := MovementResponse{
		ID:          m.ID.String(),
		WarehouseID: m.WarehouseID.String(),
		VariantID:   m.VariantID.String(),
		Type:        string(m.Type),
		Delta:       m.Delta,
		Reference:   m.Reference,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
	}
	if m.CreatedBy != nil {
		s := m.CreatedBy.String()
		resp.CreatedBy = &s
	}
	return resp
}

// AdjustStockRequest for manual stock adjustments.
type AdjustStockRequest struct {
	WarehouseID string `json:"warehouse_id" binding:"required,uuid"`
	VariantID   string `json:"variant_id" binding:"required,uuid"`
	Delta       int64  `json:"delta" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
}

// TransferStockRequest for moving stock between warehouses.
type TransferStockRequest struct {
	SourceWarehouseID string `json:"source_warehouse_id" binding:"required,uuid"`
	TargetWarehouseID string `json:"target_warehouse_id" binding:"required,uuid"`
	VariantID         string `json:"variant_id" binding:"required,uuid"`
	Quantity          int64  `json:"quantity" binding:"required,min=1"`
}

// TransferResponse returns both sides of a completed transfer.
type TransferResponse struct {
	Source StockEntryResponse `json:"source"`
	Target StockEntryResponse `json:"target"`
}

// RecordDamageRequest for writing off damaged stock.
type RecordDamageRequest struct {
	WarehouseID string `json:"warehouse_id" binding:"required,uuid"`
	VariantID   string `json:"variant_id" binding:"required,uuid"`
	Quantity    int64  `json:"quantity" binding:"required,min=1"`
	Notes       string `json:"notes"`
}

// ReconcileResponse compares the entry quantity with the movement sum.
type ReconcileResponse struct {
	WarehouseID string `json:"warehouse_id"`
	VariantID   string `json:"variant_id"`
	LedgerQty   int64  `json:"ledger_quantity"`
	MovementSum int64  `json:"movement_sum"`
	Consistent  bool   `json:"consistent"`
}
