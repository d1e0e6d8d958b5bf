// Package variant exposes the product catalog read side used by inventory.
// Inventory never mutates catalog data except for the legacy per-variant
// stock counter kept for backward compatibility.
package variant

import (
	"context"

	"voltstore/internal/core/id"
	"voltstore/internal/core/types"
)

// Variant is a sellable product variant (SKU).
type Variant struct {
	ID          id.ID       `json:"id" db:"id"`
	ProductID   id.ID       `json:"product_id" db:"product_id"`
	ProductName string      `json:"product_name" db:"product_name"`
	SKU         string      `json:"sku" db:"sku"`
	Price       types.Money `json:"price" db:"price"`

	// LegacyStock is the denormalized per-variant counter kept in the
	// catalog table. The ledger is authoritative; this field only seeds
	// synthetic entries for variants never tracked per warehouse.
	LegacyStock int64 `json:"legacy_stock" db:"legacy_stock"`

	IsActive bool `json:"is_active" db:"is_active"`
}

// Store provides read access to the variant catalog.
type Store interface {
	// GetVariant returns a variant by ID.
	GetVariant(ctx context.Context, variantID id.ID) (*Variant, error)

	// GetVariantBySKU returns a variant by its SKU.
	GetVariantBySKU(ctx context.Context, sku string) (*Variant, error)

	// ListActive returns all active variants.
	ListActive(ctx context.Context) ([]*Variant, error)

	// SetLegacyStock overwrites the denormalized counter after the ledger
	// absorbs it into a real entry.
	SetLegacyStock(ctx context.Context, variantID id.ID, quantity int64) error
}
