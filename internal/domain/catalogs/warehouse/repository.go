package warehouse

import (
	"context"

	"voltstore/internal/core/id"
)

// Repository defines storage operations for warehouses.
type Repository interface {
	Create(ctx context.Context, wh *Warehouse) error
	Update(ctx context.Context, wh *Warehouse) error
	GetByID(ctx context.Context, whID id.ID) (*Warehouse, error)
	GetByCode(ctx context.Context, code string) (*Warehouse, error)
	List(ctx context.Context, activeOnly bool) ([]*Warehouse, error)

	// ClearDefault drops the default flag from every warehouse.
	ClearDefault(ctx context.Context) error
}
