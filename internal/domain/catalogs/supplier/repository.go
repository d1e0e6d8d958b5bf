package supplier

import (
	"context"

	"voltstore/internal/core/id"
)

// Repository defines storage operations for suppliers.
type Repository interface {
	Create(ctx context.Context, sup *Supplier) error
	Update(ctx context.Context, sup *Supplier) error
	GetByID(ctx context.Context, supID id.ID) (*Supplier, error)
	List(ctx context.Context, activeOnly bool) ([]*Supplier, error)
}
