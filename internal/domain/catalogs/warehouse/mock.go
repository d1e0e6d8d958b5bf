package warehouse

import (
	"context"
	"sync"

	"voltstore/internal/core/apperror"
	"voltstore/internal/core/id"
)

// MockRepository is an in-memory Repository for unit tests.
type MockRepository struct {
	mu         sync.Mutex
	warehouses map[id.ID]*Warehouse
}

// NewMockRepository creates an empty in-memory repository.
func NewMockRepository() *MockRepository {
	return &MockRepository{warehouses: make(map[id.ID]*Warehouse)}
}

// Create implements Repository.
func (r *MockRepository) Create(ctx context.Context, wh *Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *wh
	r.warehouses[wh.ID] = &cp
	return nil
}

// Update implements Repository.
func (r *MockRepository) Update(ctx context.Context, wh *Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.warehouses[wh.ID]; !ok {
		return apperror.NewNotFound("warehouse", wh.ID.String())
	}
	cp := *wh
	r.warehouses[wh.ID] = &cp
	return nil
}

// GetByID implements Repository.
func (r *MockRepository) GetByID(ctx context.Context, whID id.ID) (*Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if wh, ok := r.warehouses[whID]; ok {
		cp := *wh
		return &cp, nil
	}
	return nil, apperror.NewNotFound("warehouse", whID.String())
}

// GetByCode implements Repository.
func (r *MockRepository) GetByCode(ctx context.Context, code string) (*Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, wh := range r.warehouses {
		if wh.Code == code {
			cp := *wh
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("warehouse", code)
}

// List implements Repository.
func (r *MockRepository) List(ctx context.Context, activeOnly bool) ([]*Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Warehouse
	for _, wh := range r.warehouses {
		if activeOnly && !wh.IsActive {
			continue
		}
		cp := *wh
		out = append(out, &cp)
	}
	return out, nil
}

// ClearDefault implements Repository.
func (r *MockRepository) ClearDefault(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, wh := range r.warehouses {
		wh.IsDefault = false
	}
	return nil
}

var _ Repository = (*MockRepository)(nil)
