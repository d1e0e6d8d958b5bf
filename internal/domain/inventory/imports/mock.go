package imports

import (
	"context"
	"sort"
	"sync"

	"voltstore/internal/core/apperror"
	"voltstore/internal/core/id"
)

// MockRepository is an in-memory Repository for unit tests. Implements
// ledger.Snapshotter so MockTxManager can roll it back.
type MockRepository struct {
	mu      sync.Mutex
	imports map[id.ID]*StockImport
}

// NewMockRepository creates an empty in-memory repository.
func NewMockRepository() *MockRepository {
	return &MockRepository{imports: make(map[id.ID]*StockImport)}
}

func cloneImport(imp *StockImport) *StockImport {
	cp := *imp
	cp.Items = make([]*Item, len(imp.Items))
	for i, item := range imp.Items {
		itemCp := *item
		cp.Items[i] = &itemCp
	}
	return &cp
}

// Snapshot captures current state and returns a restore function.
func (r *MockRepository) Snapshot() (restore func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := make(map[id.ID]*StockImport, len(r.imports))
	for k, v := range r.imports {
		snap[k] = cloneImport(v)
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.imports = snap
	}
}

// Create implements Repository.
func (r *MockRepository) Create(ctx context.Context, imp *StockImport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.imports[imp.ID] = cloneImport(imp)
	return nil
}

// GetByID implements Repository.
func (r *MockRepository) GetByID(ctx context.Context, importID id.ID) (*StockImport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if imp, ok := r.imports[importID]; ok {
		return cloneImport(imp), nil
	}
	return nil, apperror.NewNotFound("stock import", importID.String())
}

// GetByIDForUpdate implements Repository. No real locking in memory.
func (r *MockRepository) GetByIDForUpdate(ctx context.Context, importID id.ID) (*StockImport, error) {
	return r.GetByID(ctx, importID)
}

// GetByNumber implements Repository.
func (r *MockRepository) GetByNumber(ctx context.Context, importNumber string) (*StockImport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, imp := range r.imports {
		if imp.ImportNumber == importNumber {
			return cloneImport(imp), nil
		}
	}
	return nil, apperror.NewNotFound("stock import", importNumber)
}

// UpdateHeader implements Repository.
func (r *MockRepository) UpdateHeader(ctx context.Context, imp *StockImport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.imports[imp.ID]
	if !ok {
		return apperror.NewNotFound("stock import", imp.ID.String())
	}
	stored.Status = imp.Status
	stored.ReceivedDate = imp.ReceivedDate
	stored.Notes = imp.Notes
	stored.UpdatedAt = imp.UpdatedAt
	return nil
}

// UpdateItem implements Repository.
func (r *MockRepository) UpdateItem(ctx context.Context, item *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	imp, ok := r.imports[item.ImportID]
	if !ok {
		return apperror.NewNotFound("stock import", item.ImportID.String())
	}
	for _, stored := range imp.Items {
		if stored.ID == item.ID {
			stored.QuantityReceived = item.QuantityReceived
			return nil
		}
	}
	return apperror.NewNotFound("import item", item.ID.String())
}

// List implements Repository.
func (r *MockRepository) List(ctx context.Context, filter Filter) ([]*StockImport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*StockImport
	for _, imp := range r.imports {
		if filter.WarehouseID != nil && imp.WarehouseID != *filter.WarehouseID {
			continue
		}
		if filter.SupplierID != nil && (imp.SupplierID == nil || *imp.SupplierID != *filter.SupplierID) {
			continue
		}
		if filter.Status != nil && imp.Status != *filter.Status {
			continue
		}
		out = append(out, cloneImport(imp))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

var _ Repository = (*MockRepository)(nil)
