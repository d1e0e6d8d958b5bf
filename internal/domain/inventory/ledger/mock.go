package ledger

import (
	"context"
	"sort"
	"sync"

	"voltstore/internal/core/apperror"
	"voltstore/internal/core/id"
	"voltstore/internal/core/tx"
)

// MockRepository is an in-memory Repository for unit tests.
// Use with MockTxManager to get rollback-on-error semantics.
type MockRepository struct {
	mu        sync.Mutex
	entries   map[pairKey]*Entry
	movements []*Movement
}

type pairKey struct {
	warehouseID id.ID
	variantID   id.ID
}

// NewMockRepository creates an empty in-memory repository.
func NewMockRepository() *MockRepository {
	return &MockRepository{entries: make(map[pairKey]*Entry)}
}

type mockSnapshot struct {
	entries   map[pairKey]*Entry
	movements []*Movement
}

func (r *MockRepository) snapshot() *mockSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := &mockSnapshot{
		entries:   make(map[pairKey]*Entry, len(r.entries)),
		movements: make([]*Movement, len(r.movements)),
	}
	for k, v := range r.entries {
		cp := *v
		snap.entries[k] = &cp
	}
	copy(snap.movements, r.movements)
	return snap
}

func (r *MockRepository) restore(snap *mockSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = snap.entries
	r.movements = snap.movements
}

// Get implements Repository.
func (r *MockRepository) Get(ctx context.Context, warehouseID, variantID id.ID) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[pairKey{warehouseID, variantID}]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, apperror.NewNotFound("ledger entry", variantID.String())
}

// GetForUpdate implements Repository. No real locking in memory.
func (r *MockRepository) GetForUpdate(ctx context.Context, warehouseID, variantID id.ID) (*Entry, error) {
	return r.Get(ctx, warehouseID, variantID)
}

// Create implements Repository.
func (r *MockRepository) Create(ctx context.Context, entry *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey{entry.WarehouseID, entry.VariantID}
	if _, exists := r.entries[key]; exists {
		return apperror.NewDuplicate("ledger entry", "variant_id", entry.VariantID.String())
	}
	cp := *entry
	r.entries[key] = &cp
	return nil
}

// UpdateQuantities implements Repository.
func (r *MockRepository) UpdateQuantities(ctx context.Context, entry *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey{entry.WarehouseID, entry.VariantID}
	stored, ok := r.entries[key]
	if !ok {
		return apperror.NewNotFound("ledger entry", entry.VariantID.String())
	}
	stored.Quantity = entry.Quantity
	stored.ReservedQuantity = entry.ReservedQuantity
	stored.LowStockThreshold = entry.LowStockThreshold
	stored.LastRestockedAt = entry.LastRestockedAt
	stored.UpdatedAt = entry.UpdatedAt
	return nil
}

// ListByWarehouse implements Repository.
func (r *MockRepository) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*Entry, error) {
	return r.list(func(e *Entry) bool { return e.WarehouseID == warehouseID })
}

// ListLowStock implements Repository.
func (r *MockRepository) ListLowStock(ctx context.Context) ([]*Entry, error) {
	return r.list(func(e *Entry) bool { return e.IsLowStock() })
}

// ListOutOfStock implements Repository.
func (r *MockRepository) ListOutOfStock(ctx context.Context) ([]*Entry, error) {
	return r.list(func(e *Entry) bool { return e.IsOutOfStock() })
}

// ListAll implements Repository.
func (r *MockRepository) ListAll(ctx context.Context) ([]*Entry, error) {
	return r.list(func(e *Entry) bool { return true })
}

func (r *MockRepository) list(match func(*Entry) bool) ([]*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Entry
	for _, e := range r.entries {
		if match(e) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// AppendMovement implements Repository.
func (r *MockRepository) AppendMovement(ctx context.Context, m *Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.movements = append(r.movements, &cp)
	return nil
}

// Movements implements Repository.
func (r *MockRepository) Movements(ctx context.Context, filter MovementFilter) ([]*Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Movement
	for _, m := range r.movements {
		if filter.WarehouseID != nil && m.WarehouseID != *filter.WarehouseID {
			continue
		}
		if filter.VariantID != nil && m.VariantID != *filter.VariantID {
			continue
		}
		if filter.Type != nil && m.Type != *filter.Type {
			continue
		}
		if filter.Reference != nil && m.Reference != *filter.Reference {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

// MovementsTotal implements Repository.
func (r *MockRepository) MovementsTotal(ctx context.Context, warehouseID, variantID id.ID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, m := range r.movements {
		if m.WarehouseID == warehouseID && m.VariantID == variantID {
			total += m.Delta
		}
	}
	return total, nil
}

var _ Repository = (*MockRepository)(nil)

// Snapshot captures current state and returns a restore function.
// Lets MockTxManager roll back other in-memory stores too.
func (r *MockRepository) Snapshot() (restore func()) {
	snap := r.snapshot()
	return func() { r.restore(snap) }
}

// Snapshotter is implemented by in-memory stores that participate in
// MockTxManager rollback.
type Snapshotter interface {
	Snapshot() (restore func())
}

// MockTxManager is a tx.Manager for unit tests. The outermost transaction
// snapshots the attached stores and restores them when fn fails, matching
// real rollback behavior closely enough for service tests.
type MockTxManager struct {
	Repo  *MockRepository
	Extra []Snapshotter
}

type mockTxKey struct{}

// RunInTransaction implements tx.Manager.
func (m *MockTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.InTransaction(ctx) {
		return fn(ctx)
	}

	var restores []func()
	if m.Repo != nil {
		restores = append(restores, m.Repo.Snapshot())
	}
	for _, s := range m.Extra {
		restores = append(restores, s.Snapshot())
	}

	err := fn(context.WithValue(ctx, mockTxKey{}, true))
	if err != nil {
		for _, restore := range restores {
			restore()
		}
	}
	return err
}

// InTransaction implements tx.Manager.
func (m *MockTxManager) InTransaction(ctx context.Context) bool {
	v, _ := ctx.Value(mockTxKey{}).(bool)
	return v
}

var _ tx.Manager = (*MockTxManager)(nil)
