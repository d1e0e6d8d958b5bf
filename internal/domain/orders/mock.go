package orders

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
	mu     sync.Mutex
	orders map[id.ID]*Order
}

// NewMockRepository creates an empty in-memory repository.
func NewMockRepository() *MockRepository {
	return &MockRepository{orders: make(map[id.ID]*Order)}
}

func cloneOrder(order *Order) *Order {
	cp := *order
	cp.Items = make([]*Item, len(order.Items))
	for i, item := range order.Items {
		itemCp := *item
		cp.Items[i] = &itemCp
	}
	return &cp
}

// Snapshot captures current state and returns a restore function.
func (r *MockRepository) Snapshot() (restore func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := make(map[id.ID]*Order, len(r.orders))
	for k, v := range r.orders {
		snap[k] = cloneOrder(v)
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.orders = snap
	}
}

// Create implements Repository.
func (r *MockRepository) Create(ctx context.Context, order *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = cloneOrder(order)
	return nil
}

// GetByID implements Repository.
func (r *MockRepository) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order, ok := r.orders[orderID]; ok {
		return cloneOrder(order), nil
	}
	return nil, apperror.NewNotFound("order", orderID.String())
}

// GetByIDForUpdate implements Repository. No real locking in memory.
func (r *MockRepository) GetByIDForUpdate(ctx context.Context, orderID id.ID) (*Order, error) {
	return r.GetByID(ctx, orderID)
}

// GetByNumber implements Repository.
func (r *MockRepository) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.OrderNumber == orderNumber {
			return cloneOrder(order), nil
		}
	}
	return nil, apperror.NewNotFound("order", orderNumber)
}

// UpdateStatus implements Repository.
func (r *MockRepository) UpdateStatus(ctx context.Context, order *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[order.ID]
	if !ok {
		return apperror.NewNotFound("order", order.ID.String())
	}
	stored.Status = order.Status
	stored.CancelledAt = order.CancelledAt
	stored.UpdatedAt = order.UpdatedAt
	return nil
}

// List implements Repository.
func (r *MockRepository) List(ctx context.Context, filter Filter) ([]*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Order
	for _, order := range r.orders {
		if filter.UserID != nil && (order.UserID == nil || *order.UserID != *filter.UserID) {
			continue
		}
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		out = append(out, cloneOrder(order))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

var _ Repository = (*MockRepository)(nil)
