package variant

import (
	"context"
	"sync"

	"voltstore/internal/core/apperror"
	"voltstore/internal/core/id"
)

// MockStore is an in-memory Store for unit tests.
type MockStore struct {
	mu       sync.Mutex
	variants map[id.ID]*Variant
}

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{variants: make(map[id.ID]*Variant)}
}

// Put adds or replaces a variant.
func (m *MockStore) Put(v *Variant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *v
	m.variants[v.ID] = &cp
}

// GetVariant implements Store.
func (m *MockStore) GetVariant(ctx context.Context, variantID id.ID) (*Variant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.variants[variantID]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, apperror.NewNotFound("variant", variantID.String())
}

// GetVariantBySKU implements Store.
func (m *MockStore) GetVariantBySKU(ctx context.Context, sku string) (*Variant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.variants {
		if v.SKU == sku {
			cp := *v
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("variant", sku)
}

// ListActive implements Store.
func (m *MockStore) ListActive(ctx context.Context) ([]*Variant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Variant, 0, len(m.variants))
	for _, v := range m.variants {
		if v.IsActive {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

// SetLegacyStock implements Store.
func (m *MockStore) SetLegacyStock(ctx context.Context, variantID id.ID, quantity int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.variants[variantID]
	if !ok {
		return apperror.NewNotFound("variant", variantID.String())
	}
	v.LegacyStock = quantity
	return nil
}

var _ Store = (*MockStore)(nil)
