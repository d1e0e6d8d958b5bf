package alerts

import (
	"context"
	"sync"

	"voltstore/internal/core/apperror"
	"voltstore/internal/core/id"
)

// MockRepository is an in-memory alert Repository for unit tests.
type MockRepository struct {
	mu     sync.Mutex
	alerts map[id.ID]*Alert
}

// NewMockRepository creates an empty in-memory repository.
func NewMockRepository() *MockRepository {
	return &MockRepository{alerts: make(map[id.ID]*Alert)}
}

// Create implements Repository.
func (r *MockRepository) Create(ctx context.Context, a *Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.alerts[a.ID] = &cp
	return nil
}

// Update implements Repository.
func (r *MockRepository) Update(ctx context.Context, a *Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.alerts[a.ID]; !ok {
		return apperror.NewNotFound("alert", a.ID.String())
	}
	cp := *a
	r.alerts[a.ID] = &cp
	return nil
}

// GetByID implements Repository.
func (r *MockRepository) GetByID(ctx context.Context, alertID id.ID) (*Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.alerts[alertID]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, apperror.NewNotFound("alert", alertID.String())
}

// GetActive implements Repository.
func (r *MockRepository) GetActive(ctx context.Context, warehouseID, variantID id.ID, t AlertType) (*Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.alerts {
		if a.Status == StatusActive && a.WarehouseID == warehouseID &&
			a.VariantID == variantID && a.AlertType == t {
			cp := *a
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("alert", variantID.String())
}

// ListOpen implements Repository.
func (r *MockRepository) ListOpen(ctx context.Context) ([]*Alert, error) {
	return r.list(func(a *Alert) bool { return a.IsOpen() })
}

// ListOpenForPair implements Repository.
func (r *MockRepository) ListOpenForPair(ctx context.Context, warehouseID, variantID id.ID) ([]*Alert, error) {
	return r.list(func(a *Alert) bool {
		return a.IsOpen() && a.WarehouseID == warehouseID && a.VariantID == variantID
	})
}

// List implements Repository.
func (r *MockRepository) List(ctx context.Context, filter Filter) ([]*Alert, error) {
	return r.list(func(a *Alert) bool {
		if filter.WarehouseID != nil && a.WarehouseID != *filter.WarehouseID {
			return false
		}
		if filter.VariantID != nil && a.VariantID != *filter.VariantID {
			return false
		}
		if filter.Status != nil && a.Status != *filter.Status {
			return false
		}
		if filter.AlertType != nil && a.AlertType != *filter.AlertType {
			return false
		}
		return true
	})
}

func (r *MockRepository) list(match func(*Alert) bool) ([]*Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Alert
	for _, a := range r.alerts {
		if match(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

var _ Repository = (*MockRepository)(nil)

// MockSender records notifications for unit tests.
type MockSender struct {
	mu       sync.Mutex
	Sent     []SentNotification
	FailNext error
}

// SentNotification is one recorded delivery.
type SentNotification struct {
	Recipients []string
	Subject    string
	Body       string
}

// SendAlert implements Sender.
func (s *MockSender) SendAlert(ctx context.Context, recipients []string, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailNext != nil {
		err := s.FailNext
		s.FailNext = nil
		return err
	}
	s.Sent = append(s.Sent, SentNotification{Recipients: recipients, Subject: subject, Body: body})
	return nil
}

var _ Sender = (*MockSender)(nil)
