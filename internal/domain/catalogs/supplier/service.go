package supplier

import (
	"context"
	"time"

	"voltstore/internal/core/id"
	"voltstore/pkg/logger"
)

// Service provides business logic for the Supplier catalog.
type Service struct {
	repo Repository
}

// NewService creates a new Supplier service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a new supplier.
func (s *Service) Create(ctx context.Context, sup *Supplier) error {
	if err := sup.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(sup.ID) {
		sup.ID = id.New()
	}
	sup.CreatedAt = time.Now()
	sup.UpdatedAt = sup.CreatedAt

	if err := s.repo.Create(ctx, sup); err != nil {
		return err
	}

	logger.Info(ctx, "supplier created", "supplier_id", sup.ID, "name", sup.Name)
	return nil
}

// Update validates and stores supplier changes.
func (s *Service) Update(ctx context.Context, sup *Supplier) error {
	if err := sup.Validate(ctx); err != nil {
		return err
	}
	sup.UpdatedAt = time.Now()
	return s.repo.Update(ctx, sup)
}

// GetByID returns a supplier by ID.
func (s *Service) GetByID(ctx context.Context, supID id.ID) (*Supplier, error) {
	return s.repo.GetByID(ctx, supID)
}

// List returns suppliers, optionally only active ones.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]*Supplier, error) {
	return s.repo.List(ctx, activeOnly)
}
