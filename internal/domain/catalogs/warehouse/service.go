package warehouse

import (
	"context"
	"time"

	"voltstore/internal/core/id"
	"voltstore/internal/core/tx"
	"voltstore/pkg/logger"
)

// Service provides business logic for the Warehouse catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new Warehouse service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// Create validates and stores a new warehouse.
func (s *Service) Create(ctx context.Context, wh *Warehouse) error {
	if err := wh.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(wh.ID) {
		wh.ID = id.New()
	}
	wh.CreatedAt = time.Now()
	wh.UpdatedAt = wh.CreatedAt

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if wh.IsDefault {
			if err := s.repo.ClearDefault(ctx); err != nil {
				return err
			}
		}
		return s.repo.Create(ctx, wh)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "warehouse created", "warehouse_id", wh.ID, "code", wh.Code)
	return nil
}

// Update validates and stores warehouse changes.
func (s *Service) Update(ctx context.Context, wh *Warehouse) error {
	if err := wh.Validate(ctx); err != nil {
		return err
	}
	wh.UpdatedAt = time.Now()

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if wh.IsDefault {
			if err := s.repo.ClearDefault(ctx); err != nil {
				return err
			}
		}
		return s.repo.Update(ctx, wh)
	})
}

// GetByID returns a warehouse by ID.
func (s *Service) GetByID(ctx context.Context, whID id.ID) (*Warehouse, error) {
	return s.repo.GetByID(ctx, whID)
}

// GetByCode returns a warehouse by its code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Warehouse, error) {
	return s.repo.GetByCode(ctx, code)
}

// List returns warehouses, optionally only active ones.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]*Warehouse, error) {
	return s.repo.List(ctx, activeOnly)
}
