package orders

import (
	"context"
	"fmt"
	"time"

	"voltstore/internal/core/apperror"
	"voltstore/internal/core/audit"
	appctx "voltstore/internal/core/context"
	"voltstore/internal/core/id"
	"voltstore/internal/core/numerator"
	"voltstore/internal/core/tx"
	"voltstore/internal/core/types"
	"voltstore/internal/domain/catalogs/variant"
	"voltstore/internal/domain/inventory/ledger"
	"voltstore/pkg/logger"
)

// DefaultTaxRate is the sales tax percentage applied to the subtotal.
var DefaultTaxRate = types.MustMoney("8")

// CreateRequest describes a new order.
type CreateRequest struct {
	UserID *id.ID
	Notes  string
	Items  []CreateItem
}

// CreateItem is one requested line in a CreateRequest.
type CreateItem struct {
	VariantID id.ID
	Quantity  int64
}

// Service owns the order workflow. Orders consume stock from the
// configured default warehouse at creation and restore it on cancellation.
type Service struct {
	repo      Repository
	engine    *ledger.Engine
	variants  variant.Store
	txManager tx.Manager
	numerator numerator.Generator
	auditor   audit.Recorder

	// defaultWarehouseID is explicit configuration, never re-derived by
	// name matching at call sites.
	defaultWarehouseID id.ID

	taxRate types.Money
}

// NewService creates an order service fulfilling from defaultWarehouseID.
func NewService(
	repo Repository,
	engine *ledger.Engine,
	variants variant.Store,
	txManager tx.Manager,
	num numerator.Generator,
	auditor audit.Recorder,
	defaultWarehouseID id.ID,
) *Service {
	return &Service{
		repo:               repo,
		engine:             engine,
		variants:           variants,
		txManager:          txManager,
		numerator:          num,
		auditor:            auditor,
		defaultWarehouseID: defaultWarehouseID,
		taxRate:            DefaultTaxRate,
	}
}

// Create validates the request, consumes stock for every line and stores
// the order atomically. Any shortage rolls back the whole order.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, apperror.NewValidation("order requires at least one item")
	}

	now := time.Now()
	number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("ORD"),
		&numerator.Options{Strategy: numerator.StrategyCached}, now)
	if err != nil {
		return nil, fmt.Errorf("order number: %w", err)
	}

	order := &Order{
		ID:          id.New(),
		OrderNumber: number,
		UserID:      req.UserID,
		WarehouseID: s.defaultWarehouseID,
		Status:      StatusPending,
		Subtotal:    types.ZeroMoney(),
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for i, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, apperror.NewValidation(
				fmt.Sprintf("item %d: quantity must be positive", i))
		}

		v, err := s.variants.GetVariant(ctx, line.VariantID)
		if err != nil {
			return nil, err
		}
		if !v.IsActive {
			return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule,
				fmt.Sprintf("variant %s is not available for sale", v.SKU))
		}

		lineTotal := types.LineTotal(v.Price, line.Quantity)
		order.Items = append(order.Items, &Item{
			ID:         id.New(),
			OrderID:    order.ID,
			VariantID:  v.ID,
			SKU:        v.SKU,
			Quantity:   line.Quantity,
			UnitPrice:  v.Price,
			TotalPrice: lineTotal,
		})
		order.Subtotal = order.Subtotal.Add(lineTotal)
	}

	order.TaxAmount = types.Percentage(order.Subtotal, s.taxRate)
	order.TotalAmount = order.Subtotal.Add(order.TaxAmount)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, item := range order.Items {
			if _, err := s.engine.ConsumeForOrder(ctx, order.WarehouseID,
				item.VariantID, item.Quantity, order.OrderNumber); err != nil {
				return err
			}
		}
		return s.repo.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	for _, item := range order.Items {
		s.engine.FireAlertReevaluation(ctx, order.WarehouseID, item.VariantID)
	}

	logger.Info(ctx, "order created",
		"order_number", order.OrderNumber, "items", len(order.Items),
		"total", order.TotalAmount)
	s.recordAudit(ctx, order, "created")

	return order, nil
}

// Cancel moves the order to CANCELLED and restores every line's quantity.
// The status transition guard makes the restore run at most once.
func (s *Service) Cancel(ctx context.Context, orderID id.ID) (*Order, error) {
	var order *Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.repo.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		if !order.CanCancel() {
			return apperror.NewBusinessRule(apperror.CodeBusinessRule,
				fmt.Sprintf("cannot cancel order in status %s", order.Status))
		}

		now := time.Now()
		order.Status = StatusCancelled
		order.CancelledAt = &now
		order.UpdatedAt = now
		if err := s.repo.UpdateStatus(ctx, order); err != nil {
			return err
		}

		for _, item := range order.Items {
			if _, err := s.engine.RestoreForCancel(ctx, order.WarehouseID,
				item.VariantID, item.Quantity, order.OrderNumber); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, item := range order.Items {
		s.engine.FireAlertReevaluation(ctx, order.WarehouseID, item.VariantID)
	}

	logger.Info(ctx, "order cancelled", "order_number", order.OrderNumber)
	s.recordAudit(ctx, order, "cancelled")

	return order, nil
}

// UpdateStatus applies a forward-only status transition. Cancellation must
// go through Cancel so stock is restored.
func (s *Service) UpdateStatus(ctx context.Context, orderID id.ID, next OrderStatus) (*Order, error) {
	if next == StatusCancelled {
		return nil, apperror.NewValidation("use the cancel operation to cancel an order")
	}

	var order *Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.repo.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		if !CanTransition(order.Status, next) {
			return apperror.NewBusinessRule(apperror.CodeBusinessRule,
				fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
		}

		order.Status = next
		order.UpdatedAt = time.Now()
		return s.repo.UpdateStatus(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order status updated",
		"order_number", order.OrderNumber, "status", order.Status)
	return order, nil
}

// GetByID returns one order with items.
func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

// GetByNumber returns one order with items by document number.
func (s *Service) GetByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return s.repo.GetByNumber(ctx, orderNumber)
}

// List returns orders matching the filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]*Order, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) recordAudit(ctx context.Context, order *Order, action string) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.Record(ctx, audit.Event{
		Entity:   "order",
		EntityID: order.ID.String(),
		Action:   action,
		Actor:    appctx.GetUserID(ctx),
		Payload:  order,
	})
	if err != nil {
		logger.Warn(ctx, "audit record failed",
			"order_number", order.OrderNumber, "action", action, "error", err)
	}
}
