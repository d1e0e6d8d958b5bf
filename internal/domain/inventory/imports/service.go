package imports

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
	"voltstore/internal/domain/catalogs/warehouse"
	"voltstore/internal/domain/inventory/ledger"
	"voltstore/pkg/logger"
)

// CreateRequest describes a new stock import.
type CreateRequest struct {
	WarehouseID  id.ID
	SupplierID   *id.ID
	ExpectedDate *time.Time
	Notes        string
	Items        []CreateItem
}

// CreateItem is one ordered line in a CreateRequest.
type CreateItem struct {
	VariantID       id.ID
	QuantityOrdered int64
	UnitCost        types.Money
}

// ReceiptLine is one received batch for an import item.
type ReceiptLine struct {
	ItemID   id.ID
	Quantity int64
}

// Service owns the import workflow: creation, receipt batches and
// cancellation. Receipts delegate per-line quantity application to the
// ledger engine inside one shared transaction.
type Service struct {
	repo       Repository
	engine     *ledger.Engine
	warehouses warehouse.Repository
	variants   variant.Store
	txManager  tx.Manager
	numerator  numerator.Generator
	auditor    audit.Recorder
}

// NewService creates an import workflow service.
func NewService(
	repo Repository,
	engine *ledger.Engine,
	warehouses warehouse.Repository,
	variants variant.Store,
	txManager tx.Manager,
	num numerator.Generator,
	auditor audit.Recorder,
) *Service {
	return &Service{
		repo:       repo,
		engine:     engine,
		warehouses: warehouses,
		variants:   variants,
		txManager:  txManager,
		numerator:  num,
		auditor:    auditor,
	}
}

// Create validates and stores a new PENDING import. The header total is
// fixed here from ordered quantities and never recomputed.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*StockImport, error) {
	if len(req.Items) == 0 {
		return nil, apperror.NewValidation("import requires at least one item")
	}

	wh, err := s.warehouses.GetByID(ctx, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	if !wh.CanAcceptStock() {
		return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule,
			fmt.Sprintf("warehouse %s cannot accept stock", wh.Code))
	}

	now := time.Now()
	imp := &StockImport{
		ID:           id.New(),
		WarehouseID:  req.WarehouseID,
		SupplierID:   req.SupplierID,
		Status:       StatusPending,
		TotalCost:    types.ZeroMoney(),
		Notes:        req.Notes,
		ExpectedDate: req.ExpectedDate,
		CreatedBy:    actor(ctx),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	for i, line := range req.Items {
		if line.QuantityOrdered < 1 {
			return nil, apperror.NewValidation(
				fmt.Sprintf("item %d: quantity ordered must be at least 1", i))
		}
		if line.UnitCost.IsNegative() {
			return nil, apperror.NewValidation(
				fmt.Sprintf("item %d: unit cost must not be negative", i))
		}
		if _, err := s.variants.GetVariant(ctx, line.VariantID); err != nil {
			return nil, err
		}

		lineTotal := types.LineTotal(line.UnitCost, line.QuantityOrdered)
		imp.Items = append(imp.Items, &Item{
			ID:              id.New(),
			ImportID:        imp.ID,
			VariantID:       line.VariantID,
			QuantityOrdered: line.QuantityOrdered,
			UnitCost:        line.UnitCost,
			TotalCost:       lineTotal,
		})
		imp.TotalCost = imp.TotalCost.Add(lineTotal)
	}

	number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("IMP"), nil, now)
	if err != nil {
		return nil, fmt.Errorf("import number: %w", err)
	}
	imp.ImportNumber = number

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, imp)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock import created",
		"import_number", imp.ImportNumber, "warehouse_id", imp.WarehouseID,
		"items", len(imp.Items), "total_cost", imp.TotalCost)
	s.recordAudit(ctx, imp, "created")

	return imp, nil
}

// Receive applies one batch of received quantities. The whole batch is
// atomic: any over-receipt or ledger failure rolls back every line.
// Import status is recomputed after the batch.
func (s *Service) Receive(ctx context.Context, importID id.ID, receipts []ReceiptLine) (*StockImport, error) {
	if len(receipts) == 0 {
		return nil, apperror.NewValidation("receipt requires at least one line")
	}

	var imp *StockImport
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		imp, err = s.repo.GetByIDForUpdate(ctx, importID)
		if err != nil {
			return err
		}

		if imp.Status == StatusReceived {
			return apperror.NewAlreadyReceived(imp.ImportNumber)
		}
		if imp.Status == StatusCancelled {
			return apperror.NewBusinessRule(apperror.CodeBusinessRule,
				"cannot receive against a cancelled import")
		}

		items := make(map[id.ID]*Item, len(imp.Items))
		for _, item := range imp.Items {
			items[item.ID] = item
		}

		for i, line := range receipts {
			if line.Quantity <= 0 {
				return apperror.NewValidation(
					fmt.Sprintf("receipt line %d: quantity must be positive", i))
			}

			item, ok := items[line.ItemID]
			if !ok {
				return apperror.NewNotFound("import item", line.ItemID.String())
			}

			if line.Quantity > item.Remaining() {
				return apperror.NewOverReceipt(item.ID.String(), line.Quantity, item.Remaining())
			}

			item.QuantityReceived += line.Quantity
			if err := s.repo.UpdateItem(ctx, item); err != nil {
				return fmt.Errorf("update item: %w", err)
			}

			if _, err := s.engine.ReceiveStock(ctx, imp.WarehouseID, item.VariantID,
				line.Quantity, imp.ImportNumber); err != nil {
				return err
			}
		}

		now := time.Now()
		if imp.ReceivedDate == nil {
			imp.ReceivedDate = &now
		}
		if imp.AllComplete() {
			imp.Status = StatusReceived
		} else {
			imp.Status = StatusPartiallyReceived
		}
		imp.UpdatedAt = now

		return s.repo.UpdateHeader(ctx, imp)
	})
	if err != nil {
		return nil, err
	}

	// This service owned the transaction, so the post-commit alert
	// re-evaluation is its responsibility.
	seen := make(map[id.ID]bool, len(receipts))
	for _, item := range imp.Items {
		if seen[item.VariantID] {
			continue
		}
		seen[item.VariantID] = true
		s.engine.FireAlertReevaluation(ctx, imp.WarehouseID, item.VariantID)
	}

	logger.Info(ctx, "stock import received",
		"import_number", imp.ImportNumber, "status", imp.Status, "lines", len(receipts))
	s.recordAudit(ctx, imp, "received")

	return imp, nil
}

// Cancel moves a PENDING import to CANCELLED. Imports with any received
// quantity cannot be cancelled.
func (s *Service) Cancel(ctx context.Context, importID id.ID) (*StockImport, error) {
	var imp *StockImport
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		imp, err = s.repo.GetByIDForUpdate(ctx, importID)
		if err != nil {
			return err
		}

		if imp.Status != StatusPending {
			return apperror.NewBusinessRule(apperror.CodeBusinessRule,
				fmt.Sprintf("cannot cancel import in status %s", imp.Status))
		}

		imp.Status = StatusCancelled
		imp.UpdatedAt = time.Now()
		return s.repo.UpdateHeader(ctx, imp)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock import cancelled", "import_number", imp.ImportNumber)
	s.recordAudit(ctx, imp, "cancelled")

	return imp, nil
}

// GetByID returns one import with items.
func (s *Service) GetByID(ctx context.Context, importID id.ID) (*StockImport, error) {
	return s.repo.GetByID(ctx, importID)
}

// GetByNumber returns one import with items by document number.
func (s *Service) GetByNumber(ctx context.Context, importNumber string) (*StockImport, error) {
	return s.repo.GetByNumber(ctx, importNumber)
}

// List returns imports matching the filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]*StockImport, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) recordAudit(ctx context.Context, imp *StockImport, action string) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.Record(ctx, audit.Event{
		Entity:   "stock_import",
		EntityID: imp.ID.String(),
		Action:   action,
		Actor:    appctx.GetUserID(ctx),
		Payload:  imp,
	})
	if err != nil {
		logger.Warn(ctx, "audit record failed",
			"import_number", imp.ImportNumber, "action", action, "error", err)
	}
}

func actor(ctx context.Context) *id.ID {
	userID := appctx.GetUserID(ctx)
	if userID == "" {
		return nil
	}
	uid, err := id.Parse(userID)
	if err != nil {
		return nil
	}
	return &uid
}
