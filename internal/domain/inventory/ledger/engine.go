package ledger

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"voltstore/internal/core/apperror"
	appctx "voltstore/internal/core/context"
	"voltstore/internal/core/id"
	"voltstore/internal/core/numerator"
	"voltstore/internal/core/tx"
	"voltstore/internal/domain/catalogs/variant"
	"voltstore/pkg/logger"
)

// AlertHook is invoked after a committed mutation so alert state can be
// re-evaluated on the fresh quantities. It must not block on external I/O.
type AlertHook func(ctx context.Context, warehouseID, variantID id.ID)

// Engine executes every ledger-mutating operation. Each operation runs as
// one atomic transaction over the entry and its movement record, serialized
// per (warehouse, variant) pair via row-level locks.
type Engine struct {
	repo      Repository
	variants  variant.Store
	txManager tx.Manager
	numerator numerator.Generator

	hook AlertHook
}

// NewEngine creates a ledger engine.
func NewEngine(repo Repository, variants variant.Store, txManager tx.Manager, num numerator.Generator) *Engine {
	return &Engine{
		repo:      repo,
		variants:  variants,
		txManager: txManager,
		numerator: num,
	}
}

// SetAlertHook installs the post-commit re-evaluation hook.
// Wired at startup; not safe to change while operations run.
func (e *Engine) SetAlertHook(hook AlertHook) {
	e.hook = hook
}

// FireAlertReevaluation invokes the alert hook for a pair. Callers that own
// an outer transaction call this themselves after commit.
func (e *Engine) FireAlertReevaluation(ctx context.Context, warehouseID, variantID id.ID) {
	if e.hook != nil {
		e.hook(ctx, warehouseID, variantID)
	}
}

// Adjust applies a signed quantity delta to a pair and appends an
// ADJUSTMENT movement. Rejects deltas that would drive quantity below zero.
func (e *Engine) Adjust(ctx context.Context, warehouseID, variantID id.ID, delta int64, reason string) (*Entry, error) {
	if delta == 0 {
		return nil, apperror.NewValidation("adjustment delta must be non-zero")
	}

	var entry *Entry
	ownsTx := !e.txManager.InTransaction(ctx)

	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		entry, err = e.lockOrCreate(ctx, warehouseID, variantID, false)
		if err != nil {
			return err
		}

		if entry.Quantity+delta < 0 {
			return apperror.NewInsufficientStock(variantID.String(), -delta, entry.Quantity)
		}

		return e.apply(ctx, entry, MovementAdjustment, delta, "", reason)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock adjusted",
		"warehouse_id", warehouseID, "variant_id", variantID, "delta", delta)

	if ownsTx {
		e.FireAlertReevaluation(ctx, warehouseID, variantID)
	}
	return entry, nil
}

// RecordDamage writes off damaged goods and appends a DAMAGED movement.
func (e *Engine) RecordDamage(ctx context.Context, warehouseID, variantID id.ID, quantity int64, notes string) (*Entry, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidation("damage quantity must be positive")
	}

	var entry *Entry
	ownsTx := !e.txManager.InTransaction(ctx)

	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		entry, err = e.lockOrCreate(ctx, warehouseID, variantID, false)
		if err != nil {
			return err
		}

		if entry.Quantity-quantity < 0 {
			return apperror.NewInsufficientStock(variantID.String(), quantity, entry.Quantity)
		}

		return e.apply(ctx, entry, MovementDamaged, -quantity, "", notes)
	})
	if err != nil {
		return nil, err
	}

	if ownsTx {
		e.FireAlertReevaluation(ctx, warehouseID, variantID)
	}
	return entry, nil
}

// Transfer moves quantity between warehouses for one variant. Both entries
// change atomically; two TRANSFER movements share one reference number.
func (e *Engine) Transfer(ctx context.Context, sourceWarehouseID, targetWarehouseID, variantID id.ID, quantity int64) (*Entry, *Entry, error) {
	if quantity <= 0 {
		return nil, nil, apperror.NewValidation("transfer quantity must be positive")
	}
	if sourceWarehouseID == targetWarehouseID {
		return nil, nil, apperror.NewValidation("source and target warehouse must differ")
	}

	reference, err := e.numerator.GetNextNumber(ctx, numerator.DefaultConfig("TRF"),
		&numerator.Options{Strategy: numerator.StrategyCached}, time.Now())
	if err != nil {
		return nil, nil, fmt.Errorf("transfer reference: %w", err)
	}

	var source, target *Entry
	ownsTx := !e.txManager.InTransaction(ctx)

	err = e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		// Lock rows in a fixed global order to avoid deadlock between
		// two transfers running in opposite directions.
		first, second := sourceWarehouseID, targetWarehouseID
		if bytes.Compare(second[:], first[:]) < 0 {
			first, second = second, first
		}

		locked := make(map[id.ID]*Entry, 2)
		for _, whID := range []id.ID{first, second} {
			entry, err := e.lockOrCreate(ctx, whID, variantID, false)
			if err != nil {
				return err
			}
			locked[whID] = entry
		}
		source = locked[sourceWarehouseID]
		target = locked[targetWarehouseID]

		if source.AvailableQuantity() < quantity {
			return apperror.NewInsufficientStock(variantID.String(), quantity, source.AvailableQuantity())
		}

		if err := e.apply(ctx, source, MovementTransfer, -quantity, reference, ""); err != nil {
			return err
		}
		return e.apply(ctx, target, MovementTransfer, quantity, reference, "")
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info(ctx, "stock transferred",
		"reference", reference,
		"source_warehouse_id", sourceWarehouseID,
		"target_warehouse_id", targetWarehouseID,
		"variant_id", variantID, "quantity", quantity)

	if ownsTx {
		e.FireAlertReevaluation(ctx, sourceWarehouseID, variantID)
		e.FireAlertReevaluation(ctx, targetWarehouseID, variantID)
	}
	return source, target, nil
}

// ReceiveStock books received import quantity into a pair, stamps
// last_restocked_at and appends an IMPORT movement. The import workflow
// calls this inside its own transaction.
func (e *Engine) ReceiveStock(ctx context.Context, warehouseID, variantID id.ID, quantity int64, importNumber string) (*Entry, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidation("received quantity must be positive")
	}

	var entry *Entry
	ownsTx := !e.txManager.InTransaction(ctx)

	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		entry, err = e.lockOrCreate(ctx, warehouseID, variantID, false)
		if err != nil {
			return err
		}

		now := time.Now()
		entry.LastRestockedAt = &now
		return e.apply(ctx, entry, MovementImport, quantity, importNumber, "")
	})
	if err != nil {
		return nil, err
	}

	if ownsTx {
		e.FireAlertReevaluation(ctx, warehouseID, variantID)
	}
	return entry, nil
}

// ConsumeForOrder decrements on-hand quantity at order creation and appends
// a SALE movement. Availability is checked against the variant's visible
// stock: if no real entry exists yet, the legacy variant counter seeds one.
func (e *Engine) ConsumeForOrder(ctx context.Context, warehouseID, variantID id.ID, quantity int64, orderNumber string) (*Entry, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidation("consume quantity must be positive")
	}

	var entry *Entry
	ownsTx := !e.txManager.InTransaction(ctx)

	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		entry, err = e.lockOrCreate(ctx, warehouseID, variantID, true)
		if err != nil {
			return err
		}

		if entry.AvailableQuantity() < quantity {
			return apperror.NewInsufficientStock(variantID.String(), quantity, entry.AvailableQuantity())
		}

		return e.apply(ctx, entry, MovementSale, -quantity, orderNumber, "")
	})
	if err != nil {
		return nil, err
	}

	if ownsTx {
		e.FireAlertReevaluation(ctx, warehouseID, variantID)
	}
	return entry, nil
}

// RestoreForCancel returns consumed quantity after an order cancellation
// and appends a RETURN movement. Callers must invoke it at most once per
// cancelled line; the engine does not track prior restores.
func (e *Engine) RestoreForCancel(ctx context.Context, warehouseID, variantID id.ID, quantity int64, orderNumber string) (*Entry, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidation("restore quantity must be positive")
	}

	var entry *Entry
	ownsTx := !e.txManager.InTransaction(ctx)

	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		entry, err = e.lockOrCreate(ctx, warehouseID, variantID, false)
		if err != nil {
			return err
		}
		return e.apply(ctx, entry, MovementReturn, quantity, orderNumber, "")
	})
	if err != nil {
		return nil, err
	}

	if ownsTx {
		e.FireAlertReevaluation(ctx, warehouseID, variantID)
	}
	return entry, nil
}

// --- Reads ---

// GetEntry returns the ledger entry for a pair. When no real entry exists
// but the variant carries a legacy on-hand count, a read-only synthetic
// entry is returned instead. The synthetic entry is never persisted.
func (e *Engine) GetEntry(ctx context.Context, warehouseID, variantID id.ID) (*Entry, error) {
	entry, err := e.repo.Get(ctx, warehouseID, variantID)
	if err == nil {
		return entry, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	v, verr := e.variants.GetVariant(ctx, variantID)
	if verr != nil {
		return nil, verr
	}

	now := time.Now()
	return &Entry{
		WarehouseID:       warehouseID,
		VariantID:         variantID,
		Quantity:          v.LegacyStock,
		LowStockThreshold: DefaultLowStockThreshold,
		Synthetic:         true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// ListByWarehouse returns all entries for a warehouse.
func (e *Engine) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*Entry, error) {
	return e.repo.ListByWarehouse(ctx, warehouseID)
}

// ListLowStock returns entries at or below their threshold.
func (e *Engine) ListLowStock(ctx context.Context) ([]*Entry, error) {
	return e.repo.ListLowStock(ctx)
}

// ListOutOfStock returns entries with zero available quantity.
func (e *Engine) ListOutOfStock(ctx context.Context) ([]*Entry, error) {
	return e.repo.ListOutOfStock(ctx)
}

// Movements returns movement log records matching the filter.
func (e *Engine) Movements(ctx context.Context, filter MovementFilter) ([]*Movement, error) {
	return e.repo.Movements(ctx, filter)
}

// Reconcile compares an entry's quantity against the sum of its movement
// deltas. The two values are equal when the ledger is consistent.
func (e *Engine) Reconcile(ctx context.Context, warehouseID, variantID id.ID) (ledgerQty, movementSum int64, err error) {
	entry, err := e.repo.Get(ctx, warehouseID, variantID)
	if err != nil {
		return 0, 0, err
	}
	sum, err := e.repo.MovementsTotal(ctx, warehouseID, variantID)
	if err != nil {
		return 0, 0, err
	}
	return entry.Quantity, sum, nil
}

// --- Internals ---

// lockOrCreate locks the entry row for a pair, creating a fresh row when
// none exists. With seedLegacy set, a new row absorbs the variant's legacy
// counter through an opening-balance adjustment so the movement log stays
// reconcilable, and the legacy counter is zeroed.
func (e *Engine) lockOrCreate(ctx context.Context, warehouseID, variantID id.ID, seedLegacy bool) (*Entry, error) {
	entry, err := e.repo.GetForUpdate(ctx, warehouseID, variantID)
	if err == nil {
		return entry, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	v, err := e.variants.GetVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entry = &Entry{
		ID:                id.New(),
		WarehouseID:       warehouseID,
		VariantID:         variantID,
		LowStockThreshold: DefaultLowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if seedLegacy && v.LegacyStock > 0 {
		entry.Quantity = v.LegacyStock
	}

	if err := e.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	if entry.Quantity > 0 {
		m := &Movement{
			ID:          id.New(),
			WarehouseID: warehouseID,
			VariantID:   variantID,
			Type:        MovementAdjustment,
			Delta:       entry.Quantity,
			Notes:       "opening balance from legacy variant stock",
			CreatedBy:   actor(ctx),
			CreatedAt:   now,
		}
		if err := e.repo.AppendMovement(ctx, m); err != nil {
			return nil, err
		}
		if err := e.variants.SetLegacyStock(ctx, variantID, 0); err != nil {
			return nil, err
		}
	}

	return entry, nil
}

// apply mutates the entry quantity and appends the matching movement as
// one unit. Must run inside the operation's transaction.
func (e *Engine) apply(ctx context.Context, entry *Entry, mtype MovementType, delta int64, reference, notes string) error {
	entry.Quantity += delta
	entry.UpdatedAt = time.Now()

	if err := e.repo.UpdateQuantities(ctx, entry); err != nil {
		return fmt.Errorf("update entry: %w", err)
	}

	m := &Movement{
		ID:          id.New(),
		WarehouseID: entry.WarehouseID,
		VariantID:   entry.VariantID,
		Type:        mtype,
		Delta:       delta,
		Reference:   reference,
		Notes:       notes,
		CreatedBy:   actor(ctx),
		CreatedAt:   entry.UpdatedAt,
	}
	if err := e.repo.AppendMovement(ctx, m); err != nil {
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

// actor extracts the acting user from context, nil for system actions.
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
