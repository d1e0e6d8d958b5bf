// Package inventory_repo provides PostgreSQL implementations for inventory
// repositories.
package inventory_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"voltstore/internal/core/apperror"
	"voltstore/internal/core/id"
	"voltstore/internal/domain/inventory/ledger"
	"voltstore/internal/infrastructure/storage/postgres"
)

const (
	stockEntriesTable   = "inv_stock_entries"
	stockMovementsTable = "inv_stock_movements"
)

var entryColumns = []string{
	"id", "warehouse_id", "variant_id",
	"quantity", "reserved_quantity", "low_stock_threshold",
	"last_restocked_at", "created_at", "updated_at",
}

var movementColumns = []string{
	"id", "warehouse_id", "variant_id", "type", "delta",
	"reference", "notes", "created_by", "created_at",
}

// LedgerRepo implements ledger.Repository.
type LedgerRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewLedgerRepo creates a new stock ledger repository.
func NewLedgerRepo(txManager *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Get returns the entry for a pair.
func (r *LedgerRepo) Get(ctx context.Context, warehouseID, variantID id.ID) (*ledger.Entry, error) {
	q := r.builder.Select(entryColumns...).
		From(stockEntriesTable).
		Where(squirrel.Eq{"warehouse_id": warehouseID, "variant_id": variantID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entry ledger.Entry
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &entry, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperrNotFoundEntry(warehouseID, variantID)
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}

	return &entry, nil
}

// GetForUpdate returns the entry with a row-level lock.
func (r *LedgerRepo) GetForUpdate(ctx context.Context, warehouseID, variantID id.ID) (*ledger.Entry, error) {
	sql := `
		SELECT id, warehouse_id, variant_id,
			   quantity, reserved_quantity, low_stock_threshold,
			   last_restocked_at, created_at, updated_at
		FROM inv_stock_entries
		WHERE warehouse_id = $1 AND variant_id = $2
		FOR UPDATE
	`

	var entry ledger.Entry
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &entry, sql, warehouseID, variantID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperrNotFoundEntry(warehouseID, variantID)
		}
		return nil, fmt.Errorf("get entry for update: %w", err)
	}

	return &entry, nil
}

// Create inserts a new entry.
func (r *LedgerRepo) Create(ctx context.Context, entry *ledger.Entry) error {
	q := r.builder.Insert(stockEntriesTable).
		Columns(entryColumns...).
		Values(
			entry.ID, entry.WarehouseID, entry.VariantID,
			entry.Quantity, entry.ReservedQuantity, entry.LowStockThreshold,
			entry.LastRestockedAt, entry.CreatedAt, entry.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	return nil
}

// UpdateQuantities persists the mutable entry fields.
func (r *LedgerRepo) UpdateQuantities(ctx context.Context, entry *ledger.Entry) error {
	q := r.builder.Update(stockEntriesTable).
		Set("quantity", entry.Quantity).
		Set("reserved_quantity", entry.ReservedQuantity).
		Set("low_stock_threshold", entry.LowStockThreshold).
		Set("last_restocked_at", entry.LastRestockedAt).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": entry.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrNotFoundEntry(entry.WarehouseID, entry.VariantID)
	}

	return nil
}

// ListByWarehouse returns all entries for a warehouse.
func (r *LedgerRepo) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*ledger.Entry, error) {
	q := r.builder.Select(entryColumns...).
		From(stockEntriesTable).
		Where(squirrel.Eq{"warehouse_id": warehouseID}).
		OrderBy("variant_id")

	return r.selectEntries(ctx, q)
}

// ListLowStock returns entries at or below their threshold,
// out-of-stock ones included.
func (r *LedgerRepo) ListLowStock(ctx context.Context) ([]*ledger.Entry, error) {
	q := r.builder.Select(entryColumns...).
		From(stockEntriesTable).
		Where("GREATEST(quantity - reserved_quantity, 0) <= low_stock_threshold").
		OrderBy("warehouse_id", "variant_id")

	return r.selectEntries(ctx, q)
}

// ListOutOfStock returns entries with nothing available to sell.
func (r *LedgerRepo) ListOutOfStock(ctx context.Context) ([]*ledger.Entry, error) {
	q := r.builder.Select(entryColumns...).
		From(stockEntriesTable).
		Where("quantity - reserved_quantity <= 0").
		OrderBy("warehouse_id", "variant_id")

	return r.selectEntries(ctx, q)
}

// ListAll returns every entry.
func (r *LedgerRepo) ListAll(ctx context.Context) ([]*ledger.Entry, error) {
	q := r.builder.Select(entryColumns...).
		From(stockEntriesTable).
		OrderBy("warehouse_id", "variant_id")

	return r.selectEntries(ctx, q)
}

func (r *LedgerRepo) selectEntries(ctx context.Context, q squirrel.SelectBuilder) ([]*ledger.Entry, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []*ledger.Entry
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}

	return entries, nil
}

// AppendMovement inserts a movement record. Movements are append-only.
func (r *LedgerRepo) AppendMovement(ctx context.Context, m *ledger.Movement) error {
	q := r.builder.Insert(stockMovementsTable).
		Columns(movementColumns...).
		Values(
			m.ID, m.WarehouseID, m.VariantID, m.Type, m.Delta,
			m.Reference, m.Notes, m.CreatedBy, m.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}

	return nil
}

// Movements returns movement records matching the filter, newest first.
func (r *LedgerRepo) Movements(ctx context.Context, filter ledger.MovementFilter) ([]*ledger.Movement, error) {
	q := r.builder.Select(movementColumns...).
		From(stockMovementsTable)

	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}
	if filter.VariantID != nil {
		q = q.Where(squirrel.Eq{"variant_id": *filter.VariantID})
	}
	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": *filter.Type})
	}
	if filter.Reference != nil {
		q = q.Where(squirrel.Eq{"reference": *filter.Reference})
	}

	q = q.OrderBy("created_at DESC", "id DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []*ledger.Movement
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}

	return movements, nil
}

func apperrNotFoundEntry(warehouseID, variantID id.ID) error {
	return apperror.NewNotFound("stock entry", warehouseID.String()+"/"+variantID.String())
}

// MovementsTotal returns the sum of movement deltas for a pair.
func (r *LedgerRepo) MovementsTotal(ctx context.Context, warehouseID, variantID id.ID) (int64, error) {
	sql := `
		SELECT COALESCE(SUM(delta), 0)
		FROM inv_stock_movements
		WHERE warehouse_id = $1 AND variant_id = $2
	`

	var total int64
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, warehouseID, variantID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum movements: %w", err)
	}

	return total, nil
}
