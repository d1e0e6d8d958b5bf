package inventory_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"voltstore/internal/core/apperror"
	"voltstore/internal/core/id"
	"voltstore/internal/domain/inventory/imports"
	"voltstore/internal/infrastructure/storage/postgres"
)

const (
	stockImportsTable     = "inv_stock_imports"
	stockImportItemsTable = "inv_stock_import_items"
)

var importColumns = []string{
	"id", "import_number", "warehouse_id", "supplier_id", "status",
	"total_cost", "notes", "expected_date", "received_date",
	"created_by", "created_at", "updated_at",
}

var importItemColumns = []string{
	"id", "import_id", "variant_id",
	"quantity_ordered", "quantity_received", "unit_cost", "total_cost",
}

// ImportRepo implements imports.Repository.
type ImportRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewImportRepo creates a new stock import repository.
func NewImportRepo(txManager *postgres.TxManager) *ImportRepo {
	return &ImportRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts the header and all items.
func (r *ImportRepo) Create(ctx context.Context, imp *imports.StockImport) error {
	q := r.builder.Insert(stockImportsTable).
		Columns(importColumns...).
		Values(
			imp.ID, imp.ImportNumber, imp.WarehouseID, imp.SupplierID, imp.Status,
			imp.TotalCost, imp.Notes, imp.ExpectedDate, imp.ReceivedDate,
			imp.CreatedBy, imp.CreatedAt, imp.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert import: %w", err)
	}

	if len(imp.Items) == 0 {
		return nil
	}

	iq := r.builder.Insert(stockImportItemsTable).Columns(importItemColumns...)
	for _, item := range imp.Items {
		iq = iq.Values(
			item.ID, imp.ID, item.VariantID,
			item.QuantityOrdered, item.QuantityReceived, item.UnitCost, item.TotalCost,
		)
	}

	sql, args, err = iq.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert import items: %w", err)
	}

	return nil
}

// GetByID returns the import with its items.
func (r *ImportRepo) GetByID(ctx context.Context, importID id.ID) (*imports.StockImport, error) {
	q := r.builder.Select(importColumns...).
		From(stockImportsTable).
		Where(squirrel.Eq{"id": importID})

	return r.getOne(ctx, q, importID.String())
}

// GetByIDForUpdate locks the header row, then loads items.
func (r *ImportRepo) GetByIDForUpdate(ctx context.Context, importID id.ID) (*imports.StockImport, error) {
	sql := `
		SELECT id, import_number, warehouse_id, supplier_id, status,
			   total_cost, notes, expected_date, received_date,
			   created_by, created_at, updated_at
		FROM inv_stock_imports
		WHERE id = $1
		FOR UPDATE
	`

	var imp imports.StockImport
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &imp, sql, importID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("stock import", importID.String())
		}
		return nil, fmt.Errorf("get import for update: %w", err)
	}

	if err := r.loadItems(ctx, &imp); err != nil {
		return nil, err
	}

	return &imp, nil
}

// GetByNumber returns the import with its items by document number.
func (r *ImportRepo) GetByNumber(ctx context.Context, importNumber string) (*imports.StockImport, error) {
	q := r.builder.Select(importColumns...).
		From(stockImportsTable).
		Where(squirrel.Eq{"import_number": importNumber})

	return r.getOne(ctx, q, importNumber)
}

func (r *ImportRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*imports.StockImport, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var imp imports.StockImport
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &imp, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("stock import", key)
		}
		return nil, fmt.Errorf("get import: %w", err)
	}

	if err := r.loadItems(ctx, &imp); err != nil {
		return nil, err
	}

	return &imp, nil
}

func (r *ImportRepo) loadItems(ctx context.Context, imp *imports.StockImport) error {
	q := r.builder.Select(importItemColumns...).
		From(stockImportItemsTable).
		Where(squirrel.Eq{"import_id": imp.ID}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build items query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &imp.Items, sql, args...); err != nil {
		return fmt.Errorf("select import items: %w", err)
	}

	return nil
}

// UpdateHeader persists status, received_date, notes and updated_at.
func (r *ImportRepo) UpdateHeader(ctx context.Context, imp *imports.StockImport) error {
	q := r.builder.Update(stockImportsTable).
		Set("status", imp.Status).
		Set("received_date", imp.ReceivedDate).
		Set("notes", imp.Notes).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": imp.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update import: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("stock import", imp.ID.String())
	}

	return nil
}

// UpdateItem persists quantity_received for one line.
func (r *ImportRepo) UpdateItem(ctx context.Context, item *imports.Item) error {
	q := r.builder.Update(stockImportItemsTable).
		Set("quantity_received", item.QuantityReceived).
		Where(squirrel.Eq{"id": item.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update import item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("import item", item.ID.String())
	}

	return nil
}

// List returns imports matching the filter, newest first, items included.
func (r *ImportRepo) List(ctx context.Context, filter imports.Filter) ([]*imports.StockImport, error) {
	q := r.builder.Select(importColumns...).
		From(stockImportsTable)

	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}
	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *filter.SupplierID})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}

	q = q.OrderBy("created_at DESC")

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

	var result []*imports.StockImport
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &result, sql, args...); err != nil {
		return nil, fmt.Errorf("select imports: %w", err)
	}

	for _, imp := range result {
		if err := r.loadItems(ctx, imp); err != nil {
			return nil, err
		}
	}

	return result, nil
}
