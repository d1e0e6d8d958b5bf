// Package catalog_repo provides PostgreSQL implementations for catalog
// repositories.
package catalog_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"voltstore/internal/core/apperror"
	"voltstore/internal/core/id"
	"voltstore/internal/domain/catalogs/warehouse"
	"voltstore/internal/infrastructure/storage/postgres"
)

const warehousesTable = "cat_warehouses"

var warehouseColumns = []string{
	"id", "code", "name", "address",
	"is_active", "is_default", "created_at", "updated_at",
}

// WarehouseRepo implements warehouse.Repository.
type WarehouseRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewWarehouseRepo creates a new warehouse repository.
func NewWarehouseRepo(txManager *postgres.TxManager) *WarehouseRepo {
	return &WarehouseRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new warehouse.
func (r *WarehouseRepo) Create(ctx context.Context, wh *warehouse.Warehouse) error {
	q := r.builder.Insert(warehousesTable).
		Columns(warehouseColumns...).
		Values(
			wh.ID, wh.Code, wh.Name, wh.Address,
			wh.IsActive, wh.IsDefault, wh.CreatedAt, wh.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert warehouse: %w", err)
	}

	return nil
}

// Update persists all mutable warehouse fields.
func (r *WarehouseRepo) Update(ctx context.Context, wh *warehouse.Warehouse) error {
	q := r.builder.Update(warehousesTable).
		Set("code", wh.Code).
		Set("name", wh.Name).
		Set("address", wh.Address).
		Set("is_active", wh.IsActive).
		Set("is_default", wh.IsDefault).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": wh.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update warehouse: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("warehouse", wh.ID.String())
	}

	return nil
}

// GetByID returns one warehouse.
func (r *WarehouseRepo) GetByID(ctx context.Context, whID id.ID) (*warehouse.Warehouse, error) {
	q := r.builder.Select(warehouseColumns...).
		From(warehousesTable).
		Where(squirrel.Eq{"id": whID})

	return r.getOne(ctx, q, whID.String())
}

// GetByCode returns one warehouse by its unique code.
func (r *WarehouseRepo) GetByCode(ctx context.Context, code string) (*warehouse.Warehouse, error) {
	q := r.builder.Select(warehouseColumns...).
		From(warehousesTable).
		Where(squirrel.Eq{"code": code})

	return r.getOne(ctx, q, code)
}

func (r *WarehouseRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*warehouse.Warehouse, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var wh warehouse.Warehouse
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &wh, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("warehouse", key)
		}
		return nil, fmt.Errorf("get warehouse: %w", err)
	}

	return &wh, nil
}

// List returns warehouses ordered by code.
func (r *WarehouseRepo) List(ctx context.Context, activeOnly bool) ([]*warehouse.Warehouse, error) {
	q := r.builder.Select(warehouseColumns...).
		From(warehousesTable)

	if activeOnly {
		q = q.Where(squirrel.Eq{"is_active": true})
	}

	q = q.OrderBy("code")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var result []*warehouse.Warehouse
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &result, sql, args...); err != nil {
		return nil, fmt.Errorf("select warehouses: %w", err)
	}

	return result, nil
}

// ClearDefault drops the default flag from every warehouse.
func (r *WarehouseRepo) ClearDefault(ctx context.Context) error {
	q := r.builder.Update(warehousesTable).
		Set("is_default", false).
		Where(squirrel.Eq{"is_default": true})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("clear default: %w", err)
	}

	return nil
}
