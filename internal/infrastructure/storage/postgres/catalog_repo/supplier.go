package catalog_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"voltstore/internal/core/apperror"
	"voltstore/internal/core/id"
	"voltstore/internal/domain/catalogs/supplier"
	"voltstore/internal/infrastructure/storage/postgres"
)

const suppliersTable = "cat_suppliers"

var supplierColumns = []string{
	"id", "name", "contact_email", "phone", "address",
	"is_active", "created_at", "updated_at",
}

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(txManager *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new supplier.
func (r *SupplierRepo) Create(ctx context.Context, sup *supplier.Supplier) error {
	q := r.builder.Insert(suppliersTable).
		Columns(supplierColumns...).
		Values(
			sup.ID, sup.Name, sup.ContactEmail, sup.Phone, sup.Address,
			sup.IsActive, sup.CreatedAt, sup.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}

	return nil
}

// Update persists all mutable supplier fields.
func (r *SupplierRepo) Update(ctx context.Context, sup *supplier.Supplier) error {
	q := r.builder.Update(suppliersTable).
		Set("name", sup.Name).
		Set("contact_email", sup.ContactEmail).
		Set("phone", sup.Phone).
		Set("address", sup.Address).
		Set("is_active", sup.IsActive).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": sup.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("supplier", sup.ID.String())
	}

	return nil
}

// GetByID returns one supplier.
func (r *SupplierRepo) GetByID(ctx context.Context, supID id.ID) (*supplier.Supplier, error) {
	q := r.builder.Select(supplierColumns...).
		From(suppliersTable).
		Where(squirrel.Eq{"id": supID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sup supplier.Supplier
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &sup, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("supplier", supID.String())
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}

	return &sup, nil
}

// List returns suppliers ordered by name.
func (r *SupplierRepo) List(ctx context.Context, activeOnly bool) ([]*supplier.Supplier, error) {
	q := r.builder.Select(supplierColumns...).
		From(suppliersTable)

	if activeOnly {
		q = q.Where(squirrel.Eq{"is_active": true})
	}

	q = q.OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var result []*supplier.Supplier
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &result, sql, args...); err != nil {
		return nil, fmt.Errorf("select suppliers: %w", err)
	}

	return result, nil
}
