package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"voltstore/internal/core/apperror"
	"voltstore/internal/core/id"
	"voltstore/internal/domain/catalogs/variant"
	"voltstore/internal/infrastructure/storage/postgres"
)

const variantsTable = "cat_variants"

var variantColumns = []string{
	"id", "product_id", "product_name", "sku",
	"price", "legacy_stock", "is_active",
}

// VariantStore implements variant.Store on top of the catalog table.
// Reads only, except for the legacy stock counter.
type VariantStore struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewVariantStore creates a new variant store.
func NewVariantStore(txManager *postgres.TxManager) *VariantStore {
	return &VariantStore{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetVariant returns a variant by ID.
func (s *VariantStore) GetVariant(ctx context.Context, variantID id.ID) (*variant.Variant, error) {
	q := s.builder.Select(variantColumns...).
		From(variantsTable).
		Where(squirrel.Eq{"id": variantID})

	return s.getOne(ctx, q, variantID.String())
}

// GetVariantBySKU returns a variant by its SKU.
func (s *VariantStore) GetVariantBySKU(ctx context.Context, sku string) (*variant.Variant, error) {
	q := s.builder.Select(variantColumns...).
		From(variantsTable).
		Where(squirrel.Eq{"sku": sku})

	return s.getOne(ctx, q, sku)
}

func (s *VariantStore) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*variant.Variant, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var v variant.Variant
	querier := s.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &v, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("variant", key)
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}

	return &v, nil
}

// ListActive returns all active variants ordered by SKU.
func (s *VariantStore) ListActive(ctx context.Context) ([]*variant.Variant, error) {
	q := s.builder.Select(variantColumns...).
		From(variantsTable).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("sku")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var result []*variant.Variant
	querier := s.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &result, sql, args...); err != nil {
		return nil, fmt.Errorf("select variants: %w", err)
	}

	return result, nil
}

// SetLegacyStock overwrites the denormalized counter.
func (s *VariantStore) SetLegacyStock(ctx context.Context, variantID id.ID, quantity int64) error {
	q := s.builder.Update(variantsTable).
		Set("legacy_stock", quantity).
		Where(squirrel.Eq{"id": variantID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := s.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update legacy stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("variant", variantID.String())
	}

	return nil
}
