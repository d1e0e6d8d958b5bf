// Package order_repo provides the PostgreSQL implementation of the order
// repository.
package order_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"voltstore/internal/core/apperror"
	"voltstore/internal/core/id"
	"voltstore/internal/domain/orders"
	"voltstore/internal/infrastructure/storage/postgres"
)

const (
	ordersTable     = "doc_orders"
	orderItemsTable = "doc_order_items"
)

var orderColumns = []string{
	"id", "order_number", "user_id", "warehouse_id", "status",
	"subtotal", "tax_amount", "total_amount", "notes",
	"cancelled_at", "created_at", "updated_at",
}

var orderItemColumns = []string{
	"id", "order_id", "variant_id", "sku",
	"quantity", "unit_price", "total_price",
}

// OrderRepo implements orders.Repository.
type OrderRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewOrderRepo creates a new order repository.
func NewOrderRepo(txManager *postgres.TxManager) *OrderRepo {
	return &OrderRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts the header and all items.
func (r *OrderRepo) Create(ctx context.Context, order *orders.Order) error {
	q := r.builder.Insert(ordersTable).
		Columns(orderColumns...).
		Values(
			order.ID, order.OrderNumber, order.UserID, order.WarehouseID, order.Status,
			order.Subtotal, order.TaxAmount, order.TotalAmount, order.Notes,
			order.CancelledAt, order.CreatedAt, order.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if len(order.Items) == 0 {
		return nil
	}

	iq := r.builder.Insert(orderItemsTable).Columns(orderItemColumns...)
	for _, item := range order.Items {
		iq = iq.Values(
			item.ID, order.ID, item.VariantID, item.SKU,
			item.Quantity, item.UnitPrice, item.TotalPrice,
		)
	}

	sql, args, err = iq.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert order items: %w", err)
	}

	return nil
}

// GetByID returns the order with its items.
func (r *OrderRepo) GetByID(ctx context.Context, orderID id.ID) (*orders.Order, error) {
	q := r.builder.Select(orderColumns...).
		From(ordersTable).
		Where(squirrel.Eq{"id": orderID})

	return r.getOne(ctx, q, orderID.String())
}

// GetByIDForUpdate locks the header row, then loads items.
func (r *OrderRepo) GetByIDForUpdate(ctx context.Context, orderID id.ID) (*orders.Order, error) {
	sql := `
		SELECT id, order_number, user_id, warehouse_id, status,
			   subtotal, tax_amount, total_amount, notes,
			   cancelled_at, created_at, updated_at
		FROM doc_orders
		WHERE id = $1
		FOR UPDATE
	`

	var order orders.Order
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &order, sql, orderID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("order", orderID.String())
		}
		return nil, fmt.Errorf("get order for update: %w", err)
	}

	if err := r.loadItems(ctx, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

// GetByNumber returns the order with its items by document number.
func (r *OrderRepo) GetByNumber(ctx context.Context, orderNumber string) (*orders.Order, error) {
	q := r.builder.Select(orderColumns...).
		From(ordersTable).
		Where(squirrel.Eq{"order_number": orderNumber})

	return r.getOne(ctx, q, orderNumber)
}

func (r *OrderRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, key string) (*orders.Order, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var order orders.Order
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &order, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("order", key)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if err := r.loadItems(ctx, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *OrderRepo) loadItems(ctx context.Context, order *orders.Order) error {
	q := r.builder.Select(orderItemColumns...).
		From(orderItemsTable).
		Where(squirrel.Eq{"order_id": order.ID}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build items query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &order.Items, sql, args...); err != nil {
		return fmt.Errorf("select order items: %w", err)
	}

	return nil
}

// UpdateStatus persists status, cancelled_at and updated_at.
func (r *OrderRepo) UpdateStatus(ctx context.Context, order *orders.Order) error {
	q := r.builder.Update(ordersTable).
		Set("status", order.Status).
		Set("cancelled_at", order.CancelledAt).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": order.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("order", order.ID.String())
	}

	return nil
}

// List returns orders matching the filter, newest first, items included.
func (r *OrderRepo) List(ctx context.Context, filter orders.Filter) ([]*orders.Order, error) {
	q := r.builder.Select(orderColumns...).
		From(ordersTable)

	if filter.UserID != nil {
		q = q.Where(squirrel.Eq{"user_id": *filter.UserID})
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

	var result []*orders.Order
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &result, sql, args...); err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}

	for _, order := range result {
		if err := r.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}

	return result, nil
}
