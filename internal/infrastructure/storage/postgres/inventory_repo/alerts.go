package inventory_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"voltstore/internal/core/apperror"
	"voltstore/internal/core/id"
	"voltstore/internal/domain/inventory/alerts"
	"voltstore/internal/infrastructure/storage/postgres"
)

const stockAlertsTable = "inv_stock_alerts"

var alertColumns = []string{
	"id", "warehouse_id", "variant_id", "alert_type", "status",
	"current_quantity", "threshold", "message",
	"notification_count", "last_notified_at", "email_sent",
	"acknowledged_at", "acknowledged_by",
	"resolved_at", "resolved_by", "resolution_notes",
	"created_at", "updated_at",
}

// AlertRepo implements alerts.Repository.
type AlertRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewAlertRepo creates a new stock alert repository.
func NewAlertRepo(txManager *postgres.TxManager) *AlertRepo {
	return &AlertRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new alert.
func (r *AlertRepo) Create(ctx context.Context, a *alerts.Alert) error {
	q := r.builder.Insert(stockAlertsTable).
		Columns(alertColumns...).
		Values(
			a.ID, a.WarehouseID, a.VariantID, a.AlertType, a.Status,
			a.CurrentQuantity, a.Threshold, a.Message,
			a.NotificationCount, a.LastNotifiedAt, a.EmailSent,
			a.AcknowledgedAt, a.AcknowledgedBy,
			a.ResolvedAt, a.ResolvedBy, a.ResolutionNotes,
			a.CreatedAt, a.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}

	return nil
}

// Update persists all mutable alert fields.
func (r *AlertRepo) Update(ctx context.Context, a *alerts.Alert) error {
	q := r.builder.Update(stockAlertsTable).
		Set("status", a.Status).
		Set("current_quantity", a.CurrentQuantity).
		Set("threshold", a.Threshold).
		Set("message", a.Message).
		Set("notification_count", a.NotificationCount).
		Set("last_notified_at", a.LastNotifiedAt).
		Set("email_sent", a.EmailSent).
		Set("acknowledged_at", a.AcknowledgedAt).
		Set("acknowledged_by", a.AcknowledgedBy).
		Set("resolved_at", a.ResolvedAt).
		Set("resolved_by", a.ResolvedBy).
		Set("resolution_notes", a.ResolutionNotes).
		Set("updated_at", a.UpdatedAt).
		Where(squirrel.Eq{"id": a.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("alert", a.ID.String())
	}

	return nil
}

// GetByID returns one alert.
func (r *AlertRepo) GetByID(ctx context.Context, alertID id.ID) (*alerts.Alert, error) {
	q := r.builder.Select(alertColumns...).
		From(stockAlertsTable).
		Where(squirrel.Eq{"id": alertID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var a alerts.Alert
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &a, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("alert", alertID.String())
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}

	return &a, nil
}

// GetActive returns the single ACTIVE alert of the given type for a pair.
func (r *AlertRepo) GetActive(ctx context.Context, warehouseID, variantID id.ID, t alerts.AlertType) (*alerts.Alert, error) {
	q := r.builder.Select(alertColumns...).
		From(stockAlertsTable).
		Where(squirrel.Eq{
			"warehouse_id": warehouseID,
			"variant_id":   variantID,
			"alert_type":   t,
			"status":       alerts.StatusActive,
		}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var a alerts.Alert
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &a, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("alert", string(t))
		}
		return nil, fmt.Errorf("get active alert: %w", err)
	}

	return &a, nil
}

// ListOpen returns all ACTIVE and ACKNOWLEDGED alerts.
func (r *AlertRepo) ListOpen(ctx context.Context) ([]*alerts.Alert, error) {
	q := r.builder.Select(alertColumns...).
		From(stockAlertsTable).
		Where(squirrel.Eq{"status": []alerts.AlertStatus{alerts.StatusActive, alerts.StatusAcknowledged}}).
		OrderBy("created_at DESC")

	return r.selectAlerts(ctx, q)
}

// ListOpenForPair returns open alerts for one (warehouse, variant) pair.
func (r *AlertRepo) ListOpenForPair(ctx context.Context, warehouseID, variantID id.ID) ([]*alerts.Alert, error) {
	q := r.builder.Select(alertColumns...).
		From(stockAlertsTable).
		Where(squirrel.Eq{
			"warehouse_id": warehouseID,
			"variant_id":   variantID,
			"status":       []alerts.AlertStatus{alerts.StatusActive, alerts.StatusAcknowledged},
		}).
		OrderBy("created_at DESC")

	return r.selectAlerts(ctx, q)
}

// List returns alerts matching the filter, newest first.
func (r *AlertRepo) List(ctx context.Context, filter alerts.Filter) ([]*alerts.Alert, error) {
	q := r.builder.Select(alertColumns...).
		From(stockAlertsTable)

	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}
	if filter.VariantID != nil {
		q = q.Where(squirrel.Eq{"variant_id": *filter.VariantID})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.AlertType != nil {
		q = q.Where(squirrel.Eq{"alert_type": *filter.AlertType})
	}

	q = q.OrderBy("created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	return r.selectAlerts(ctx, q)
}

func (r *AlertRepo) selectAlerts(ctx context.Context, q squirrel.SelectBuilder) ([]*alerts.Alert, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var result []*alerts.Alert
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &result, sql, args...); err != nil {
		return nil, fmt.Errorf("select alerts: %w", err)
	}

	return result, nil
}
