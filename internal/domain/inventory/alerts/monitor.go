package alerts

import (
	"context"
	"fmt"
	"time"

	"voltstore/internal/core/apperror"
	"voltstore/internal/core/id"
	"voltstore/internal/domain/catalogs/variant"
	"voltstore/internal/domain/catalogs/warehouse"
	"voltstore/internal/domain/inventory/ledger"
	"voltstore/pkg/logger"
)

// NotificationThrottle is the minimum interval between repeat notifications
// for the same open alert.
const NotificationThrottle = 24 * time.Hour

// Monitor scans the ledger and manages alert lifecycle. It only reads
// ledger rows, so it is safe to run concurrently with engine operations.
type Monitor struct {
	alerts     Repository
	entries    ledger.Repository
	variants   variant.Store
	warehouses warehouse.Repository
	sender     Sender
	rules      *RuleSet
	recipients []string

	// now is injectable for throttle tests.
	now func() time.Time
}

// NewMonitor creates an alert monitor.
func NewMonitor(
	alerts Repository,
	entries ledger.Repository,
	variants variant.Store,
	warehouses warehouse.Repository,
	sender Sender,
	rules *RuleSet,
	recipients []string,
) *Monitor {
	return &Monitor{
		alerts:     alerts,
		entries:    entries,
		variants:   variants,
		warehouses: warehouses,
		sender:     sender,
		rules:      rules,
		recipients: recipients,
		now:        time.Now,
	}
}

// SetClock overrides the monitor's time source. Test hook.
func (m *Monitor) SetClock(now func() time.Time) {
	m.now = now
}

// CheckLevels scans every ledger entry and opens or refreshes alerts for
// entries in a low, critical or out-of-stock condition. A failure on one
// entry is logged and does not abort the sweep.
func (m *Monitor) CheckLevels(ctx context.Context) error {
	entries, err := m.entries.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list ledger entries: %w", err)
	}

	var checked, alerted int
	for _, entry := range entries {
		opened, err := m.evaluateEntry(ctx, entry)
		if err != nil {
			logger.Error(ctx, "alert evaluation failed",
				"warehouse_id", entry.WarehouseID, "variant_id", entry.VariantID, "error", err)
			continue
		}
		checked++
		if opened {
			alerted++
		}
	}

	logger.Info(ctx, "stock level sweep finished", "checked", checked, "alerting", alerted)
	return nil
}

// Reevaluate refreshes alert state for one pair. Wired as the engine's
// post-commit hook so alerts track the latest committed quantity.
func (m *Monitor) Reevaluate(ctx context.Context, warehouseID, variantID id.ID) {
	entry, err := m.entries.Get(ctx, warehouseID, variantID)
	if err != nil {
		logger.Warn(ctx, "reevaluation skipped",
			"warehouse_id", warehouseID, "variant_id", variantID, "error", err)
		return
	}

	if _, err := m.evaluateEntry(ctx, entry); err != nil {
		logger.Error(ctx, "alert evaluation failed",
			"warehouse_id", warehouseID, "variant_id", variantID, "error", err)
	}

	if err := m.autoResolvePair(ctx, entry); err != nil {
		logger.Error(ctx, "auto-resolve failed",
			"warehouse_id", warehouseID, "variant_id", variantID, "error", err)
	}
}

// evaluateEntry classifies one entry and upserts the matching alert.
// Returns true when the entry is in an alerting condition.
func (m *Monitor) evaluateEntry(ctx context.Context, entry *ledger.Entry) (bool, error) {
	available := entry.AvailableQuantity()
	alertType, ok := Classify(available, entry.LowStockThreshold)
	if !ok {
		return false, nil
	}

	v, err := m.variants.GetVariant(ctx, entry.VariantID)
	if err != nil {
		return false, fmt.Errorf("get variant: %w", err)
	}

	message := BuildMessage(alertType, v.SKU, available, entry.LowStockThreshold)
	now := m.now()

	existing, err := m.alerts.GetActive(ctx, entry.WarehouseID, entry.VariantID, alertType)
	switch {
	case err == nil:
		existing.CurrentQuantity = available
		existing.Threshold = entry.LowStockThreshold
		existing.Message = message
		existing.UpdatedAt = now
		if err := m.alerts.Update(ctx, existing); err != nil {
			return true, fmt.Errorf("update alert: %w", err)
		}
		if existing.LastNotifiedAt == nil || now.Sub(*existing.LastNotifiedAt) > NotificationThrottle {
			m.notify(ctx, existing, v.SKU)
		}
		return true, nil

	case apperror.IsNotFound(err):
		alert := &Alert{
			ID:              id.New(),
			WarehouseID:     entry.WarehouseID,
			VariantID:       entry.VariantID,
			AlertType:       alertType,
			Status:          StatusActive,
			CurrentQuantity: available,
			Threshold:       entry.LowStockThreshold,
			Message:         message,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := m.alerts.Create(ctx, alert); err != nil {
			return true, fmt.Errorf("create alert: %w", err)
		}
		m.notify(ctx, alert, v.SKU)
		return true, nil

	default:
		return false, fmt.Errorf("get active alert: %w", err)
	}
}

// notify delivers the alert best-effort. Failures are logged; the alert
// record stays valid either way.
func (m *Monitor) notify(ctx context.Context, alert *Alert, sku string) {
	warehouseCode := ""
	if wh, err := m.warehouses.GetByID(ctx, alert.WarehouseID); err == nil {
		warehouseCode = wh.Code
	}

	if m.rules.Muted(ctx, MuteInput{
		SKU:           sku,
		WarehouseCode: warehouseCode,
		AlertType:     alert.AlertType,
		Available:     alert.CurrentQuantity,
		Threshold:     alert.Threshold,
	}) {
		logger.Debug(ctx, "alert notification muted", "alert_id", alert.ID, "sku", sku)
		return
	}

	if len(m.recipients) == 0 || m.sender == nil {
		return
	}

	subject := fmt.Sprintf("[%s] %s", alert.AlertType, sku)
	if err := m.sender.SendAlert(ctx, m.recipients, subject, alert.Message); err != nil {
		logger.Warn(ctx, "alert notification failed",
			"alert_id", alert.ID, "error", err)
		return
	}

	now := m.now()
	alert.NotificationCount++
	alert.LastNotifiedAt = &now
	alert.EmailSent = true
	alert.UpdatedAt = now
	if err := m.alerts.Update(ctx, alert); err != nil {
		logger.Warn(ctx, "alert notification bookkeeping failed",
			"alert_id", alert.ID, "error", err)
	}
}

// AutoResolve closes open alerts whose condition no longer holds,
// using the same bands as classification.
func (m *Monitor) AutoResolve(ctx context.Context) error {
	open, err := m.alerts.ListOpen(ctx)
	if err != nil {
		return fmt.Errorf("list open alerts: %w", err)
	}

	var resolved int
	for _, alert := range open {
		entry, err := m.entries.Get(ctx, alert.WarehouseID, alert.VariantID)
		if err != nil {
			logger.Warn(ctx, "auto-resolve skipped", "alert_id", alert.ID, "error", err)
			continue
		}

		if ConditionHolds(alert.AlertType, entry.AvailableQuantity(), entry.LowStockThreshold) {
			continue
		}

		if err := m.resolveAuto(ctx, alert, entry.AvailableQuantity()); err != nil {
			logger.Error(ctx, "auto-resolve failed", "alert_id", alert.ID, "error", err)
			continue
		}
		resolved++
	}

	if resolved > 0 {
		logger.Info(ctx, "auto-resolved alerts", "count", resolved)
	}
	return nil
}

func (m *Monitor) autoResolvePair(ctx context.Context, entry *ledger.Entry) error {
	open, err := m.alerts.ListOpenForPair(ctx, entry.WarehouseID, entry.VariantID)
	if err != nil {
		return err
	}
	for _, alert := range open {
		if ConditionHolds(alert.AlertType, entry.AvailableQuantity(), entry.LowStockThreshold) {
			continue
		}
		if err := m.resolveAuto(ctx, alert, entry.AvailableQuantity()); err != nil {
			return err
		}
	}
	return nil
}

func (m *Monitor) resolveAuto(ctx context.Context, alert *Alert, available int64) error {
	now := m.now()
	alert.Status = StatusResolved
	alert.ResolvedAt = &now
	alert.ResolutionNotes = fmt.Sprintf("auto-resolved: available quantity recovered to %d", available)
	alert.CurrentQuantity = available
	alert.UpdatedAt = now
	return m.alerts.Update(ctx, alert)
}

// Acknowledge moves an ACTIVE alert to ACKNOWLEDGED.
func (m *Monitor) Acknowledge(ctx context.Context, alertID, userID id.ID) (*Alert, error) {
	alert, err := m.alerts.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert.Status != StatusActive {
		return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule,
			fmt.Sprintf("cannot acknowledge alert in status %s", alert.Status))
	}

	now := m.now()
	alert.Status = StatusAcknowledged
	alert.AcknowledgedAt = &now
	alert.AcknowledgedBy = &userID
	alert.UpdatedAt = now
	if err := m.alerts.Update(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// Resolve closes an open alert manually.
func (m *Monitor) Resolve(ctx context.Context, alertID, userID id.ID, notes string) (*Alert, error) {
	alert, err := m.alerts.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if !alert.IsOpen() {
		return nil, apperror.NewBusinessRule(apperror.CodeBusinessRule,
			fmt.Sprintf("cannot resolve alert in status %s", alert.Status))
	}

	now := m.now()
	alert.Status = StatusResolved
	alert.ResolvedAt = &now
	alert.ResolvedBy = &userID
	alert.ResolutionNotes = notes
	alert.UpdatedAt = now
	if err := m.alerts.Update(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// List returns alerts matching the filter.
func (m *Monitor) List(ctx context.Context, filter Filter) ([]*Alert, error) {
	return m.alerts.List(ctx, filter)
}

// GetByID returns one alert.
func (m *Monitor) GetByID(ctx context.Context, alertID id.ID) (*Alert, error) {
	return m.alerts.GetByID(ctx, alertID)
}
