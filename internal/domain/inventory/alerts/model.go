// Package alerts derives stock level alerts from the ledger and manages
// their lifecycle. Alerts are advisory: they never block ledger operations.
package alerts

import (
	"fmt"
	"time"

	"voltstore/internal/core/id"
)

// AlertType classifies the stock condition.
type AlertType string

const (
	TypeLowStock   AlertType = "LOW_STOCK"
	TypeOutOfStock AlertType = "OUT_OF_STOCK"
	TypeCritical   AlertType = "CRITICAL"
)

// AlertStatus is the lifecycle state.
type AlertStatus string

const (
	StatusActive       AlertStatus = "ACTIVE"
	StatusAcknowledged AlertStatus = "ACKNOWLEDGED"
	StatusResolved     AlertStatus = "RESOLVED"
)

// Alert is one stock condition signal for a (warehouse, variant) pair.
// At most one ACTIVE alert exists per pair and type.
type Alert struct {
	ID          id.ID `db:"id" json:"id"`
	WarehouseID id.ID `db:"warehouse_id" json:"warehouse_id"`
	VariantID   id.ID `db:"variant_id" json:"variant_id"`

	AlertType AlertType   `db:"alert_type" json:"alert_type"`
	Status    AlertStatus `db:"status" json:"status"`

	// CurrentQuantity and Threshold are snapshots taken at the latest
	// evaluation, not live values.
	CurrentQuantity int64 `db:"current_quantity" json:"current_quantity"`
	Threshold       int64 `db:"threshold" json:"threshold"`

	Message string `db:"message" json:"message"`

	// Notification bookkeeping reflects best-effort delivery.
	NotificationCount int        `db:"notification_count" json:"notification_count"`
	LastNotifiedAt    *time.Time `db:"last_notified_at" json:"last_notified_at,omitempty"`
	EmailSent         bool       `db:"email_sent" json:"email_sent"`

	AcknowledgedAt *time.Time `db:"acknowledged_at" json:"acknowledged_at,omitempty"`
	AcknowledgedBy *id.ID     `db:"acknowledged_by" json:"acknowledged_by,omitempty"`

	ResolvedAt      *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	ResolvedBy      *id.ID     `db:"resolved_by" json:"resolved_by,omitempty"`
	ResolutionNotes string     `db:"resolution_notes" json:"resolution_notes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// IsOpen reports whether the alert still needs attention.
func (a *Alert) IsOpen() bool {
	return a.Status == StatusActive || a.Status == StatusAcknowledged
}

// Classify maps available quantity against the threshold to an alert type.
// Returns false when no alert condition holds.
func Classify(available, threshold int64) (AlertType, bool) {
	if available <= 0 {
		return TypeOutOfStock, true
	}
	// CRITICAL band is the bottom 30% of the threshold.
	if available*10 <= threshold*3 {
		return TypeCritical, true
	}
	if available <= threshold {
		return TypeLowStock, true
	}
	return "", false
}

// ConditionHolds reports whether the condition that opened an alert of the
// given type still applies. Uses the same bands as Classify.
func ConditionHolds(t AlertType, available, threshold int64) bool {
	switch t {
	case TypeOutOfStock:
		return available <= 0
	case TypeCritical:
		return available > 0 && available*10 <= threshold*3
	case TypeLowStock:
		return available > 0 && available <= threshold
	}
	return false
}

// BuildMessage renders the human-readable alert text.
func BuildMessage(t AlertType, sku string, available, threshold int64) string {
	switch t {
	case TypeOutOfStock:
		return fmt.Sprintf("%s is out of stock", sku)
	case TypeCritical:
		return fmt.Sprintf("%s is critically low: %d left (threshold %d)", sku, available, threshold)
	default:
		return fmt.Sprintf("%s is running low: %d left (threshold %d)", sku, available, threshold)
	}
}
