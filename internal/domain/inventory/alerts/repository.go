package alerts

import (
	"context"

	"voltstore/internal/core/id"
)

// Filter narrows alert listing.
type Filter struct {
	WarehouseID *id.ID
	VariantID   *id.ID
	Status      *AlertStatus
	AlertType   *AlertType
	Limit       int
	Offset      int
}

// Repository defines storage operations for alerts.
type Repository interface {
	Create(ctx context.Context, a *Alert) error
	Update(ctx context.Context, a *Alert) error
	GetByID(ctx context.Context, alertID id.ID) (*Alert, error)

	// GetActive returns the single ACTIVE alert of the given type for a
	// pair, or NotFound.
	GetActive(ctx context.Context, warehouseID, variantID id.ID, t AlertType) (*Alert, error)

	// ListOpen returns all ACTIVE and ACKNOWLEDGED alerts.
	ListOpen(ctx context.Context) ([]*Alert, error)

	// ListOpenForPair returns open alerts for one (warehouse, variant) pair.
	ListOpenForPair(ctx context.Context, warehouseID, variantID id.ID) ([]*Alert, error)

	List(ctx context.Context, filter Filter) ([]*Alert, error)
}

// Sender delivers alert notifications. Delivery is best-effort: failures
// are logged by the caller and never abort alert persistence.
type Sender interface {
	SendAlert(ctx context.Context, recipients []string, subject, body string) error
}
