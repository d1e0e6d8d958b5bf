package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltstore/internal/core/id"
	"voltstore/internal/core/types"
	"voltstore/internal/domain/catalogs/variant"
	"voltstore/internal/domain/catalogs/warehouse"
	"voltstore/internal/domain/inventory/ledger"
)

type monitorFixture struct {
	monitor  *Monitor
	alerts   *MockRepository
	entries  *ledger.MockRepository
	variants *variant.MockStore
	sender   *MockSender

	warehouseID id.ID
	variantID   id.ID

	clock time.Time
}

func newMonitorFixture(t *testing.T) *monitorFixture {
	t.Helper()

	f := &monitorFixture{
		alerts:      NewMockRepository(),
		entries:     ledger.NewMockRepository(),
		variants:    variant.NewMockStore(),
		sender:      &MockSender{},
		warehouseID: id.New(),
		variantID:   id.New(),
		clock:       time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
	}

	f.variants.Put(&variant.Variant{
		ID:          f.variantID,
		ProductID:   id.New(),
		ProductName: "USB Hub",
		SKU:         "HUB-7",
		Price:       types.MustMoney("19.99"),
		IsActive:    true,
	})

	warehouses := warehouse.NewMockRepository()
	wh := warehouse.NewWarehouse("MAIN", "Main warehouse")
	wh.ID = f.warehouseID
	require.NoError(t, warehouses.Create(context.Background(), wh))

	f.monitor = NewMonitor(f.alerts, f.entries, f.variants, warehouses,
		f.sender, NewRuleSet(context.Background(), nil), []string{"ops@example.com"})
	f.monitor.SetClock(func() time.Time { return f.clock })

	return f
}

func (f *monitorFixture) seedEntry(t *testing.T, quantity, threshold int64) {
	t.Helper()
	now := time.Now()
	require.NoError(t, f.entries.Create(context.Background(), &ledger.Entry{
		ID:                id.New(),
		WarehouseID:       f.warehouseID,
		VariantID:         f.variantID,
		Quantity:          quantity,
		LowStockThreshold: threshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}))
}

func (f *monitorFixture) setQuantity(t *testing.T, quantity int64) {
	t.Helper()
	ctx := context.Background()
	entry, err := f.entries.Get(ctx, f.warehouseID, f.variantID)
	require.NoError(t, err)
	entry.Quantity = quantity
	require.NoError(t, f.entries.UpdateQuantities(ctx, entry))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		available int64
		threshold int64
		want      AlertType
		alerting  bool
	}{
		{"zero is out of stock", 0, 10, TypeOutOfStock, true},
		{"bottom 30 percent is critical", 3, 10, TypeCritical, true},
		{"above critical band is low", 4, 10, TypeLowStock, true},
		{"at threshold is low", 10, 10, TypeLowStock, true},
		{"above threshold is fine", 11, 10, "", false},
		{"zero threshold only flags empty", 5, 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.available, tt.threshold)
			assert.Equal(t, tt.alerting, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCheckLevels_CreatesAlertAndNotifies(t *testing.T) {
	f := newMonitorFixture(t)
	f.seedEntry(t, 2, 10)
	ctx := context.Background()

	require.NoError(t, f.monitor.CheckLevels(ctx))

	critical := TypeCritical
	found, err := f.monitor.List(ctx, Filter{AlertType: &critical})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, StatusActive, found[0].Status)
	assert.EqualValues(t, 2, found[0].CurrentQuantity)
	assert.Equal(t, 1, found[0].NotificationCount)
	assert.True(t, found[0].EmailSent)

	require.Len(t, f.sender.Sent, 1)
	assert.Contains(t, f.sender.Sent[0].Subject, "CRITICAL")
	assert.Contains(t, f.sender.Sent[0].Body, "HUB-7")
}

func TestCheckLevels_DeduplicatesActiveAlerts(t *testing.T) {
	f := newMonitorFixture(t)
	f.seedEntry(t, 0, 10)
	ctx := context.Background()

	require.NoError(t, f.monitor.CheckLevels(ctx))
	require.NoError(t, f.monitor.CheckLevels(ctx))

	outOfStock := TypeOutOfStock
	found, err := f.monitor.List(ctx, Filter{AlertType: &outOfStock})
	require.NoError(t, err)
	assert.Len(t, found, 1, "second sweep must update, not duplicate")

	// Within the throttle window only the first sweep notifies.
	assert.Len(t, f.sender.Sent, 1)
}

func TestCheckLevels_ResendsAfterThrottleWindow(t *testing.T) {
	f := newMonitorFixture(t)
	f.seedEntry(t, 0, 10)
	ctx := context.Background()

	require.NoError(t, f.monitor.CheckLevels(ctx))
	require.Len(t, f.sender.Sent, 1)

	f.clock = f.clock.Add(25 * time.Hour)
	require.NoError(t, f.monitor.CheckLevels(ctx))
	require.Len(t, f.sender.Sent, 2)

	outOfStock := TypeOutOfStock
	found, err := f.monitor.List(ctx, Filter{AlertType: &outOfStock})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 2, found[0].NotificationCount)
}

func TestCheckLevels_NotificationFailureDoesNotAbort(t *testing.T) {
	f := newMonitorFixture(t)
	f.seedEntry(t, 0, 10)
	f.sender.FailNext = assert.AnError
	ctx := context.Background()

	require.NoError(t, f.monitor.CheckLevels(ctx))

	outOfStock := TypeOutOfStock
	found, err := f.monitor.List(ctx, Filter{AlertType: &outOfStock})
	require.NoError(t, err)
	require.Len(t, found, 1, "alert persists even when delivery fails")
	assert.Equal(t, 0, found[0].NotificationCount)
	assert.False(t, found[0].EmailSent)
}

func TestAutoResolve_ClosesRecoveredAlert(t *testing.T) {
	f := newMonitorFixture(t)
	f.seedEntry(t, 0, 10)
	ctx := context.Background()

	require.NoError(t, f.monitor.CheckLevels(ctx))

	// Stock recovers well above the threshold.
	f.setQuantity(t, 50)
	require.NoError(t, f.monitor.AutoResolve(ctx))

	outOfStock := TypeOutOfStock
	found, err := f.monitor.List(ctx, Filter{AlertType: &outOfStock})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, StatusResolved, found[0].Status)
	require.NotNil(t, found[0].ResolvedAt)
	assert.Contains(t, found[0].ResolutionNotes, "auto-resolved")
}

func TestAutoResolve_KeepsAlertsWhoseConditionHolds(t *testing.T) {
	f := newMonitorFixture(t)
	f.seedEntry(t, 0, 10)
	ctx := context.Background()

	require.NoError(t, f.monitor.CheckLevels(ctx))
	require.NoError(t, f.monitor.AutoResolve(ctx))

	open, err := f.alerts.ListOpen(ctx)
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestAcknowledgeAndResolveLifecycle(t *testing.T) {
	f := newMonitorFixture(t)
	f.seedEntry(t, 0, 10)
	ctx := context.Background()
	userID := id.New()

	require.NoError(t, f.monitor.CheckLevels(ctx))
	open, err := f.alerts.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)

	ack, err := f.monitor.Acknowledge(ctx, open[0].ID, userID)
	require.NoError(t, err)
	assert.Equal(t, StatusAcknowledged, ack.Status)
	require.NotNil(t, ack.AcknowledgedBy)
	assert.Equal(t, userID, *ack.AcknowledgedBy)

	// A second acknowledge is rejected.
	_, err = f.monitor.Acknowledge(ctx, open[0].ID, userID)
	require.Error(t, err)

	resolved, err := f.monitor.Resolve(ctx, open[0].ID, userID, "restocked manually")
	require.NoError(t, err)
	assert.Equal(t, StatusResolved, resolved.Status)
	assert.Equal(t, "restocked manually", resolved.ResolutionNotes)

	_, err = f.monitor.Resolve(ctx, open[0].ID, userID, "again")
	require.Error(t, err)
}

func TestReevaluate_OpensAndClosesForPair(t *testing.T) {
	f := newMonitorFixture(t)
	f.seedEntry(t, 0, 10)
	ctx := context.Background()

	f.monitor.Reevaluate(ctx, f.warehouseID, f.variantID)

	open, err := f.alerts.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, TypeOutOfStock, open[0].AlertType)

	f.setQuantity(t, 100)
	f.monitor.Reevaluate(ctx, f.warehouseID, f.variantID)

	open, err = f.alerts.ListOpen(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)
}
