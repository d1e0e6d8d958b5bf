package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltstore/internal/core/apperror"
	"voltstore/internal/core/audit"
	"voltstore/internal/core/id"
	"voltstore/internal/core/numerator"
	"voltstore/internal/core/types"
	"voltstore/internal/domain/catalogs/variant"
	"voltstore/internal/domain/inventory/ledger"
)

type orderFixture struct {
	service    *Service
	ledgerRepo *ledger.MockRepository
	ordersRepo *MockRepository
	variants   *variant.MockStore
	engine     *ledger.Engine

	warehouseID id.ID
	v1, v2      id.ID
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	f := &orderFixture{
		ledgerRepo:  ledger.NewMockRepository(),
		ordersRepo:  NewMockRepository(),
		variants:    variant.NewMockStore(),
		warehouseID: id.New(),
		v1:          id.New(),
		v2:          id.New(),
	}

	txm := &ledger.MockTxManager{
		Repo:  f.ledgerRepo,
		Extra: []ledger.Snapshotter{f.ordersRepo},
	}

	f.variants.Put(&variant.Variant{
		ID: f.v1, ProductID: id.New(), ProductName: "Mouse", SKU: "MSE-1",
		Price: types.MustMoney("25.00"), IsActive: true,
	})
	f.variants.Put(&variant.Variant{
		ID: f.v2, ProductID: id.New(), ProductName: "Keyboard", SKU: "KBD-2",
		Price: types.MustMoney("49.99"), IsActive: true,
	})

	var seq int
	num := &numerator.MockGenerator{
		GetNextNumberFunc: func(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
			seq++
			return fmt.Sprintf("%s-2026-%05d", cfg.Prefix, seq), nil
		},
	}

	f.engine = ledger.NewEngine(f.ledgerRepo, f.variants, txm, num)
	f.service = NewService(f.ordersRepo, f.engine, f.variants, txm, num,
		audit.NopRecorder{}, f.warehouseID)

	return f
}

func (f *orderFixture) seedStock(t *testing.T, variantID id.ID, quantity int64) {
	t.Helper()
	_, err := f.engine.Adjust(context.Background(), f.warehouseID, variantID, quantity, "seed")
	require.NoError(t, err)
}

func TestCreate_ConsumesStockAndComputesTotals(t *testing.T) {
	f := newOrderFixture(t)
	f.seedStock(t, f.v1, 50)
	f.seedStock(t, f.v2, 20)
	ctx := context.Background()

	order, err := f.service.Create(ctx, CreateRequest{
		Items: []CreateItem{
			{VariantID: f.v1, Quantity: 2},
			{VariantID: f.v2, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, "ORD-2026-00001", order.OrderNumber)
	assert.Equal(t, f.warehouseID, order.WarehouseID)

	// 2 x 25.00 + 1 x 49.99 = 99.99; 8% tax = 8.00 (rounded); total 107.99.
	assert.True(t, order.Subtotal.Equal(types.MustMoney("99.99")), "subtotal %s", order.Subtotal)
	assert.True(t, order.TaxAmount.Equal(types.MustMoney("8.00")), "tax %s", order.TaxAmount)
	assert.True(t, order.TotalAmount.Equal(types.MustMoney("107.99")), "total %s", order.TotalAmount)

	entry, err := f.ledgerRepo.Get(ctx, f.warehouseID, f.v1)
	require.NoError(t, err)
	assert.EqualValues(t, 48, entry.Quantity)

	ref := order.OrderNumber
	movements, err := f.ledgerRepo.Movements(ctx, ledger.MovementFilter{Reference: &ref})
	require.NoError(t, err)
	require.Len(t, movements, 2)
	for _, m := range movements {
		assert.Equal(t, ledger.MovementSale, m.Type)
	}
}

func TestCreate_InsufficientStockRollsBackWholeOrder(t *testing.T) {
	f := newOrderFixture(t)
	f.seedStock(t, f.v1, 50)
	f.seedStock(t, f.v2, 1)
	ctx := context.Background()

	_, err := f.service.Create(ctx, CreateRequest{
		Items: []CreateItem{
			{VariantID: f.v1, Quantity: 2},
			{VariantID: f.v2, Quantity: 5},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// First line's consumption rolled back with the rest.
	entry, err := f.ledgerRepo.Get(ctx, f.warehouseID, f.v1)
	require.NoError(t, err)
	assert.EqualValues(t, 50, entry.Quantity)

	found, err := f.ordersRepo.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestCreate_ConsumesLegacyVariantStock(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	// No ledger row for this variant, only the legacy catalog counter.
	f.variants.Put(&variant.Variant{
		ID: f.v1, ProductID: id.New(), ProductName: "Mouse", SKU: "MSE-1",
		Price: types.MustMoney("25.00"), LegacyStock: 10, IsActive: true,
	})

	order, err := f.service.Create(ctx, CreateRequest{
		Items: []CreateItem{{VariantID: f.v1, Quantity: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, order.Status)

	entry, err := f.ledgerRepo.Get(ctx, f.warehouseID, f.v1)
	require.NoError(t, err)
	assert.EqualValues(t, 6, entry.Quantity)
}

func TestCancel_RestoresStockOnce(t *testing.T) {
	f := newOrderFixture(t)
	f.seedStock(t, f.v1, 50)
	ctx := context.Background()

	order, err := f.service.Create(ctx, CreateRequest{
		Items: []CreateItem{{VariantID: f.v1, Quantity: 10}},
	})
	require.NoError(t, err)

	cancelled, err := f.service.Cancel(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	entry, err := f.ledgerRepo.Get(ctx, f.warehouseID, f.v1)
	require.NoError(t, err)
	assert.EqualValues(t, 50, entry.Quantity)

	// A second cancel is rejected, so stock is never restored twice.
	_, err = f.service.Cancel(ctx, order.ID)
	require.Error(t, err)

	entry, err = f.ledgerRepo.Get(ctx, f.warehouseID, f.v1)
	require.NoError(t, err)
	assert.EqualValues(t, 50, entry.Quantity)

	qty, sum, err := f.engine.Reconcile(ctx, f.warehouseID, f.v1)
	require.NoError(t, err)
	assert.Equal(t, qty, sum)
}

func TestCancel_RejectedAfterShipment(t *testing.T) {
	f := newOrderFixture(t)
	f.seedStock(t, f.v1, 50)
	ctx := context.Background()

	order, err := f.service.Create(ctx, CreateRequest{
		Items: []CreateItem{{VariantID: f.v1, Quantity: 5}},
	})
	require.NoError(t, err)

	_, err = f.service.UpdateStatus(ctx, order.ID, StatusShipped)
	require.NoError(t, err)

	_, err = f.service.Cancel(ctx, order.ID)
	require.Error(t, err)

	entry, err := f.ledgerRepo.Get(ctx, f.warehouseID, f.v1)
	require.NoError(t, err)
	assert.EqualValues(t, 45, entry.Quantity, "shipped orders keep their consumption")
}

func TestUpdateStatus_ForwardOnly(t *testing.T) {
	f := newOrderFixture(t)
	f.seedStock(t, f.v1, 50)
	ctx := context.Background()

	order, err := f.service.Create(ctx, CreateRequest{
		Items: []CreateItem{{VariantID: f.v1, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.service.UpdateStatus(ctx, order.ID, StatusProcessing)
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(ctx, order.ID, StatusShipped)
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(ctx, order.ID, StatusDelivered)
	require.NoError(t, err)

	// Delivered is terminal.
	_, err = f.service.UpdateStatus(ctx, order.ID, StatusProcessing)
	require.Error(t, err)

	// Cancellation must not bypass stock restoration.
	_, err = f.service.UpdateStatus(ctx, order.ID, StatusCancelled)
	require.Error(t, err)
}

func TestCreate_RejectsInactiveVariant(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	f.variants.Put(&variant.Variant{
		ID: f.v1, ProductID: id.New(), ProductName: "Mouse", SKU: "MSE-1",
		Price: types.MustMoney("25.00"), LegacyStock: 10, IsActive: false,
	})

	_, err := f.service.Create(ctx, CreateRequest{
		Items: []CreateItem{{VariantID: f.v1, Quantity: 1}},
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}
