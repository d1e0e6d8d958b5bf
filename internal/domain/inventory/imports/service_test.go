package imports

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
	"voltstore/internal/domain/catalogs/warehouse"
	"voltstore/internal/domain/inventory/ledger"
)

type importFixture struct {
	service    *Service
	ledgerRepo *ledger.MockRepository
	engine     *ledger.Engine

	warehouseID id.ID
	v1, v2      id.ID
}

func newImportFixture(t *testing.T) *importFixture {
	t.Helper()

	f := &importFixture{
		ledgerRepo:  ledger.NewMockRepository(),
		warehouseID: id.New(),
		v1:          id.New(),
		v2:          id.New(),
	}

	importsRepo := NewMockRepository()
	txm := &ledger.MockTxManager{
		Repo:  f.ledgerRepo,
		Extra: []ledger.Snapshotter{importsRepo},
	}

	variants := variant.NewMockStore()
	variants.Put(&variant.Variant{
		ID: f.v1, ProductID: id.New(), ProductName: "Cable", SKU: "CBL-1",
		Price: types.MustMoney("4.99"), IsActive: true,
	})
	variants.Put(&variant.Variant{
		ID: f.v2, ProductID: id.New(), ProductName: "Adapter", SKU: "ADP-2",
		Price: types.MustMoney("9.99"), IsActive: true,
	})

	warehouses := warehouse.NewMockRepository()
	wh := warehouse.NewWarehouse("MAIN", "Main warehouse")
	wh.ID = f.warehouseID
	require.NoError(t, warehouses.Create(context.Background(), wh))

	var seq int
	num := &numerator.MockGenerator{
		GetNextNumberFunc: func(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
			seq++
			return fmt.Sprintf("%s-2026-%05d", cfg.Prefix, seq), nil
		},
	}

	f.engine = ledger.NewEngine(f.ledgerRepo, variants, txm, num)
	f.service = NewService(importsRepo, f.engine, warehouses, variants, txm, num, audit.NopRecorder{})

	return f
}

func (f *importFixture) createTwoLineImport(t *testing.T) *StockImport {
	t.Helper()
	imp, err := f.service.Create(context.Background(), CreateRequest{
		WarehouseID: f.warehouseID,
		Items: []CreateItem{
			{VariantID: f.v1, QuantityOrdered: 5, UnitCost: types.MustMoney("10.00")},
			{VariantID: f.v2, QuantityOrdered: 3, UnitCost: types.MustMoney("2.333")},
		},
	})
	require.NoError(t, err)
	return imp
}

func TestCreate_FixesTotalsAndNumber(t *testing.T) {
	f := newImportFixture(t)
	imp := f.createTwoLineImport(t)

	assert.Equal(t, StatusPending, imp.Status)
	assert.Equal(t, "IMP-2026-00001", imp.ImportNumber)
	require.Len(t, imp.Items, 2)

	// 5 x 10.00 = 50.00; 3 x 2.333 = 6.999 rounded to 7.00.
	assert.True(t, imp.Items[0].TotalCost.Equal(types.MustMoney("50.00")))
	assert.True(t, imp.Items[1].TotalCost.Equal(types.MustMoney("7.00")))
	assert.True(t, imp.TotalCost.Equal(types.MustMoney("57.00")))
}

func TestCreate_RejectsInvalidLines(t *testing.T) {
	f := newImportFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, CreateRequest{WarehouseID: f.warehouseID})
	require.Error(t, err)

	_, err = f.service.Create(ctx, CreateRequest{
		WarehouseID: f.warehouseID,
		Items: []CreateItem{
			{VariantID: f.v1, QuantityOrdered: 0, UnitCost: types.MustMoney("1.00")},
		},
	})
	require.Error(t, err)

	_, err = f.service.Create(ctx, CreateRequest{
		WarehouseID: f.warehouseID,
		Items: []CreateItem{
			{VariantID: id.New(), QuantityOrdered: 1, UnitCost: types.MustMoney("1.00")},
		},
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestReceive_FullBatchCompletesImport(t *testing.T) {
	f := newImportFixture(t)
	imp := f.createTwoLineImport(t)
	ctx := context.Background()

	received, err := f.service.Receive(ctx, imp.ID, []ReceiptLine{
		{ItemID: imp.Items[0].ID, Quantity: 5},
		{ItemID: imp.Items[1].ID, Quantity: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusReceived, received.Status)
	require.NotNil(t, received.ReceivedDate)

	entry, err := f.ledgerRepo.Get(ctx, f.warehouseID, f.v1)
	require.NoError(t, err)
	assert.EqualValues(t, 5, entry.Quantity)
	require.NotNil(t, entry.LastRestockedAt)

	entry, err = f.ledgerRepo.Get(ctx, f.warehouseID, f.v2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, entry.Quantity)

	ref := imp.ImportNumber
	movements, err := f.ledgerRepo.Movements(ctx, ledger.MovementFilter{Reference: &ref})
	require.NoError(t, err)
	assert.Len(t, movements, 2)
	for _, m := range movements {
		assert.Equal(t, ledger.MovementImport, m.Type)
	}
}

func TestReceive_PartialThenComplete(t *testing.T) {
	f := newImportFixture(t)
	imp := f.createTwoLineImport(t)
	ctx := context.Background()

	partial, err := f.service.Receive(ctx, imp.ID, []ReceiptLine{
		{ItemID: imp.Items[0].ID, Quantity: 5},
		{ItemID: imp.Items[1].ID, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPartiallyReceived, partial.Status)
	require.NotNil(t, partial.ReceivedDate)

	done, err := f.service.Receive(ctx, imp.ID, []ReceiptLine{
		{ItemID: imp.Items[1].ID, Quantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusReceived, done.Status)

	entry, err := f.ledgerRepo.Get(ctx, f.warehouseID, f.v2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, entry.Quantity)
}

func TestReceive_CumulativeOverReceiptRollsBackBatch(t *testing.T) {
	f := newImportFixture(t)
	imp := f.createTwoLineImport(t)
	ctx := context.Background()

	// First line is fine, second exceeds its remaining quantity.
	_, err := f.service.Receive(ctx, imp.ID, []ReceiptLine{
		{ItemID: imp.Items[0].ID, Quantity: 5},
		{ItemID: imp.Items[1].ID, Quantity: 4},
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeOverReceipt, appErr.Code)

	// The whole batch rolled back: nothing received, no ledger rows.
	reloaded, err := f.service.GetByID(ctx, imp.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, reloaded.Status)
	assert.EqualValues(t, 0, reloaded.Items[0].QuantityReceived)
	assert.EqualValues(t, 0, reloaded.Items[1].QuantityReceived)

	_, err = f.ledgerRepo.Get(ctx, f.warehouseID, f.v1)
	assert.True(t, apperror.IsNotFound(err))
}

func TestReceive_RejectsTerminalImports(t *testing.T) {
	f := newImportFixture(t)
	imp := f.createTwoLineImport(t)
	ctx := context.Background()

	_, err := f.service.Receive(ctx, imp.ID, []ReceiptLine{
		{ItemID: imp.Items[0].ID, Quantity: 5},
		{ItemID: imp.Items[1].ID, Quantity: 3},
	})
	require.NoError(t, err)

	_, err = f.service.Receive(ctx, imp.ID, []ReceiptLine{
		{ItemID: imp.Items[0].ID, Quantity: 1},
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeAlreadyReceived, appErr.Code)
}

func TestCancel_OnlyPending(t *testing.T) {
	f := newImportFixture(t)
	ctx := context.Background()

	imp := f.createTwoLineImport(t)
	cancelled, err := f.service.Cancel(ctx, imp.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	// Receiving against a cancelled import fails.
	_, err = f.service.Receive(ctx, imp.ID, []ReceiptLine{
		{ItemID: imp.Items[0].ID, Quantity: 1},
	})
	require.Error(t, err)

	// Partially received imports cannot be cancelled.
	imp2 := f.createTwoLineImport(t)
	_, err = f.service.Receive(ctx, imp2.ID, []ReceiptLine{
		{ItemID: imp2.Items[0].ID, Quantity: 1},
	})
	require.NoError(t, err)

	_, err = f.service.Cancel(ctx, imp2.ID)
	require.Error(t, err)
}
