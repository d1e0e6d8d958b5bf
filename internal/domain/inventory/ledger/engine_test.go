package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltstore/internal/core/apperror"
	"voltstore/internal/core/id"
	"voltstore/internal/core/numerator"
	"voltstore/internal/core/types"
	"voltstore/internal/domain/catalogs/variant"
)

type engineFixture struct {
	engine   *Engine
	repo     *MockRepository
	variants *variant.MockStore

	w1, w2 id.ID
	v1     id.ID
}

func newEngineFixture(t *testing.T, legacyStock int64) *engineFixture {
	t.Helper()

	repo := NewMockRepository()
	variants := variant.NewMockStore()
	txm := &MockTxManager{Repo: repo}
	num := &numerator.MockGenerator{}

	f := &engineFixture{
		engine:   NewEngine(repo, variants, txm, num),
		repo:     repo,
		variants: variants,
		w1:       id.New(),
		w2:       id.New(),
		v1:       id.New(),
	}

	variants.Put(&variant.Variant{
		ID:          f.v1,
		ProductID:   id.New(),
		ProductName: "Charger 65W",
		SKU:         "CHG-65",
		Price:       types.MustMoney("29.99"),
		LegacyStock: legacyStock,
		IsActive:    true,
	})

	return f
}

func TestAdjust_CreatesEntryAndMovement(t *testing.T) {
	f := newEngineFixture(t, 0)
	ctx := context.Background()

	entry, err := f.engine.Adjust(ctx, f.w1, f.v1, 50, "initial stock")
	require.NoError(t, err)
	assert.EqualValues(t, 50, entry.Quantity)
	assert.EqualValues(t, DefaultLowStockThreshold, entry.LowStockThreshold)

	qty, sum, err := f.engine.Reconcile(ctx, f.w1, f.v1)
	require.NoError(t, err)
	assert.Equal(t, qty, sum)

	movements, err := f.engine.Movements(ctx, MovementFilter{VariantID: &f.v1})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, MovementAdjustment, movements[0].Type)
	assert.EqualValues(t, 50, movements[0].Delta)
	assert.Equal(t, "initial stock", movements[0].Notes)
}

func TestAdjust_RejectsNegativeBeyondStock(t *testing.T) {
	f := newEngineFixture(t, 0)
	ctx := context.Background()

	_, err := f.engine.Adjust(ctx, f.w1, f.v1, 10, "seed")
	require.NoError(t, err)

	_, err = f.engine.Adjust(ctx, f.w1, f.v1, -20, "oversell")
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// State unchanged after the rejected adjustment.
	entry, err := f.engine.GetEntry(ctx, f.w1, f.v1)
	require.NoError(t, err)
	assert.EqualValues(t, 10, entry.Quantity)

	movements, err := f.engine.Movements(ctx, MovementFilter{VariantID: &f.v1})
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}

func TestAdjust_RejectsZeroDelta(t *testing.T) {
	f := newEngineFixture(t, 0)

	_, err := f.engine.Adjust(context.Background(), f.w1, f.v1, 0, "noop")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestConsumeRestore_RoundTrip(t *testing.T) {
	f := newEngineFixture(t, 0)
	ctx := context.Background()

	_, err := f.engine.Adjust(ctx, f.w1, f.v1, 50, "initial stock")
	require.NoError(t, err)

	_, err = f.engine.ConsumeForOrder(ctx, f.w1, f.v1, 10, "ORD-1")
	require.NoError(t, err)

	entry, err := f.engine.RestoreForCancel(ctx, f.w1, f.v1, 10, "ORD-1")
	require.NoError(t, err)
	assert.EqualValues(t, 50, entry.Quantity)

	movements, err := f.engine.Movements(ctx, MovementFilter{VariantID: &f.v1})
	require.NoError(t, err)
	require.Len(t, movements, 3)

	deltas := []int64{movements[0].Delta, movements[1].Delta, movements[2].Delta}
	assert.Equal(t, []int64{50, -10, 10}, deltas)

	qty, sum, err := f.engine.Reconcile(ctx, f.w1, f.v1)
	require.NoError(t, err)
	assert.EqualValues(t, 50, qty)
	assert.Equal(t, qty, sum)
}

func TestTransfer_InsufficientLeavesBothUnchanged(t *testing.T) {
	f := newEngineFixture(t, 0)
	ctx := context.Background()

	_, err := f.engine.Adjust(ctx, f.w1, f.v1, 15, "seed")
	require.NoError(t, err)

	_, _, err = f.engine.Transfer(ctx, f.w1, f.w2, f.v1, 20)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	entry, err := f.engine.GetEntry(ctx, f.w1, f.v1)
	require.NoError(t, err)
	assert.EqualValues(t, 15, entry.Quantity)

	// Target row created inside the failed transaction must not persist.
	_, err = f.repo.Get(ctx, f.w2, f.v1)
	assert.True(t, apperror.IsNotFound(err))
}

func TestTransfer_ConservesTotalAndSharesReference(t *testing.T) {
	f := newEngineFixture(t, 0)
	ctx := context.Background()

	_, err := f.engine.Adjust(ctx, f.w1, f.v1, 15, "seed")
	require.NoError(t, err)

	src, tgt, err := f.engine.Transfer(ctx, f.w1, f.w2, f.v1, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 10, src.Quantity)
	assert.EqualValues(t, 5, tgt.Quantity)
	assert.EqualValues(t, 15, src.Quantity+tgt.Quantity)

	transferType := MovementTransfer
	movements, err := f.engine.Movements(ctx, MovementFilter{Type: &transferType})
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.NotEmpty(t, movements[0].Reference)
	assert.Equal(t, movements[0].Reference, movements[1].Reference)
	assert.EqualValues(t, 0, movements[0].Delta+movements[1].Delta)

	for _, pair := range [][2]id.ID{{f.w1, f.v1}, {f.w2, f.v1}} {
		qty, sum, err := f.engine.Reconcile(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.Equal(t, qty, sum)
	}
}

func TestConsume_SeedsEntryFromLegacyStock(t *testing.T) {
	f := newEngineFixture(t, 30)
	ctx := context.Background()

	entry, err := f.engine.ConsumeForOrder(ctx, f.w1, f.v1, 10, "ORD-7")
	require.NoError(t, err)
	assert.EqualValues(t, 20, entry.Quantity)

	// Opening balance plus the sale keep the log reconcilable.
	movements, err := f.engine.Movements(ctx, MovementFilter{VariantID: &f.v1})
	require.NoError(t, err)
	require.Len(t, movements, 2)
	assert.Equal(t, MovementAdjustment, movements[0].Type)
	assert.EqualValues(t, 30, movements[0].Delta)
	assert.Equal(t, MovementSale, movements[1].Type)
	assert.EqualValues(t, -10, movements[1].Delta)

	qty, sum, err := f.engine.Reconcile(ctx, f.w1, f.v1)
	require.NoError(t, err)
	assert.Equal(t, qty, sum)

	// Legacy counter is absorbed exactly once.
	v, err := f.variants.GetVariant(ctx, f.v1)
	require.NoError(t, err)
	assert.EqualValues(t, 0, v.LegacyStock)
}

func TestConsume_InsufficientAvailable(t *testing.T) {
	f := newEngineFixture(t, 0)
	ctx := context.Background()

	_, err := f.engine.Adjust(ctx, f.w1, f.v1, 5, "seed")
	require.NoError(t, err)

	_, err = f.engine.ConsumeForOrder(ctx, f.w1, f.v1, 8, "ORD-9")
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	entry, err := f.engine.GetEntry(ctx, f.w1, f.v1)
	require.NoError(t, err)
	assert.EqualValues(t, 5, entry.Quantity)
}

func TestReceiveStock_StampsLastRestockedAt(t *testing.T) {
	f := newEngineFixture(t, 0)
	ctx := context.Background()

	entry, err := f.engine.ReceiveStock(ctx, f.w1, f.v1, 40, "IMP-2026-00001")
	require.NoError(t, err)
	assert.EqualValues(t, 40, entry.Quantity)
	require.NotNil(t, entry.LastRestockedAt)

	movements, err := f.engine.Movements(ctx, MovementFilter{VariantID: &f.v1})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, MovementImport, movements[0].Type)
	assert.Equal(t, "IMP-2026-00001", movements[0].Reference)
}

func TestRecordDamage(t *testing.T) {
	f := newEngineFixture(t, 0)
	ctx := context.Background()

	_, err := f.engine.Adjust(ctx, f.w1, f.v1, 12, "seed")
	require.NoError(t, err)

	entry, err := f.engine.RecordDamage(ctx, f.w1, f.v1, 2, "water damage")
	require.NoError(t, err)
	assert.EqualValues(t, 10, entry.Quantity)

	damaged := MovementDamaged
	movements, err := f.engine.Movements(ctx, MovementFilter{Type: &damaged})
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.EqualValues(t, -2, movements[0].Delta)
}

func TestGetEntry_SyntheticFallback(t *testing.T) {
	f := newEngineFixture(t, 7)
	ctx := context.Background()

	entry, err := f.engine.GetEntry(ctx, f.w1, f.v1)
	require.NoError(t, err)
	assert.True(t, entry.Synthetic)
	assert.EqualValues(t, 7, entry.Quantity)
	assert.EqualValues(t, DefaultLowStockThreshold, entry.LowStockThreshold)

	// Synthetic reads must not persist anything.
	_, err = f.repo.Get(ctx, f.w1, f.v1)
	assert.True(t, apperror.IsNotFound(err))

	// A real entry supersedes the synthetic one permanently.
	_, err = f.engine.Adjust(ctx, f.w1, f.v1, 5, "real row")
	require.NoError(t, err)

	entry, err = f.engine.GetEntry(ctx, f.w1, f.v1)
	require.NoError(t, err)
	assert.False(t, entry.Synthetic)
	assert.EqualValues(t, 5, entry.Quantity)
}

func TestAlertHook_FiresOnceAfterCommit(t *testing.T) {
	f := newEngineFixture(t, 0)
	ctx := context.Background()

	var fired []id.ID
	f.engine.SetAlertHook(func(ctx context.Context, warehouseID, variantID id.ID) {
		fired = append(fired, warehouseID)
	})

	_, err := f.engine.Adjust(ctx, f.w1, f.v1, 10, "seed")
	require.NoError(t, err)
	assert.Equal(t, []id.ID{f.w1}, fired)

	// Failed operations do not fire the hook.
	fired = nil
	_, err = f.engine.Adjust(ctx, f.w1, f.v1, -99, "oversell")
	require.Error(t, err)
	assert.Empty(t, fired)

	// Transfers fire for both sides.
	fired = nil
	_, _, err = f.engine.Transfer(ctx, f.w1, f.w2, f.v1, 4)
	require.NoError(t, err)
	assert.ElementsMatch(t, []id.ID{f.w1, f.w2}, fired)
}

func TestAlertHook_DeferredToOuterTransactionOwner(t *testing.T) {
	f := newEngineFixture(t, 0)
	ctx := context.Background()
	txm := &MockTxManager{Repo: f.repo}

	var fired int
	f.engine.SetAlertHook(func(ctx context.Context, warehouseID, variantID id.ID) {
		fired++
	})

	err := txm.RunInTransaction(ctx, func(ctx context.Context) error {
		_, err := f.engine.Adjust(ctx, f.w1, f.v1, 10, "inside outer tx")
		return err
	})
	require.NoError(t, err)
	assert.Zero(t, fired, "hook belongs to the outer transaction owner")
}
