package alerts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleSet_MutesMatchingAlerts(t *testing.T) {
	ctx := context.Background()
	rs := NewRuleSet(ctx, []string{
		`alert_type == "LOW_STOCK" && warehouse_code == "RETURNS"`,
	})
	assert.Equal(t, 1, rs.Len())

	muted := rs.Muted(ctx, MuteInput{
		SKU:           "HUB-7",
		WarehouseCode: "RETURNS",
		AlertType:     TypeLowStock,
		Available:     5,
		Threshold:     10,
	})
	assert.True(t, muted)

	// Different warehouse still notifies.
	muted = rs.Muted(ctx, MuteInput{
		SKU:           "HUB-7",
		WarehouseCode: "MAIN",
		AlertType:     TypeLowStock,
		Available:     5,
		Threshold:     10,
	})
	assert.False(t, muted)

	// OUT_OF_STOCK is never matched by this rule.
	muted = rs.Muted(ctx, MuteInput{
		SKU:           "HUB-7",
		WarehouseCode: "RETURNS",
		AlertType:     TypeOutOfStock,
	})
	assert.False(t, muted)
}

func TestRuleSet_NumericConditions(t *testing.T) {
	ctx := context.Background()
	rs := NewRuleSet(ctx, []string{
		`available > 0 && threshold <= 5`,
	})

	assert.True(t, rs.Muted(ctx, MuteInput{Available: 2, Threshold: 5}))
	assert.False(t, rs.Muted(ctx, MuteInput{Available: 0, Threshold: 5}))
	assert.False(t, rs.Muted(ctx, MuteInput{Available: 2, Threshold: 10}))
}

func TestRuleSet_SkipsInvalidRules(t *testing.T) {
	ctx := context.Background()
	rs := NewRuleSet(ctx, []string{
		`this is not CEL`,
		`sku`, // compiles but is not boolean
		`sku == "MUTE-ME"`,
	})
	assert.Equal(t, 1, rs.Len(), "only the valid boolean rule survives")

	assert.True(t, rs.Muted(ctx, MuteInput{SKU: "MUTE-ME"}))
	assert.False(t, rs.Muted(ctx, MuteInput{SKU: "OTHER"}))
}

func TestRuleSet_EmptyNeverMutes(t *testing.T) {
	ctx := context.Background()

	rs := NewRuleSet(ctx, nil)
	assert.False(t, rs.Muted(ctx, MuteInput{SKU: "ANY", AlertType: TypeCritical}))

	var nilSet *RuleSet
	assert.False(t, nilSet.Muted(ctx, MuteInput{SKU: "ANY"}))
}
