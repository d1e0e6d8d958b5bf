package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name     string
		rate     string
		quantity int64
		want     string
	}{
		{"whole units", "10.00", 5, "50.00"},
		{"rounds half up", "0.125", 1, "0.13"},
		{"rounds half up at scale boundary", "1.005", 1, "1.01"},
		{"three decimal rate", "2.333", 3, "7.00"},
		{"zero quantity", "99.99", 0, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineTotal(MustMoney(tt.rate), tt.quantity)
			assert.True(t, got.Equal(MustMoney(tt.want)),
				"LineTotal(%s, %d) = %s, want %s", tt.rate, tt.quantity, got, tt.want)
		})
	}
}

func TestPercentage(t *testing.T) {
	// 8% tax on 12.49 is 0.9992, rounded half-up to 1.00.
	got := Percentage(MustMoney("12.49"), MustMoney("8"))
	assert.True(t, got.Equal(MustMoney("1.00")), "got %s", got)

	got = Percentage(MustMoney("100.00"), MustMoney("8"))
	assert.True(t, got.Equal(MustMoney("8.00")), "got %s", got)
}
