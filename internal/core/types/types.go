// Package types provides common numeric types for the platform.
//
// Stock quantities are whole units (int64); monetary values use
// decimal.Decimal to avoid floating-point errors. Money is rounded to
// 2 decimal places, half-up, at the single boundary where a unit rate
// is multiplied by a quantity.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
type Money = decimal.Decimal

// MoneyScale is the number of decimal places stored for monetary values.
const MoneyScale = 2

// NewMoneyFromString creates a Money value from a string.
// This is the preferred constructor for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ZeroMoney returns zero Money value.
func ZeroMoney() Money {
	return decimal.Zero
}

// LineTotal computes unitRate x quantity rounded to 2 decimal places,
// half away from zero. This is the only place rounding happens; sums of
// line totals are exact.
func LineTotal(unitRate Money, quantity int64) Money {
	return unitRate.Mul(decimal.NewFromInt(quantity)).Round(MoneyScale)
}

// Percentage applies rate/100 to amount and rounds to 2 decimal places,
// half away from zero (used for tax calculation).
func Percentage(amount Money, rate Money) Money {
	return amount.Mul(rate).Div(decimal.NewFromInt(100)).Round(MoneyScale)
}
