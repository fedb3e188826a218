// Package money holds the fixed-point conventions shared by every ledger.
package money

import "github.com/shopspring/decimal"

// Scale is the number of fractional digits persisted for amounts, units and NAV.
const Scale int32 = 8

var (
	Hundred = decimal.NewFromInt(100)
	One     = decimal.NewFromInt(1)

	// Tolerance absorbs rounding when comparing a payment against the outstanding balance.
	Tolerance = decimal.RequireFromString("0.01")
)

// Round rounds d to the persisted scale.
func Round(d decimal.Decimal) decimal.Decimal { return d.Round(Scale) }

// ApplyRate returns amount × rate rounded to the persisted scale.
func ApplyRate(amount, rate decimal.Decimal) decimal.Decimal { return amount.Mul(rate).Round(Scale) }

// Percent returns amount × pct / 100 rounded to the persisted scale.
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).DivRound(Hundred, Scale)
}

// Positive reports d > 0.
func Positive(d decimal.Decimal) bool { return d.GreaterThan(decimal.Zero) }
