package money

import "github.com/shopspring/decimal"

// Round2 rounds a monetary amount to two decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Zero is the canonical zero amount.
var Zero = decimal.Zero

// FloorZero clamps negative amounts to zero. Refund arithmetic floors totals
// rather than letting them go negative.
func FloorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// FromInt builds a decimal from a whole-unit integer.
func FromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
