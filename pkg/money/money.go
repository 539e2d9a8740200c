// Package money centralises the fixed-point arithmetic conventions used for
// every monetary field in the loan service. All amounts are shopspring
// decimals; binary floating point is never used for money.
//
// Rounding mode: two decimal places, half away from zero ("half-up" for the
// positive amounts this system deals in). The schedule generator and the
// payment allocator both depend on this mode being stable, so it lives here
// and is pinned by tests.
package money

import "github.com/shopspring/decimal"

// Epsilon is the settlement tolerance: differences of at most one cent are
// treated as equal when matching a payment against an installment and when
// deciding whether an installment is fully paid.
var Epsilon = decimal.NewFromFloat(0.01)

// Round2 rounds an amount to two decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// WithinEpsilon reports whether a and b differ by no more than Epsilon.
func WithinEpsilon(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Epsilon)
}

// ClampDust returns zero when d is smaller than one cent. The schedule
// generator uses it to flatten the dust-sized trailing balance that the
// unrounded fixed-principal iteration can leave behind.
func ClampDust(d decimal.Decimal) decimal.Decimal {
	if d.LessThan(Epsilon) {
		return decimal.Zero
	}
	return d
}

// Sum adds a list of amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
