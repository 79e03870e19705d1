package tax

import "github.com/shopspring/decimal"

var cessMultiplier = decimal.RequireFromString("1.04")

// SlabTax computes gross progressive tax (before cess) by walking the
// slabs in ascending order. Negative income is clamped to zero; strict
// input rejection happens in the recommendation engine above this.
func SlabTax(income decimal.Decimal, slabs []Slab) decimal.Decimal {
	if income.Sign() <= 0 {
		return decimal.Zero
	}

	total := decimal.Zero
	prev := decimal.Zero

	for _, slab := range slabs {
		upper := income
		if !slab.Unbounded && slab.UpperBound.LessThan(income) {
			upper = slab.UpperBound
		}
		if upper.GreaterThan(prev) {
			total = total.Add(upper.Sub(prev).Mul(slab.Rate))
		}
		if slab.Unbounded || income.LessThanOrEqual(slab.UpperBound) {
			break
		}
		prev = slab.UpperBound
	}

	return total
}

// WithCess applies the flat 4% health and education cess on top of
// gross tax. A separate step, not a slab.
func WithCess(grossTax decimal.Decimal) decimal.Decimal {
	return grossTax.Mul(cessMultiplier).Round(2)
}
