// Package tax computes Indian income tax under the old and new regimes
// and extracts capped statutory deductions from categorized transactions.
package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/taxwise-in/taxwise/internal/model"
)

// Slab is one progressive bracket: income between the previous slab's
// upper bound and UpperBound is taxed at Rate. The terminal slab is
// Unbounded with a finite rate.
type Slab struct {
	UpperBound decimal.Decimal
	Rate       decimal.Decimal
	Unbounded  bool
}

// Rates is the process-wide, read-only statutory reference data for one
// financial year. Constructed once at startup; a failed Validate is
// fatal before any request is served.
type Rates struct {
	Limits              map[model.Section]decimal.Decimal
	OldRegime           []Slab
	NewRegime           []Slab
	StandardDeduction   decimal.Decimal
	HealthParentsLimit  decimal.Decimal // 80D sub-cap for parents' premiums
	AssumedMarginalRate decimal.Decimal // used for recommendation savings estimates
	EMIInterestRatio    decimal.Decimal // see DefaultRates
}

func rupees(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func rate(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// DefaultRates returns the FY 2024-25 slab tables and deduction limits.
//
// EMIInterestRatio is the fraction of a home-loan EMI treated as
// deductible interest under 24(b). 0.70 is a rough heuristic carried
// over from observed amortization schedules, not a statutory figure.
func DefaultRates() Rates {
	return Rates{
		OldRegime: []Slab{
			{UpperBound: rupees(250000), Rate: rate("0")},
			{UpperBound: rupees(500000), Rate: rate("0.05")},
			{UpperBound: rupees(1000000), Rate: rate("0.20")},
			{Unbounded: true, Rate: rate("0.30")},
		},
		NewRegime: []Slab{
			{UpperBound: rupees(300000), Rate: rate("0")},
			{UpperBound: rupees(600000), Rate: rate("0.05")},
			{UpperBound: rupees(900000), Rate: rate("0.10")},
			{UpperBound: rupees(1200000), Rate: rate("0.15")},
			{UpperBound: rupees(1500000), Rate: rate("0.20")},
			{Unbounded: true, Rate: rate("0.30")},
		},
		StandardDeduction: rupees(50000),
		// 80G and 80E have no overall cap and are intentionally absent.
		Limits: map[model.Section]decimal.Decimal{
			model.Section80C:   rupees(150000),
			model.Section80D:   rupees(25000),
			model.Section24B:   rupees(200000),
			model.Section80TTA: rupees(10000),
			model.Section80EE:  rupees(50000),
		},
		HealthParentsLimit:  rupees(50000),
		AssumedMarginalRate: rate("0.31"),
		EMIInterestRatio:    rate("0.70"),
	}
}

// Validate checks the reference tables for structural errors.
func (r Rates) Validate() error {
	for name, slabs := range map[string][]Slab{"old": r.OldRegime, "new": r.NewRegime} {
		if len(slabs) == 0 {
			return fmt.Errorf("%s regime: no slabs configured", name)
		}
		if !slabs[len(slabs)-1].Unbounded {
			return fmt.Errorf("%s regime: terminal slab must be unbounded", name)
		}
		prev := decimal.Zero
		for i, s := range slabs {
			if s.Rate.IsNegative() {
				return fmt.Errorf("%s regime: slab %d has negative rate", name, i)
			}
			if s.Unbounded {
				if i != len(slabs)-1 {
					return fmt.Errorf("%s regime: unbounded slab %d is not terminal", name, i)
				}
				continue
			}
			if !s.UpperBound.GreaterThan(prev) {
				return fmt.Errorf("%s regime: slab %d upper bound not ascending", name, i)
			}
			prev = s.UpperBound
		}
	}
	if r.StandardDeduction.IsNegative() {
		return fmt.Errorf("standard deduction is negative")
	}
	for section, limit := range r.Limits {
		if limit.IsNegative() {
			return fmt.Errorf("section %s: negative limit", section)
		}
	}
	if r.EMIInterestRatio.IsNegative() || r.EMIInterestRatio.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("EMI interest ratio must be within [0, 1]")
	}
	return nil
}
