package model

import "github.com/shopspring/decimal"

// Section is a statutory deduction section of the Income Tax Act.
type Section string

const (
	Section80C     Section = "80C"  // ELSS, PPF, NSC, life insurance
	Section80D     Section = "80D"  // health insurance premiums
	Section24B     Section = "24b"  // home loan interest
	Section80G     Section = "80G"  // charitable donations
	Section80TTA   Section = "80TTA" // savings account interest
	Section80E     Section = "80E"  // education loan interest
	Section80EE    Section = "80EE" // first-time home buyer interest
)

// Sections lists the ledger sections in reporting order.
func Sections() []Section {
	return []Section{
		Section80C, Section80D, Section24B,
		Section80G, Section80TTA, Section80E,
	}
}

// DeductionLedger accumulates claimed amounts per section. Values never
// exceed the section's statutory limit where one exists.
type DeductionLedger map[Section]decimal.Decimal

// Total sums every section in the ledger.
func (l DeductionLedger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range l {
		total = total.Add(amount)
	}
	return total
}

// Regime is one of the two mutually exclusive statutory tax rule sets.
type Regime string

const (
	RegimeOld Regime = "old"
	RegimeNew Regime = "new"
)

// TaxResult is the outcome of one tax computation request. Immutable
// once produced; persisted as-is.
type TaxResult struct {
	TotalIncome       decimal.Decimal `json:"total_income"`
	TaxableIncome     decimal.Decimal `json:"taxable_income"`
	OldRegimeTax      decimal.Decimal `json:"old_regime_tax"`
	NewRegimeTax      decimal.Decimal `json:"new_regime_tax"`
	TaxSaved          decimal.Decimal `json:"tax_saved"`
	RecommendedRegime Regime          `json:"recommended_regime"`
	Deductions        DeductionLedger `json:"deductions"`
	Recommendations   []string        `json:"recommendations"`
}
