package tax

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/taxwise-in/taxwise/internal/common"
	"github.com/taxwise-in/taxwise/internal/model"
)

// Engine orchestrates the bracket engine and the deduction extractor
// across both regimes and produces comparison recommendations.
type Engine struct {
	logger *slog.Logger
	rates  Rates
}

// NewEngine validates the reference tables and returns an engine.
// Table errors are configuration errors: fail fast, serve nothing.
func NewEngine(rates Rates, logger *slog.Logger) (*Engine, error) {
	if err := rates.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tax tables: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{rates: rates, logger: logger}, nil
}

// Rates exposes the engine's reference tables (read-only by convention).
func (e *Engine) Rates() Rates {
	return e.rates
}

// Compute derives total income from the transactions themselves and
// delegates to Recommend.
func (e *Engine) Compute(transactions []model.Transaction) (*model.TaxResult, error) {
	summary := Summarize(transactions, e.rates)
	return e.recommend(summary.TotalIncome, summary)
}

// Recommend computes liability under both regimes for an explicit total
// income. Non-positive income is rejected rather than silently taxed at
// zero, so upstream parsing bugs surface immediately.
func (e *Engine) Recommend(totalIncome decimal.Decimal, transactions []model.Transaction) (*model.TaxResult, error) {
	return e.recommend(totalIncome, Summarize(transactions, e.rates))
}

func (e *Engine) recommend(totalIncome decimal.Decimal, summary FinancialSummary) (*model.TaxResult, error) {
	if totalIncome.Sign() <= 0 {
		return nil, common.NewValidationError("total_income", "must be positive")
	}

	ledger := summary.Ledger

	taxableOld := clampZero(totalIncome.Sub(ledger.Total()).Sub(e.rates.StandardDeduction))
	oldTax := WithCess(SlabTax(taxableOld, e.rates.OldRegime))

	// The new regime ignores itemized deductions.
	taxableNew := clampZero(totalIncome.Sub(e.rates.StandardDeduction))
	newTax := WithCess(SlabTax(taxableNew, e.rates.NewRegime))

	recommended := model.RegimeNew
	if oldTax.LessThan(newTax) {
		recommended = model.RegimeOld
	}

	result := &model.TaxResult{
		TotalIncome:       totalIncome,
		TaxableIncome:     taxableOld,
		OldRegimeTax:      oldTax,
		NewRegimeTax:      newTax,
		TaxSaved:          oldTax.Sub(newTax).Abs(),
		RecommendedRegime: recommended,
		Deductions:        ledger,
		Recommendations:   e.buildRecommendations(ledger, taxableOld, oldTax, newTax),
	}

	e.logger.Info("tax computed",
		"total_income", totalIncome.StringFixed(0),
		"old_regime_tax", oldTax.StringFixed(2),
		"new_regime_tax", newTax.StringFixed(2),
		"recommended_regime", recommended)

	return result, nil
}

// buildRecommendations emits the ordered, deterministic suggestion list:
// per-section headroom with an estimated marginal-rate saving, then the
// regime comparison, then the high-income NPS nudge.
func (e *Engine) buildRecommendations(ledger model.DeductionLedger, taxableOld, oldTax, newTax decimal.Decimal) []string {
	var recommendations []string

	if headroom := e.headroom(ledger, model.Section80C); headroom.IsPositive() {
		recommendations = append(recommendations, fmt.Sprintf(
			"Invest %s more in ELSS/PPF/NSC to maximize your 80C benefits and save about %s in taxes.",
			inr(headroom), inr(headroom.Mul(e.rates.AssumedMarginalRate))))
	}

	if headroom := e.headroom(ledger, model.Section80D); headroom.IsPositive() {
		recommendations = append(recommendations, fmt.Sprintf(
			"Consider health insurance of %s to claim the 80D deduction and save about %s in taxes.",
			inr(headroom), inr(headroom.Mul(e.rates.AssumedMarginalRate))))
	}

	if ledger[model.Section24B].IsZero() && taxableOld.GreaterThan(rupees(500000)) {
		recommendations = append(recommendations, fmt.Sprintf(
			"Consider a home loan to claim up to %s deduction on interest under section 24(b).",
			inr(e.rates.Limits[model.Section24B])))
	}

	if headroom := e.headroom(ledger, model.Section80TTA); headroom.IsPositive() {
		recommendations = append(recommendations, fmt.Sprintf(
			"Optimize your savings account interest to claim the full %s deduction under 80TTA.",
			inr(e.rates.Limits[model.Section80TTA])))
	}

	if oldTax.LessThan(newTax) {
		recommendations = append(recommendations, fmt.Sprintf(
			"Stick with the Old Tax Regime to save %s compared to the New Regime.",
			inr(newTax.Sub(oldTax))))
	} else {
		recommendations = append(recommendations, fmt.Sprintf(
			"Switch to the New Tax Regime to save %s compared to the Old Regime.",
			inr(oldTax.Sub(newTax))))
	}

	if taxableOld.GreaterThan(rupees(1000000)) {
		recommendations = append(recommendations,
			"Consider tax-free bonds and NPS for additional tax benefits at your income level.")
	}

	return recommendations
}

func (e *Engine) headroom(ledger model.DeductionLedger, section model.Section) decimal.Decimal {
	limit, capped := e.rates.Limits[section]
	if !capped {
		return decimal.Zero
	}
	return clampZero(limit.Sub(ledger[section]))
}

// Projection compares current tax against tax after hypothetical
// additional deductible investments. Only the old regime benefits.
type Projection struct {
	CurrentOldTax   decimal.Decimal `json:"current_tax_old_regime"`
	CurrentNewTax   decimal.Decimal `json:"current_tax_new_regime"`
	ProjectedOldTax decimal.Decimal `json:"projected_tax_old_regime"`
	ProjectedNewTax decimal.Decimal `json:"projected_tax_new_regime"`
	OldRegimeSaving decimal.Decimal `json:"tax_savings_old_regime"`
	TotalInvestment decimal.Decimal `json:"total_investment_needed"`
}

// Projections estimates the effect of additional section investments on
// the current year's liability.
func (e *Engine) Projections(currentIncome decimal.Decimal, additional map[model.Section]decimal.Decimal) (*Projection, error) {
	if currentIncome.Sign() <= 0 {
		return nil, common.NewValidationError("current_income", "must be positive")
	}

	taxable := clampZero(currentIncome.Sub(e.rates.StandardDeduction))
	currentOld := WithCess(SlabTax(taxable, e.rates.OldRegime))
	currentNew := WithCess(SlabTax(taxable, e.rates.NewRegime))

	totalAdditional := decimal.Zero
	for _, amount := range additional {
		totalAdditional = totalAdditional.Add(amount)
	}

	projectedOld := WithCess(SlabTax(clampZero(taxable.Sub(totalAdditional)), e.rates.OldRegime))

	return &Projection{
		CurrentOldTax:   currentOld,
		CurrentNewTax:   currentNew,
		ProjectedOldTax: projectedOld,
		ProjectedNewTax: currentNew,
		OldRegimeSaving: currentOld.Sub(projectedOld),
		TotalInvestment: totalAdditional,
	}, nil
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func inr(d decimal.Decimal) string {
	return "₹" + d.Round(0).String()
}
