package tax

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/taxwise-in/taxwise/internal/model"
)

// FinancialSummary is what the deduction extractor learns from one pass
// over a user's transactions.
type FinancialSummary struct {
	CategoryTotals map[model.Category]decimal.Decimal
	Ledger         model.DeductionLedger
	TotalIncome    decimal.Decimal
}

// ExtractDeductions scans categorized transactions and accumulates
// capped per-section totals. The running total for a capped section is
// clipped on every addition, so the final figure is independent of
// transaction ordering.
func ExtractDeductions(transactions []model.Transaction, rates Rates) model.DeductionLedger {
	return Summarize(transactions, rates).Ledger
}

// Summarize runs the extraction rules and also tallies income and
// per-category debit totals for downstream insights.
func Summarize(transactions []model.Transaction, rates Rates) FinancialSummary {
	summary := FinancialSummary{
		CategoryTotals: make(map[model.Category]decimal.Decimal),
		Ledger:         make(model.DeductionLedger),
		TotalIncome:    decimal.Zero,
	}

	// 80D carries two sub-caps (self vs parents) tracked independently
	// and summed into the reported figure.
	healthSelf := decimal.Zero
	healthParents := decimal.Zero

	for _, txn := range transactions {
		desc := strings.ToLower(txn.Description)
		amount := txn.Amount.Abs()

		if txn.Type == model.TypeCredit {
			if containsAny(desc, "salary", "wage", "bonus") {
				summary.TotalIncome = summary.TotalIncome.Add(amount)
			}
			if strings.Contains(desc, "interest") && strings.Contains(desc, "savings") {
				addCapped(summary.Ledger, model.Section80TTA, amount, rates)
			}
			continue
		}

		summary.CategoryTotals[txn.Category] = summary.CategoryTotals[txn.Category].Add(amount)

		switch {
		case isInvestment(txn, desc):
			if containsAny(desc, "elss", "ppf", "nsc", "tax saver") {
				addCapped(summary.Ledger, model.Section80C, amount, rates)
			}
		case isHealthInsurance(txn, desc):
			if strings.Contains(desc, "parent") {
				healthParents = cappedAdd(healthParents, amount, rates.HealthParentsLimit)
			} else {
				healthSelf = cappedAdd(healthSelf, amount, rates.Limits[model.Section80D])
			}
		case isHomeLoanEMI(txn, desc):
			interest := amount.Mul(rates.EMIInterestRatio)
			addCapped(summary.Ledger, model.Section24B, interest, rates)
		case containsAny(desc, "donation", "charity"):
			addCapped(summary.Ledger, model.Section80G, amount, rates)
		case strings.Contains(desc, "education loan"):
			// Education loan EMIs are treated as interest in full.
			addCapped(summary.Ledger, model.Section80E, amount, rates)
		}
	}

	if healthTotal := healthSelf.Add(healthParents); healthTotal.IsPositive() {
		summary.Ledger[model.Section80D] = healthTotal
	}

	return summary
}

func isInvestment(txn model.Transaction, desc string) bool {
	return txn.Category == model.CategorySIP || containsAny(desc, "sip", "mutual fund", "elss", "ppf", "nsc")
}

func isHealthInsurance(txn model.Transaction, desc string) bool {
	if txn.Category != model.CategoryInsurance && !strings.Contains(desc, "insurance") {
		return false
	}
	return containsAny(desc, "health", "medical", "mediclaim")
}

func isHomeLoanEMI(txn model.Transaction, desc string) bool {
	if txn.Category != model.CategoryEMI && !containsAny(desc, "emi", "loan") {
		return false
	}
	return strings.Contains(desc, "home loan")
}

// addCapped accumulates into the ledger, clipping at the section limit
// when one is configured. Uncapped sections (80G, 80E) add in full.
func addCapped(ledger model.DeductionLedger, section model.Section, amount decimal.Decimal, rates Rates) {
	limit, capped := rates.Limits[section]
	current := ledger[section]
	if capped {
		ledger[section] = cappedAdd(current, amount, limit)
		return
	}
	ledger[section] = current.Add(amount)
}

func cappedAdd(current, amount, limit decimal.Decimal) decimal.Decimal {
	next := current.Add(amount)
	if next.GreaterThan(limit) {
		return limit
	}
	return next
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
