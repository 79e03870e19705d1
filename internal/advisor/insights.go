package advisor

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/taxwise-in/taxwise/internal/cibil"
	"github.com/taxwise-in/taxwise/internal/classify"
	"github.com/taxwise-in/taxwise/internal/model"
)

// PersonalizedInsights merges tax, spending and credit findings into a
// single prioritized list. Any input may be nil or empty; only what is
// known contributes.
func PersonalizedInsights(taxResult *model.TaxResult, spending []classify.CategoryInsight, creditReport *model.CreditReport) []string {
	var insights []string

	if taxResult != nil {
		insights = append(insights, fmt.Sprintf(
			"The %s regime works out better for you, saving ₹%s over the other.",
			taxResult.RecommendedRegime, taxResult.TaxSaved.Round(0)))
		insights = append(insights, taxResult.Recommendations...)
	}

	if top := topDiscretionary(spending); top != nil {
		insights = append(insights, fmt.Sprintf(
			"%s is your largest discretionary spend at ₹%s (%s%% of outflow). Trimming it is the quickest way to free up money to invest.",
			top.Category, top.Total.Round(0), top.Percent))
	}

	if creditReport != nil && creditReport.Score > 0 {
		analysis := cibil.Analyze(*creditReport)
		insights = append(insights, analysis.Summary)
		insights = append(insights, analysis.Recommendations...)
	}

	return insights
}

// topDiscretionary finds the biggest spending category that is neither
// an obligation (EMI, rent, insurance) nor an investment.
func topDiscretionary(spending []classify.CategoryInsight) *classify.CategoryInsight {
	committed := map[model.Category]bool{
		model.CategoryEMI:       true,
		model.CategorySIP:       true,
		model.CategoryRent:      true,
		model.CategoryInsurance: true,
		model.CategoryIncome:    true,
	}

	for i := range spending {
		if committed[spending[i].Category] {
			continue
		}
		if spending[i].Total.GreaterThan(decimal.Zero) {
			return &spending[i]
		}
	}
	return nil
}
