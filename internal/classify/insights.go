package classify

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/taxwise-in/taxwise/internal/model"
)

// CategoryInsight summarizes spending in one category.
type CategoryInsight struct {
	Category model.Category  `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Percent  decimal.Decimal `json:"percent"`
	Count    int             `json:"count"`
}

// SpendingInsights aggregates debit transactions by category, sorted by
// total descending. Credits are excluded: income is not spending.
func SpendingInsights(transactions []model.Transaction) []CategoryInsight {
	totals := make(map[model.Category]*CategoryInsight)
	grandTotal := decimal.Zero

	for _, tx := range transactions {
		if tx.Type != model.TypeDebit {
			continue
		}
		insight, exists := totals[tx.Category]
		if !exists {
			insight = &CategoryInsight{Category: tx.Category}
			totals[tx.Category] = insight
		}
		insight.Total = insight.Total.Add(tx.Amount)
		insight.Count++
		grandTotal = grandTotal.Add(tx.Amount)
	}

	insights := make([]CategoryInsight, 0, len(totals))
	for _, insight := range totals {
		if grandTotal.IsPositive() {
			insight.Percent = insight.Total.Div(grandTotal).Mul(decimal.NewFromInt(100)).Round(1)
		}
		insights = append(insights, *insight)
	}

	sort.Slice(insights, func(i, j int) bool {
		if !insights[i].Total.Equal(insights[j].Total) {
			return insights[i].Total.GreaterThan(insights[j].Total)
		}
		return insights[i].Category < insights[j].Category
	})

	return insights
}

// RecurringTotals sums recurring debits by category, surfacing the
// fixed monthly obligations (EMI, SIP, rent, premiums).
func RecurringTotals(transactions []model.Transaction) map[model.Category]decimal.Decimal {
	totals := make(map[model.Category]decimal.Decimal)
	for _, tx := range transactions {
		if tx.Type != model.TypeDebit || !tx.IsRecurring {
			continue
		}
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
	}
	return totals
}
