package tax

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxwise-in/taxwise/internal/model"
)

func debit(desc string, amount int64, category model.Category) model.Transaction {
	return model.Transaction{
		Date:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Description: desc,
		Amount:      decimal.NewFromInt(amount),
		Type:        model.TypeDebit,
		Category:    category,
	}
}

func credit(desc string, amount int64) model.Transaction {
	return model.Transaction{
		Date:        time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Description: desc,
		Amount:      decimal.NewFromInt(amount),
		Type:        model.TypeCredit,
		Category:    model.CategoryIncome,
	}
}

func TestExtractDeductions(t *testing.T) {
	rates := DefaultRates()

	tests := []struct {
		want         map[model.Section]string
		name         string
		transactions []model.Transaction
	}{
		{
			name: "ELSS SIP counts toward 80C",
			transactions: []model.Transaction{
				debit("SIP MUTUAL FUND - AXIS ELSS TAX SAVER", 5000, model.CategorySIP),
			},
			want: map[model.Section]string{model.Section80C: "5000"},
		},
		{
			name: "80C capped at limit",
			transactions: []model.Transaction{
				debit("PPF DEPOSIT", 100000, model.CategorySIP),
				debit("ELSS LUMPSUM", 100000, model.CategorySIP),
			},
			want: map[model.Section]string{model.Section80C: "150000"},
		},
		{
			name: "non tax-saver SIP does not count",
			transactions: []model.Transaction{
				debit("SIP MUTUAL FUND - AXIS BLUECHIP", 5000, model.CategorySIP),
			},
			want: map[model.Section]string{},
		},
		{
			name: "80D self and parents capped independently",
			transactions: []model.Transaction{
				debit("HEALTH INSURANCE PREMIUM SELF", 40000, model.CategoryInsurance),
				debit("HEALTH INSURANCE PREMIUM PARENTS", 60000, model.CategoryInsurance),
			},
			// self clipped at 25000, parents at 50000, summed.
			want: map[model.Section]string{model.Section80D: "75000"},
		},
		{
			name: "home loan EMI interest portion to 24b",
			transactions: []model.Transaction{
				debit("HOME LOAN EMI HDFC", 50000, model.CategoryEMI),
			},
			want: map[model.Section]string{model.Section24B: "35000"},
		},
		{
			name: "24b capped at limit",
			transactions: []model.Transaction{
				debit("HOME LOAN EMI HDFC", 200000, model.CategoryEMI),
				debit("HOME LOAN EMI HDFC", 200000, model.CategoryEMI),
			},
			want: map[model.Section]string{model.Section24B: "200000"},
		},
		{
			name: "80G has no cap",
			transactions: []model.Transaction{
				debit("DONATION PM RELIEF FUND", 500000, model.CategoryOther),
			},
			want: map[model.Section]string{model.Section80G: "500000"},
		},
		{
			name: "savings interest credit to 80TTA capped",
			transactions: []model.Transaction{
				credit("INTEREST ON SAVINGS ACCOUNT", 15000),
			},
			want: map[model.Section]string{model.Section80TTA: "10000"},
		},
		{
			name: "education loan EMI to 80E uncapped",
			transactions: []model.Transaction{
				debit("EDUCATION LOAN EMI SBI", 30000, model.CategoryEMI),
			},
			want: map[model.Section]string{model.Section80E: "30000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := ExtractDeductions(tt.transactions, rates)
			require.Len(t, ledger, len(tt.want))
			for section, want := range tt.want {
				assert.True(t, ledger[section].Equal(decimal.RequireFromString(want)),
					"section %s: got %s, want %s", section, ledger[section], want)
			}
		})
	}
}

func TestLedgerNeverExceedsLimits(t *testing.T) {
	rates := DefaultRates()
	transactions := []model.Transaction{
		debit("ELSS SIP", 90000, model.CategorySIP),
		debit("PPF DEPOSIT", 90000, model.CategorySIP),
		debit("NSC PURCHASE", 90000, model.CategorySIP),
		debit("HEALTH INSURANCE PREMIUM", 30000, model.CategoryInsurance),
		debit("HEALTH INSURANCE PREMIUM PARENTS", 70000, model.CategoryInsurance),
		debit("HOME LOAN EMI", 250000, model.CategoryEMI),
		debit("HOME LOAN EMI", 250000, model.CategoryEMI),
	}

	ledger := ExtractDeductions(transactions, rates)

	for section, amount := range ledger {
		limit, capped := rates.Limits[section]
		if section == model.Section80D {
			limit = rates.Limits[model.Section80D].Add(rates.HealthParentsLimit)
			capped = true
		}
		if capped {
			assert.True(t, amount.LessThanOrEqual(limit),
				"section %s exceeds limit: %s > %s", section, amount, limit)
		}
	}
}

func TestExtractionOrderIndependent(t *testing.T) {
	rates := DefaultRates()
	transactions := []model.Transaction{
		debit("ELSS SIP", 80000, model.CategorySIP),
		debit("PPF DEPOSIT", 80000, model.CategorySIP),
		debit("NSC PURCHASE", 40000, model.CategorySIP),
		debit("HEALTH INSURANCE PREMIUM", 20000, model.CategoryInsurance),
		debit("HEALTH INSURANCE PREMIUM PARENTS", 60000, model.CategoryInsurance),
		debit("HOME LOAN EMI", 150000, model.CategoryEMI),
		debit("DONATION RED CROSS", 5000, model.CategoryOther),
		credit("SAVINGS INTEREST", 8000),
	}

	baseline := ExtractDeductions(transactions, rates)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]model.Transaction, len(transactions))
		copy(shuffled, transactions)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := ExtractDeductions(shuffled, rates)
		require.Len(t, got, len(baseline))
		for section, want := range baseline {
			assert.True(t, got[section].Equal(want),
				"permutation %d: section %s got %s, want %s", i, section, got[section], want)
		}
	}
}

func TestSummarizeIncome(t *testing.T) {
	rates := DefaultRates()
	summary := Summarize([]model.Transaction{
		credit("SALARY CREDIT ACME CORP", 100000),
		credit("SALARY CREDIT ACME CORP", 100000),
		credit("UPI REFUND", 500),
		debit("GROCERY STORE", 2000, model.CategoryFood),
	}, rates)

	assert.True(t, summary.TotalIncome.Equal(decimal.NewFromInt(200000)),
		"got %s", summary.TotalIncome)
	assert.True(t, summary.CategoryTotals[model.CategoryFood].Equal(decimal.NewFromInt(2000)))
}
