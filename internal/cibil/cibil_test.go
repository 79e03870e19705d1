package cibil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxwise-in/taxwise/internal/common"
	"github.com/taxwise-in/taxwise/internal/model"
)

const sampleReport = `
CIBIL Score: 745
Credit Utilization Ratio: 42%
On-time payments: 92%
Hard Inquiries (last 12 months): 5
Accounts: HDFC Credit Card, SBI Home Loan, Bajaj Personal Loan
`

func TestExtractScore(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  int
		found bool
	}{
		{"labelled score", "CIBIL Score: 782", 782, true},
		{"credit score variant", "your credit score - 650", 650, true},
		{"lowercase", "cibil score 731", 731, true},
		{"out of range", "CIBIL Score: 999", 0, false},
		{"missing", "no score here", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, found := ExtractScore(tt.text)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, score)
		})
	}
}

func TestExtractUtilization(t *testing.T) {
	value, found := ExtractUtilization("Credit Utilization: 42%")
	require.True(t, found)
	assert.Equal(t, 42.0, value)

	value, found = ExtractUtilization("utilisation ratio - 18.5%")
	require.True(t, found)
	assert.Equal(t, 18.5, value)

	_, found = ExtractUtilization("nothing relevant")
	assert.False(t, found)
}

func TestExtractPaymentHistory(t *testing.T) {
	value, found := ExtractPaymentHistory("On-time payments: 97%")
	require.True(t, found)
	assert.Equal(t, 97, value)
}

func TestExtractInquiries(t *testing.T) {
	count, found := ExtractInquiries("Hard Inquiries (last 12 months): 5")
	require.True(t, found)
	assert.Equal(t, 5, count)

	count, found = ExtractInquiries("enquiries: 2")
	require.True(t, found)
	assert.Equal(t, 2, count)
}

func TestExtractAccounts(t *testing.T) {
	accounts := ExtractAccounts("HDFC Credit Card, SBI Home Loan, another credit card")
	require.Len(t, accounts, 2)
	assert.Equal(t, "credit card", accounts[0].Type)
	assert.Equal(t, "home loan", accounts[1].Type)
}

func TestParseReport(t *testing.T) {
	report, err := ParseReport(sampleReport)
	require.NoError(t, err)

	assert.Equal(t, 745, report.Score)
	assert.Equal(t, 42.0, report.CreditUtilization)
	assert.Equal(t, 92, report.PaymentHistory)
	assert.Equal(t, 5, report.HardInquiries)
	assert.Len(t, report.Accounts, 3)
}

func TestParseReportWithoutScore(t *testing.T) {
	_, err := ParseReport("utilization: 40%")
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
}

func TestScoreBand(t *testing.T) {
	tests := []struct {
		score int
		want  Band
	}{
		{900, BandExcellent},
		{750, BandExcellent},
		{749, BandGood},
		{700, BandGood},
		{699, BandFair},
		{650, BandFair},
		{649, BandPoor},
		{550, BandPoor},
		{549, BandBad},
		{300, BandBad},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ScoreBand(tt.score), "score %d", tt.score)
	}
}

func TestUtilizationBand(t *testing.T) {
	assert.Equal(t, BandExcellent, UtilizationBand(8))
	assert.Equal(t, BandGood, UtilizationBand(25))
	assert.Equal(t, BandFair, UtilizationBand(45))
	assert.Equal(t, BandPoor, UtilizationBand(65))
	assert.Equal(t, BandBad, UtilizationBand(90))
}

func TestAnalyze(t *testing.T) {
	report, err := ParseReport(sampleReport)
	require.NoError(t, err)

	analysis := Analyze(report)
	assert.Equal(t, BandGood, analysis.Band)
	assert.Contains(t, analysis.Summary, "745")
	require.Len(t, analysis.Factors, 4)

	// 42% utilization, 92% payments and 5 inquiries each earn a
	// recommendation.
	require.Len(t, analysis.Recommendations, 3)
	assert.Contains(t, analysis.Recommendations[0], "auto-pay")
	assert.Contains(t, analysis.Recommendations[1], "utilization")
	assert.Contains(t, analysis.Recommendations[2], "inquiry")
}

func TestAnalyzeExcellentReport(t *testing.T) {
	analysis := Analyze(model.CreditReport{
		Score:             810,
		PaymentHistory:    100,
		CreditUtilization: 9,
		HardInquiries:     1,
	})

	assert.Equal(t, BandExcellent, analysis.Band)
	require.Len(t, analysis.Recommendations, 1)
	assert.Contains(t, analysis.Recommendations[0], "excellent")
}

func TestSimulateImprovement(t *testing.T) {
	report, err := ParseReport(sampleReport)
	require.NoError(t, err)

	projected, steps := SimulateImprovement(report)
	assert.Equal(t, 745+35+30+10, projected)
	assert.Len(t, steps, 3)
}

func TestSimulateImprovementCapsAt900(t *testing.T) {
	projected, _ := SimulateImprovement(model.CreditReport{
		Score:             880,
		PaymentHistory:    90,
		CreditUtilization: 60,
	})
	assert.Equal(t, 900, projected)
}
