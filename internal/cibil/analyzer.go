package cibil

import (
	"fmt"
	"strings"

	"github.com/taxwise-in/taxwise/internal/model"
)

// Factor weights in the CIBIL scoring model, in percent.
const (
	weightPaymentHistory = 35
	weightUtilization    = 30
	weightHistoryLength  = 15
	weightCreditMix      = 10
	weightInquiries      = 10
)

// Band is a qualitative rating for the overall score or one factor.
type Band string

const (
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandFair      Band = "fair"
	BandPoor      Band = "poor"
	BandBad       Band = "bad"
)

// FactorAssessment rates one scoring factor.
type FactorAssessment struct {
	Name    string `json:"name"`
	Band    Band   `json:"band"`
	Weight  int    `json:"weight"`
	Comment string `json:"comment"`
}

// Analysis is the full credit health assessment.
type Analysis struct {
	Score           int                `json:"score"`
	Band            Band               `json:"band"`
	Summary         string             `json:"summary"`
	Factors         []FactorAssessment `json:"factors"`
	Recommendations []string           `json:"recommendations"`
}

// ScoreBand rates a CIBIL score on the standard 300-900 scale.
func ScoreBand(score int) Band {
	switch {
	case score >= 750:
		return BandExcellent
	case score >= 700:
		return BandGood
	case score >= 650:
		return BandFair
	case score >= 550:
		return BandPoor
	default:
		return BandBad
	}
}

// UtilizationBand rates a credit utilization percentage.
func UtilizationBand(utilization float64) Band {
	switch {
	case utilization <= 10:
		return BandExcellent
	case utilization <= 30:
		return BandGood
	case utilization <= 50:
		return BandFair
	case utilization <= 70:
		return BandPoor
	default:
		return BandBad
	}
}

// Analyze assesses a parsed credit report factor by factor and builds
// prioritized recommendations. Factors absent from the report are
// skipped rather than guessed.
func Analyze(report model.CreditReport) Analysis {
	analysis := Analysis{
		Score: report.Score,
		Band:  ScoreBand(report.Score),
	}
	analysis.Summary = fmt.Sprintf("Your CIBIL score of %d is %s.", report.Score, analysis.Band)

	if report.PaymentHistory > 0 {
		analysis.Factors = append(analysis.Factors, assessPayments(report.PaymentHistory))
		if report.PaymentHistory < 95 {
			analysis.Recommendations = append(analysis.Recommendations,
				"Set up auto-pay for every EMI and credit card bill. Payment history is the single largest factor in your score.")
		}
	}

	if report.CreditUtilization > 0 {
		analysis.Factors = append(analysis.Factors, assessUtilization(report.CreditUtilization))
		if report.CreditUtilization > 30 {
			analysis.Recommendations = append(analysis.Recommendations,
				fmt.Sprintf("Bring credit utilization down from %.0f%% to under 30%%, either by reducing spends or requesting a higher limit.", report.CreditUtilization))
		}
	}

	if len(report.Accounts) > 0 {
		analysis.Factors = append(analysis.Factors, assessMix(report.Accounts))
		if !hasMix(report.Accounts) {
			analysis.Recommendations = append(analysis.Recommendations,
				"Your accounts are all of one type. A healthy mix of secured and unsecured credit strengthens your profile over time.")
		}
	}

	if report.HardInquiries > 0 {
		analysis.Factors = append(analysis.Factors, assessInquiries(report.HardInquiries))
		if report.HardInquiries > 3 {
			analysis.Recommendations = append(analysis.Recommendations,
				"Avoid new loan or card applications for the next six months. Each hard inquiry trims your score.")
		}
	}

	if analysis.Band == BandExcellent && len(analysis.Recommendations) == 0 {
		analysis.Recommendations = append(analysis.Recommendations,
			"Your credit health is excellent. Keep utilization low and payments on time to maintain it.")
	}

	return analysis
}

// SimulateImprovement estimates the score after fixing the weakest
// factors, using the factor weights as rough point potentials.
func SimulateImprovement(report model.CreditReport) (int, []string) {
	projected := report.Score
	var steps []string

	if report.PaymentHistory > 0 && report.PaymentHistory < 95 {
		projected += weightPaymentHistory
		steps = append(steps, "12 months of on-time payments")
	}
	if report.CreditUtilization > 30 {
		projected += weightUtilization
		steps = append(steps, "utilization held under 30%")
	}
	if report.HardInquiries > 3 {
		projected += weightInquiries
		steps = append(steps, "no new credit applications for 6 months")
	}

	if projected > 900 {
		projected = 900
	}
	return projected, steps
}

func assessPayments(onTimePercent int) FactorAssessment {
	band := BandExcellent
	switch {
	case onTimePercent < 80:
		band = BandBad
	case onTimePercent < 90:
		band = BandPoor
	case onTimePercent < 95:
		band = BandFair
	case onTimePercent < 100:
		band = BandGood
	}
	return FactorAssessment{
		Name:    "payment history",
		Band:    band,
		Weight:  weightPaymentHistory,
		Comment: fmt.Sprintf("%d%% of payments made on time", onTimePercent),
	}
}

func assessUtilization(utilization float64) FactorAssessment {
	return FactorAssessment{
		Name:    "credit utilization",
		Band:    UtilizationBand(utilization),
		Weight:  weightUtilization,
		Comment: fmt.Sprintf("using %.0f%% of available credit", utilization),
	}
}

func assessMix(accounts []model.CreditAccount) FactorAssessment {
	band := BandFair
	if hasMix(accounts) {
		band = BandGood
	}

	var types []string
	for _, account := range accounts {
		types = append(types, account.Type)
	}
	return FactorAssessment{
		Name:    "credit mix",
		Band:    band,
		Weight:  weightCreditMix,
		Comment: fmt.Sprintf("%d account types: %s", len(accounts), strings.Join(types, ", ")),
	}
}

func assessInquiries(count int) FactorAssessment {
	band := BandExcellent
	switch {
	case count > 6:
		band = BandBad
	case count > 3:
		band = BandPoor
	case count > 1:
		band = BandGood
	}
	return FactorAssessment{
		Name:    "hard inquiries",
		Band:    band,
		Weight:  weightInquiries,
		Comment: fmt.Sprintf("%d recent hard inquiries", count),
	}
}

// hasMix reports whether the accounts span both secured and unsecured
// credit.
func hasMix(accounts []model.CreditAccount) bool {
	var secured, unsecured bool
	for _, account := range accounts {
		switch account.Type {
		case "home loan", "auto loan", "car loan", "gold loan":
			secured = true
		default:
			unsecured = true
		}
	}
	return secured && unsecured
}
