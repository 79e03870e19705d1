// Package cibil parses credit-bureau report text and scores what it
// finds: factor-by-factor health, weighted impact, and concrete
// improvement steps.
package cibil

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/taxwise-in/taxwise/internal/common"
	"github.com/taxwise-in/taxwise/internal/model"
)

// Report text arrives from OCR, so the patterns tolerate loose
// formatting and label variants across bureaus.
var (
	scorePattern = regexp.MustCompile(`(?i)(?:cibil|credit)\s*score\s*[:\-]?\s*(\d{3})`)

	utilizationPattern = regexp.MustCompile(`(?i)(?:credit\s*)?utili[sz]ation\s*(?:ratio)?\s*[:\-]?\s*(\d+(?:\.\d+)?)\s*%`)

	paymentPattern = regexp.MustCompile(`(?i)(?:on[\s\-]?time|timely)\s*payments?\s*[:\-]?\s*(\d+(?:\.\d+)?)\s*%`)

	inquiriesPattern = regexp.MustCompile(`(?i)(?:hard\s*)?(?:inquir|enquir)(?:y|ies)\s*(?:\(last\s*\d+\s*months?\))?\s*[:\-]?\s*(\d+)`)

	accountPattern = regexp.MustCompile(`(?i)(credit\s*card|home\s*loan|personal\s*loan|auto\s*loan|car\s*loan|education\s*loan|gold\s*loan|overdraft)`)
)

// ExtractScore finds the CIBIL score in report text.
func ExtractScore(text string) (int, bool) {
	match := scorePattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	score, err := strconv.Atoi(match[1])
	if err != nil || score < 300 || score > 900 {
		return 0, false
	}
	return score, true
}

// ExtractUtilization finds the credit utilization percentage.
func ExtractUtilization(text string) (float64, bool) {
	match := utilizationPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil || value < 0 || value > 100 {
		return 0, false
	}
	return value, true
}

// ExtractPaymentHistory finds the on-time payment percentage.
func ExtractPaymentHistory(text string) (int, bool) {
	match := paymentPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil || value < 0 || value > 100 {
		return 0, false
	}
	return int(value), true
}

// ExtractInquiries finds the hard inquiry count.
func ExtractInquiries(text string) (int, bool) {
	match := inquiriesPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	count, err := strconv.Atoi(match[1])
	if err != nil || count < 0 {
		return 0, false
	}
	return count, true
}

// ExtractAccounts lists the distinct tradeline types mentioned in the
// report.
func ExtractAccounts(text string) []model.CreditAccount {
	seen := make(map[string]bool)
	var accounts []model.CreditAccount

	for _, match := range accountPattern.FindAllString(text, -1) {
		normalized := strings.Join(strings.Fields(strings.ToLower(match)), " ")
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		accounts = append(accounts, model.CreditAccount{Type: normalized})
	}
	return accounts
}

// ParseReport extracts all structured fields from report text. A report
// without a recognizable score is rejected; everything else is
// best-effort.
func ParseReport(text string) (model.CreditReport, error) {
	score, found := ExtractScore(text)
	if !found {
		return model.CreditReport{}, common.NewValidationError("score", "no CIBIL score found in report text")
	}

	report := model.CreditReport{Score: score, Accounts: ExtractAccounts(text)}

	if utilization, ok := ExtractUtilization(text); ok {
		report.CreditUtilization = utilization
	}
	if payments, ok := ExtractPaymentHistory(text); ok {
		report.PaymentHistory = payments
	}
	if inquiries, ok := ExtractInquiries(text); ok {
		report.HardInquiries = inquiries
	}

	return report, nil
}
