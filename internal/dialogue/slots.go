package dialogue

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/taxwise-in/taxwise/internal/model"
)

// numberWords covers the spoken-number forms that show up in voice
// transcripts ("ten lakhs", "twenty five thousand").
var numberWords = map[string]float64{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "fifteen": 15, "twenty": 20,
	"twenty five": 25, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
	"hundred": 100,
}

var digitPattern = regexp.MustCompile(`\d+(?:,\d+)*(?:\.\d+)?`)

// ParseIndianAmount extracts a rupee amount from a free-form utterance,
// understanding Indian units: "ten lakhs", "2.5 lakh", "five crore",
// "12,00,000". A bare number of 1000 or less is read as lakhs, matching
// how people state annual income ("my income is 12").
func ParseIndianAmount(text string) (decimal.Decimal, bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return decimal.Zero, false
	}

	value, found := extractNumber(normalized)
	if !found || value <= 0 {
		return decimal.Zero, false
	}

	switch {
	case strings.Contains(normalized, "crore"):
		value *= 1e7
	case strings.Contains(normalized, "lakh") || strings.Contains(normalized, "lac"):
		value *= 1e5
	case strings.Contains(normalized, "thousand") || hasUnitK(normalized):
		value *= 1e3
	case value <= 1000:
		value *= 1e5
	}

	return decimal.NewFromFloat(value), true
}

// extractNumber finds the first numeric value in text, digits first,
// then spoken number words.
func extractNumber(text string) (float64, bool) {
	if match := digitPattern.FindString(text); match != "" {
		value, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
		if err == nil {
			return value, true
		}
	}

	// Compound words first so "twenty five" doesn't parse as "five".
	for _, word := range []string{"twenty five"} {
		if strings.Contains(text, word) {
			return numberWords[word], true
		}
	}
	best := -1
	var bestValue float64
	for word, value := range numberWords {
		idx := strings.Index(text, word)
		if idx >= 0 && (best == -1 || idx < best) {
			best = idx
			bestValue = value
		}
	}
	if best >= 0 {
		return bestValue, true
	}

	return 0, false
}

// hasUnitK reports whether the text uses the "50k" shorthand.
func hasUnitK(text string) bool {
	if match := digitPattern.FindStringIndex(text); match != nil {
		rest := text[match[1]:]
		return strings.HasPrefix(rest, "k") || strings.HasPrefix(rest, " k")
	}
	return false
}

// ExtractIncomeSource classifies an utterance as business or salary
// income.
func ExtractIncomeSource(text string) (string, bool) {
	normalized := strings.ToLower(text)

	for _, keyword := range []string{"business", "self-employed", "self employed", "freelance", "consultant", "own company", "shop"} {
		if strings.Contains(normalized, keyword) {
			return "business", true
		}
	}
	for _, keyword := range []string{"salary", "salaried", "job", "employed", "company", "work for", "employee"} {
		if strings.Contains(normalized, keyword) {
			return "salary", true
		}
	}
	return "", false
}

// ExtractTaxRegime picks the old or new regime out of an utterance.
func ExtractTaxRegime(text string) (string, bool) {
	normalized := strings.ToLower(text)

	hasOld := strings.Contains(normalized, "old")
	hasNew := strings.Contains(normalized, "new")
	switch {
	case hasOld && !hasNew:
		return "old", true
	case hasNew && !hasOld:
		return "new", true
	default:
		return "", false
	}
}

// ExtractHorizon extracts an investment horizon in years.
func ExtractHorizon(text string) (string, bool) {
	normalized := strings.ToLower(text)

	if !strings.Contains(normalized, "year") && !strings.Contains(normalized, "long") &&
		!strings.Contains(normalized, "short") && digitPattern.FindString(normalized) == "" {
		return "", false
	}

	if strings.Contains(normalized, "long") {
		return "10 years", true
	}
	if strings.Contains(normalized, "short") {
		return "2 years", true
	}
	if value, found := extractNumber(normalized); found && value > 0 && value <= 60 {
		return strconv.FormatFloat(value, 'f', -1, 64) + " years", true
	}
	return "", false
}

// ExtractYesNo reads an affirmation or refusal from an utterance.
func ExtractYesNo(text string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))

	for _, keyword := range []string{"yes", "yeah", "yep", "sure", "haan", "correct", "right", "of course"} {
		if strings.Contains(normalized, keyword) {
			return true, true
		}
	}
	for _, keyword := range []string{"no", "nope", "nah", "not really", "nahi"} {
		if strings.Contains(normalized, keyword) {
			return false, true
		}
	}
	return false, false
}

// IsFarewell reports whether the utterance ends the conversation.
func IsFarewell(text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))

	for _, keyword := range []string{"goodbye", "bye", "end call", "end the call", "thank you, that's all", "thanks, bye", "that's all"} {
		if strings.Contains(normalized, keyword) {
			return true
		}
	}
	return false
}

// SlotOutcome reports the result of a slot-filling attempt.
type SlotOutcome struct {
	// Filled is true when the utterance answered the pending question.
	Filled bool
	// Declined is true when the user refused the question; the pending
	// state is cleared instead of reprompting.
	Declined bool
	// Reprompt is the retry question when the answer didn't parse.
	Reprompt string
	// Acknowledgement confirms the captured value on success.
	Acknowledgement string
}

// FillSlot applies an utterance to the session's pending slot. On
// success the profile is updated and the pending state cleared; on
// failure the pending state stays so the next turn retries.
func FillSlot(session *model.Session, utterance string) SlotOutcome {
	switch session.PendingSlot {
	case model.SlotTotalIncome:
		amount, ok := ParseIndianAmount(utterance)
		if !ok {
			return failedSlot(session, utterance, "Could you tell me your annual income? For example, say 10 lakhs or 12,00,000.")
		}
		session.Profile.TotalIncome = amount.StringFixed(0)
		session.ClearPending()
		return SlotOutcome{Filled: true, Acknowledgement: "Got it, annual income of ₹" + amount.StringFixed(0) + "."}

	case model.SlotIncomeSource:
		source, ok := ExtractIncomeSource(utterance)
		if !ok {
			return failedSlot(session, utterance, "Is your income from a salary or from your own business?")
		}
		session.Profile.IncomeSource = source
		session.ClearPending()
		return SlotOutcome{Filled: true, Acknowledgement: "Noted, " + source + " income."}

	case model.SlotTaxRegime:
		regime, ok := ExtractTaxRegime(utterance)
		if !ok {
			return failedSlot(session, utterance, "Do you file under the old tax regime or the new one?")
		}
		session.Profile.TaxRegime = regime
		session.ClearPending()
		return SlotOutcome{Filled: true, Acknowledgement: "Thanks, the " + regime + " regime it is."}

	case model.SlotInvestmentHorizon:
		horizon, ok := ExtractHorizon(utterance)
		if !ok {
			return failedSlot(session, utterance, "How many years do you plan to stay invested?")
		}
		session.Profile.InvestmentHorizon = horizon
		session.ClearPending()
		return SlotOutcome{Filled: true, Acknowledgement: "Planning for " + horizon + ", understood."}

	default:
		return SlotOutcome{}
	}
}

// failedSlot turns an unparseable answer into a reprompt, unless it is
// an outright refusal ("no", "not really"), which drops the question.
// Only short replies count as refusals: "I have no idea what that
// means" is confusion, not a refusal, and should reprompt.
func failedSlot(session *model.Session, utterance, reprompt string) SlotOutcome {
	if len(strings.Fields(utterance)) <= 3 {
		if yes, ok := ExtractYesNo(utterance); ok && !yes {
			session.ClearPending()
			return SlotOutcome{Declined: true}
		}
	}
	return SlotOutcome{Reprompt: reprompt}
}
