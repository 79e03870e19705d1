package model

import "time"

// Unknown is the default value for every profile attribute that has
// not been captured yet.
const Unknown = "unknown"

// SlotType identifies which profile attribute a pending follow-up
// question is trying to fill.
type SlotType string

const (
	SlotNone              SlotType = ""
	SlotTotalIncome       SlotType = "total_income"
	SlotIncomeSource      SlotType = "income_source"
	SlotTaxRegime         SlotType = "tax_regime"
	SlotInvestmentHorizon SlotType = "investment_horizon"
)

// Profile is the financial profile assembled across conversation turns.
// All attributes are free-text values; Unknown marks an unfilled slot.
type Profile struct {
	Age               string
	TotalIncome       string
	Savings           string
	IncomeSource      string // salary or business
	RiskTolerance     string
	InvestmentGoal    string
	ExperienceLevel   string
	Location          string
	TaxRegime         string // old or new
	InvestmentHorizon string // years
}

// NewProfile returns a profile with the conversation-start defaults.
func NewProfile() Profile {
	return Profile{
		Age:               Unknown,
		TotalIncome:       Unknown,
		Savings:           Unknown,
		IncomeSource:      Unknown,
		RiskTolerance:     "moderate",
		InvestmentGoal:    "general",
		ExperienceLevel:   "beginner",
		Location:          "India",
		TaxRegime:         Unknown,
		InvestmentHorizon: Unknown,
	}
}

// Session is the per-conversation dialogue state. Owned exclusively by
// the dialogue manager; one pending follow-up at most.
type Session struct {
	LastSeen        time.Time
	ID              string
	LastQuery       string
	LastResponse    string
	PendingFollowUp string
	PendingSlot     SlotType
	Profile         Profile
}

// AwaitingSlot reports whether the session has a pending follow-up.
func (s *Session) AwaitingSlot() bool {
	return s.PendingSlot != SlotNone
}

// ClearPending resolves the pending follow-up.
func (s *Session) ClearPending() {
	s.PendingFollowUp = ""
	s.PendingSlot = SlotNone
}
