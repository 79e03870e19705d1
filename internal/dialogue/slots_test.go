package dialogue

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxwise-in/taxwise/internal/model"
)

func TestParseIndianAmount(t *testing.T) {
	tests := []struct {
		input string
		want  int64
		ok    bool
	}{
		{"ten lakhs", 1000000, true},
		{"10 lakh", 1000000, true},
		{"2.5 lakh", 250000, true},
		{"five crore", 50000000, true},
		{"1.5 crore", 15000000, true},
		{"50 thousand", 50000, true},
		{"50k", 50000, true},
		{"12,00,000", 1200000, true},
		{"my annual income is 1200000 rupees", 1200000, true},
		{"I earn about twelve lakh per year", 1200000, true},
		{"12", 1200000, true}, // bare small number read as lakhs
		{"no idea", 0, false},
		{"", 0, false},
		{"zero", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			amount, ok := ParseIndianAmount(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, amount.Equal(decimal.NewFromInt(tt.want)),
					"got %s, want %d", amount, tt.want)
			}
		})
	}
}

func TestExtractIncomeSource(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"I have a salaried job", "salary", true},
		{"I work for a company", "salary", true},
		{"I run my own business", "business", true},
		{"freelance developer", "business", true},
		{"self-employed consultant", "business", true},
		{"hmm", "", false},
	}

	for _, tt := range tests {
		source, ok := ExtractIncomeSource(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		assert.Equal(t, tt.want, source, tt.input)
	}
}

func TestExtractTaxRegime(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"I use the old one", "old", true},
		{"new regime", "new", true},
		{"I switched to the new tax regime last year", "new", true},
		{"old or new, not sure", "", false},
		{"whatever", "", false},
	}

	for _, tt := range tests {
		regime, ok := ExtractTaxRegime(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		assert.Equal(t, tt.want, regime, tt.input)
	}
}

func TestExtractHorizon(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"about 5 years", "5 years", true},
		{"long term", "10 years", true},
		{"short term only", "2 years", true},
		{"no clue", "", false},
	}

	for _, tt := range tests {
		horizon, ok := ExtractHorizon(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		assert.Equal(t, tt.want, horizon, tt.input)
	}
}

func TestExtractYesNo(t *testing.T) {
	tests := []struct {
		input string
		want  bool
		ok    bool
	}{
		{"yes please", true, true},
		{"haan", true, true},
		{"nope", false, true},
		{"maybe later", false, false},
	}

	for _, tt := range tests {
		got, ok := ExtractYesNo(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestIsFarewell(t *testing.T) {
	assert.True(t, IsFarewell("okay goodbye"))
	assert.True(t, IsFarewell("bye"))
	assert.True(t, IsFarewell("please end the call"))
	assert.False(t, IsFarewell("what about 80c"))
}

func TestFillSlotIncome(t *testing.T) {
	session := &model.Session{Profile: model.NewProfile(), PendingSlot: model.SlotTotalIncome}

	outcome := FillSlot(session, "around ten lakhs")
	require.True(t, outcome.Filled)
	assert.Equal(t, "1000000", session.Profile.TotalIncome)
	assert.False(t, session.AwaitingSlot())
	assert.NotEmpty(t, outcome.Acknowledgement)
}

func TestFillSlotRepromptKeepsPending(t *testing.T) {
	session := &model.Session{Profile: model.NewProfile(), PendingSlot: model.SlotTotalIncome}

	outcome := FillSlot(session, "why do you ask")
	assert.False(t, outcome.Filled)
	assert.NotEmpty(t, outcome.Reprompt)
	assert.True(t, session.AwaitingSlot())
	assert.Equal(t, model.Unknown, session.Profile.TotalIncome)
}

func TestFillSlotDeclinedDropsPending(t *testing.T) {
	session := &model.Session{Profile: model.NewProfile(), PendingSlot: model.SlotTotalIncome}

	outcome := FillSlot(session, "not really")
	assert.False(t, outcome.Filled)
	assert.True(t, outcome.Declined)
	assert.False(t, session.AwaitingSlot(), "a refusal should drop the question")
	assert.Equal(t, model.Unknown, session.Profile.TotalIncome)
}

func TestFillSlotLongNegativeAnswerStillReprompts(t *testing.T) {
	session := &model.Session{Profile: model.NewProfile(), PendingSlot: model.SlotTaxRegime}

	outcome := FillSlot(session, "I have no idea what that means")
	assert.False(t, outcome.Filled)
	assert.False(t, outcome.Declined)
	assert.NotEmpty(t, outcome.Reprompt)
	assert.True(t, session.AwaitingSlot())
}

func TestFillSlotRegime(t *testing.T) {
	session := &model.Session{Profile: model.NewProfile(), PendingSlot: model.SlotTaxRegime}

	outcome := FillSlot(session, "the old one")
	require.True(t, outcome.Filled)
	assert.Equal(t, "old", session.Profile.TaxRegime)
}

func TestFillSlotNoPending(t *testing.T) {
	session := &model.Session{Profile: model.NewProfile()}

	outcome := FillSlot(session, "anything")
	assert.False(t, outcome.Filled)
	assert.Empty(t, outcome.Reprompt)
}
