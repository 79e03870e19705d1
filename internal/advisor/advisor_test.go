package advisor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxwise-in/taxwise/internal/classify"
	"github.com/taxwise-in/taxwise/internal/common"
	"github.com/taxwise-in/taxwise/internal/dialogue"
	"github.com/taxwise-in/taxwise/internal/knowledge"
	"github.com/taxwise-in/taxwise/internal/llm"
	"github.com/taxwise-in/taxwise/internal/model"
)

// memoryStore is a canned-response knowledge store.
type memoryStore struct {
	results []model.SearchResult
	err     error
}

func (m *memoryStore) Query(context.Context, string, string, int) ([]model.SearchResult, error) {
	return m.results, m.err
}
func (m *memoryStore) Add(context.Context, string, []model.Document) error { return nil }
func (m *memoryStore) Delete(context.Context, string, string) error        { return nil }
func (m *memoryStore) Count(context.Context, string) (int, error)          { return len(m.results), nil }
func (m *memoryStore) Stats(context.Context) (map[string]int, error)       { return nil, nil }
func (m *memoryStore) Close() error                                        { return nil }

type stubGenerator struct {
	response string
	err      error
	prompts  []string
}

func (s *stubGenerator) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Name() string { return "stub" }

func passage(content string) model.SearchResult {
	return model.SearchResult{
		Document: model.Document{ID: "doc", Content: content},
		Distance: 0.1,
	}
}

func newTestAdvisor(t *testing.T, store knowledge.Store, generator llm.Client) *Advisor {
	t.Helper()

	retriever := knowledge.NewRetriever(store, knowledge.RetrieverOptions{}, nil)
	sessions := dialogue.NewManager(dialogue.ManagerOptions{}, nil)
	t.Cleanup(sessions.Close)

	return New(retriever, generator, sessions, nil)
}

func TestChatRejectsEmptyUtterance(t *testing.T) {
	advisor := newTestAdvisor(t, &memoryStore{}, nil)

	_, err := advisor.Chat(context.Background(), "s1", "   ")
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
}

func TestChatFarewellResetsSession(t *testing.T) {
	advisor := newTestAdvisor(t, &memoryStore{}, nil)
	ctx := context.Background()

	_, err := advisor.Chat(ctx, "s1", "what is section 80d")
	require.NoError(t, err)

	answer, err := advisor.Chat(ctx, "s1", "okay goodbye")
	require.NoError(t, err)
	assert.True(t, answer.Farewell)
	assert.NotEmpty(t, answer.Text)
}

func TestChatDegradesWhenEverythingFails(t *testing.T) {
	store := &memoryStore{err: errors.New("store offline")}
	generator := &stubGenerator{err: errors.New("provider down")}
	advisor := newTestAdvisor(t, store, generator)

	answer, err := advisor.Chat(context.Background(), "s1", "what is an emergency fund")
	require.NoError(t, err)

	assert.NotEmpty(t, answer.Text)
	assert.Equal(t, 0, answer.SourcesUsed)
	assert.Equal(t, ConfidenceLow, answer.Confidence)
}

func TestChatGroundedAnswerIsHighConfidence(t *testing.T) {
	store := &memoryStore{results: []model.SearchResult{
		passage("Section 80D covers health insurance premiums up to 25,000 rupees."),
	}}
	generator := &stubGenerator{response: "You can claim up to 25,000 rupees for health insurance under section 80D."}
	advisor := newTestAdvisor(t, store, generator)

	answer, err := advisor.Chat(context.Background(), "s1", "what is section 80d")
	require.NoError(t, err)

	assert.Equal(t, 1, answer.SourcesUsed)
	assert.Equal(t, ConfidenceHigh, answer.Confidence)
	assert.Contains(t, answer.Text, "80D")
}

func TestChatPromptCarriesContextAndProfile(t *testing.T) {
	store := &memoryStore{results: []model.SearchResult{
		passage("ELSS funds have a three year lock-in."),
	}}
	generator := &stubGenerator{response: "ELSS funds lock your money for three years."}
	advisor := newTestAdvisor(t, store, generator)

	_, err := advisor.Chat(context.Background(), "s1", "tell me about elss")
	require.NoError(t, err)

	require.Len(t, generator.prompts, 1)
	assert.Contains(t, generator.prompts[0], "three year lock-in")
	assert.Contains(t, generator.prompts[0], "India")
	assert.Contains(t, generator.prompts[0], "tell me about elss")
}

func TestChatFactChecksGeneratedAnswer(t *testing.T) {
	store := &memoryStore{results: []model.SearchResult{passage("Section 80C context.")}}
	generator := &stubGenerator{response: "Section 80C lets you deduct tax-saving investments."}
	advisor := newTestAdvisor(t, store, generator)

	answer, err := advisor.Chat(context.Background(), "s1", "how does 80c work")
	require.NoError(t, err)
	assert.Contains(t, answer.Text, "1.5 lakh")
}

func TestChatSlotRoundTrip(t *testing.T) {
	store := &memoryStore{results: []model.SearchResult{passage("Tax regime comparison passage.")}}
	generator := &stubGenerator{response: "It depends on your deductions."}
	advisor := newTestAdvisor(t, store, generator)
	ctx := context.Background()

	answer, err := advisor.Chat(ctx, "s1", "which tax regime should I pick")
	require.NoError(t, err)
	require.NotEmpty(t, answer.FollowUp)
	assert.Contains(t, answer.FollowUp, "regime")

	answer, err = advisor.Chat(ctx, "s1", "the old one")
	require.NoError(t, err)
	assert.Contains(t, answer.Text, "old")
	assert.True(t, strings.HasPrefix(answer.Text, "Thanks"), "answer should lead with the acknowledgement: %q", answer.Text)
}

func TestChatSlotRepromptOnUnparseableAnswer(t *testing.T) {
	store := &memoryStore{results: []model.SearchResult{passage("Tax regime comparison passage.")}}
	generator := &stubGenerator{response: "It depends on your deductions."}
	advisor := newTestAdvisor(t, store, generator)
	ctx := context.Background()

	_, err := advisor.Chat(ctx, "s1", "which tax regime should I pick")
	require.NoError(t, err)

	answer, err := advisor.Chat(ctx, "s1", "I have no idea what that means")
	require.NoError(t, err)
	assert.Contains(t, answer.Text, "regime")

	// The slot is still pending, so a parseable answer now fills it.
	answer, err = advisor.Chat(ctx, "s1", "the new one")
	require.NoError(t, err)
	assert.Contains(t, answer.Text, "new")
}

func TestChatSlotDeclineAnswersWithoutNagging(t *testing.T) {
	store := &memoryStore{results: []model.SearchResult{passage("Tax regime comparison passage.")}}
	generator := &stubGenerator{response: "It depends on your deductions."}
	advisor := newTestAdvisor(t, store, generator)
	ctx := context.Background()

	answer, err := advisor.Chat(ctx, "s1", "which tax regime should I pick")
	require.NoError(t, err)
	require.NotEmpty(t, answer.FollowUp)

	answer, err = advisor.Chat(ctx, "s1", "not really")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(answer.Text, "No problem."), "got %q", answer.Text)
	assert.Empty(t, answer.FollowUp, "a declined question should not be re-asked")

	// The next turn is a fresh query, not a slot retry.
	answer, err = advisor.Chat(ctx, "s1", "what is section 80d")
	require.NoError(t, err)
	assert.Contains(t, answer.Text, "deductions")
}

// slowFirstCallGenerator stalls its first completion until released;
// later calls answer immediately.
type slowFirstCallGenerator struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
}

func (g *slowFirstCallGenerator) Complete(_ context.Context, _ string) (string, error) {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	g.mu.Unlock()

	if first {
		close(g.started)
		<-g.release
	}
	return "Here is some general guidance.", nil
}

func (g *slowFirstCallGenerator) Name() string { return "slow" }

func TestChatSessionsProceedIndependently(t *testing.T) {
	store := &memoryStore{results: []model.SearchResult{passage("ELSS funds have a three year lock-in.")}}
	generator := &slowFirstCallGenerator{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	advisor := newTestAdvisor(t, store, generator)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		_, _ = advisor.Chat(ctx, "slow-session", "tell me about elss")
		close(done)
	}()
	<-generator.started

	// A second session must complete while the first is stuck inside
	// its provider call.
	finished := make(chan error, 1)
	go func() {
		_, err := advisor.Chat(ctx, "fast-session", "tell me about ppf")
		finished <- err
	}()

	select {
	case err := <-finished:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("chat turn blocked behind another session's in-flight generation")
	}

	close(generator.release)
	<-done
}

func TestRuleBasedAnswerTotality(t *testing.T) {
	queries := []string{
		"what is 80c",
		"health insurance deduction",
		"which regime",
		"should I buy stocks",
		"random gibberish xyzw",
		"",
	}

	for _, query := range queries {
		answer := ruleBasedAnswer(query, classify.RouteQuery(query))
		assert.NotEmpty(t, answer, "query %q", query)
	}
}

func TestFactCheckLeavesCompleteAnswersAlone(t *testing.T) {
	answer := "Section 80C is capped at 1.5 lakh per year."
	assert.Equal(t, answer, factCheck("what is 80c", answer))
}

func TestPersonalizedInsights(t *testing.T) {
	taxResult := &model.TaxResult{
		RecommendedRegime: model.RegimeNew,
		TaxSaved:          decimal.NewFromInt(78000),
		Recommendations:   []string{"Invest the remaining 80C headroom."},
	}
	spending := []classify.CategoryInsight{
		{Category: model.CategoryRent, Total: decimal.NewFromInt(20000), Percent: decimal.NewFromInt(40)},
		{Category: model.CategoryFood, Total: decimal.NewFromInt(9000), Percent: decimal.NewFromInt(18)},
	}
	creditReport := &model.CreditReport{Score: 720, CreditUtilization: 55}

	insights := PersonalizedInsights(taxResult, spending, creditReport)
	require.NotEmpty(t, insights)

	joined := strings.Join(insights, "\n")
	assert.Contains(t, joined, "78000")
	assert.Contains(t, joined, "food")
	assert.Contains(t, joined, "720")
	assert.Contains(t, joined, "utilization")
}

func TestPersonalizedInsightsAllNil(t *testing.T) {
	assert.Empty(t, PersonalizedInsights(nil, nil, nil))
}
