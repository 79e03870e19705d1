// Package advisor orchestrates a chat turn: route the query to a
// knowledge topic, retrieve context, generate a grounded answer, and
// manage the slot-filling follow-ups that build the user's profile.
// Every dependency failure degrades to a useful answer; the user never
// sees an error string.
package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taxwise-in/taxwise/internal/classify"
	"github.com/taxwise-in/taxwise/internal/common"
	"github.com/taxwise-in/taxwise/internal/dialogue"
	"github.com/taxwise-in/taxwise/internal/knowledge"
	"github.com/taxwise-in/taxwise/internal/llm"
	"github.com/taxwise-in/taxwise/internal/model"
)

const (
	defaultMaxContextLen = 2000

	farewellText = "Thanks for talking to me today. Wishing you a financially healthy year ahead. Goodbye!"
)

// Confidence grades how well-grounded an answer is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Answer is one advisor turn.
type Answer struct {
	Text        string     `json:"text"`
	FollowUp    string     `json:"follow_up,omitempty"`
	Confidence  Confidence `json:"confidence"`
	SourcesUsed int        `json:"sources_used"`
	Farewell    bool       `json:"farewell,omitempty"`

	slot model.SlotType
}

// Advisor answers financial queries with retrieval-grounded generation.
type Advisor struct {
	retriever     *knowledge.Retriever
	generator     llm.Client
	sessions      *dialogue.Manager
	logger        *slog.Logger
	maxContextLen int
}

// New creates an Advisor. generator may be nil; answers then come from
// the rule-based templates alone.
func New(retriever *knowledge.Retriever, generator llm.Client, sessions *dialogue.Manager, logger *slog.Logger) *Advisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Advisor{
		retriever:     retriever,
		generator:     generator,
		sessions:      sessions,
		logger:        logger,
		maxContextLen: defaultMaxContextLen,
	}
}

// Chat handles one utterance in a session.
func (a *Advisor) Chat(ctx context.Context, sessionID, utterance string) (Answer, error) {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return Answer{}, common.NewValidationError("utterance", "utterance must not be empty")
	}
	if sessionID == "" {
		return Answer{}, common.NewValidationError("session_id", "session id is required")
	}

	if dialogue.IsFarewell(utterance) {
		a.sessions.Reset(sessionID)
		return Answer{Text: farewellText, Confidence: ConfidenceHigh, Farewell: true}, nil
	}

	var answer Answer
	a.sessions.WithSession(sessionID, func(session *model.Session) {
		if session.AwaitingSlot() {
			answer = a.resumeAfterSlot(ctx, session, utterance)
			return
		}
		answer = a.generate(ctx, session, utterance)
		session.LastQuery = utterance
		session.LastResponse = answer.Text
		session.PendingFollowUp = answer.FollowUp
		session.PendingSlot = answer.slot
	})

	return answer, nil
}

// resumeAfterSlot applies the utterance to the pending slot. A filled
// slot regenerates the answer to the original query with the enriched
// profile; a refusal drops the question and answers anyway; a failed
// parse reprompts without losing state.
func (a *Advisor) resumeAfterSlot(ctx context.Context, session *model.Session, utterance string) Answer {
	outcome := dialogue.FillSlot(session, utterance)
	if outcome.Declined {
		return a.answerAfterDecline(ctx, session)
	}
	if !outcome.Filled {
		return Answer{Text: outcome.Reprompt, Confidence: ConfidenceHigh}
	}

	query := session.LastQuery
	if query == "" {
		return Answer{Text: outcome.Acknowledgement + " What would you like to know?", Confidence: ConfidenceHigh}
	}

	answer := a.generate(ctx, session, query)
	answer.Text = outcome.Acknowledgement + " " + answer.Text
	session.LastResponse = answer.Text
	session.PendingFollowUp = answer.FollowUp
	session.PendingSlot = answer.slot
	return answer
}

// answerAfterDecline answers the original query without the declined
// profile attribute, and suppresses this turn's follow-up so the user
// isn't asked the same question again immediately.
func (a *Advisor) answerAfterDecline(ctx context.Context, session *model.Session) Answer {
	query := session.LastQuery
	if query == "" {
		return Answer{Text: "No problem. What would you like to know?", Confidence: ConfidenceHigh}
	}

	answer := a.generate(ctx, session, query)
	if answer.FollowUp != "" {
		answer.Text = strings.TrimSuffix(answer.Text, " "+answer.FollowUp)
		answer.FollowUp = ""
		answer.slot = model.SlotNone
	}
	answer.Text = "No problem. " + answer.Text
	session.LastResponse = answer.Text
	session.PendingFollowUp = ""
	session.PendingSlot = model.SlotNone
	return answer
}

// generate runs the retrieve-then-generate pipeline for one query.
func (a *Advisor) generate(ctx context.Context, session *model.Session, query string) Answer {
	topic := classify.RouteQuery(query)
	results, sourcesUsed := a.retriever.Retrieve(ctx, query, topic)

	contextText := joinContext(results, a.maxContextLen)
	prompt := buildPrompt(session.Profile, contextText, query)

	text, generated := a.complete(ctx, prompt)
	if !generated {
		text = ruleBasedAnswer(query, topic)
	}

	text = factCheck(query, text)

	followUp, slot := followUpFor(topic, query, session.Profile)
	answer := Answer{
		Text:        text,
		SourcesUsed: sourcesUsed,
		Confidence:  grade(sourcesUsed, generated),
		FollowUp:    followUp,
		slot:        slot,
	}
	if answer.FollowUp != "" {
		answer.Text = answer.Text + " " + answer.FollowUp
	}

	a.logger.Debug("answered query",
		"topic", topic,
		"sources_used", sourcesUsed,
		"generated", generated,
		"confidence", answer.Confidence)

	return answer
}

func (a *Advisor) complete(ctx context.Context, prompt string) (string, bool) {
	if a.generator == nil {
		return "", false
	}

	text, err := a.generator.Complete(ctx, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		a.logger.Warn("generation failed, using rule-based answer", "error", err)
		return "", false
	}
	return strings.TrimSpace(text), true
}

// joinContext concatenates retrieved passages up to the length budget.
func joinContext(results []model.SearchResult, maxLen int) string {
	var builder strings.Builder
	for _, result := range results {
		passage := strings.TrimSpace(result.Document.Content)
		if passage == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		remaining := maxLen - builder.Len()
		if remaining <= 0 {
			break
		}
		if len(passage) > remaining {
			passage = passage[:remaining]
		}
		builder.WriteString(passage)
	}
	return builder.String()
}

func buildPrompt(profile model.Profile, contextText, query string) string {
	return fmt.Sprintf(`You are a chartered accountant advising a client in India. Answer in 2-4 short sentences, in plain language, grounded strictly in the reference material. If the reference material says no relevant information was found, give general guidance and say you are not certain.

Client profile:
- Annual income: %s
- Income source: %s
- Tax regime: %s
- Risk tolerance: %s
- Investment horizon: %s
- Location: %s

Reference material:
%s

Client question: %s`,
		profile.TotalIncome, profile.IncomeSource, profile.TaxRegime,
		profile.RiskTolerance, profile.InvestmentHorizon, profile.Location,
		contextText, query)
}

// grade assigns answer confidence from grounding quality.
func grade(sourcesUsed int, generated bool) Confidence {
	switch {
	case sourcesUsed > 0 && generated:
		return ConfidenceHigh
	case generated || sourcesUsed > 0:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
