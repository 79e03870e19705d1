// Package classify assigns categories to transactions and routes chat
// queries to knowledge topics. Keyword rules are the base layer and are
// total: every input gets a category. An optional generation client can
// refine low-confidence matches, but its failures never surface.
package classify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/taxwise-in/taxwise/internal/llm"
	"github.com/taxwise-in/taxwise/internal/model"
)

const (
	ruleConfidence     = 90
	genericConfidence  = 60
	fallbackConfidence = 30
	refineThreshold    = 70
	batchWorkers       = 5
)

// Result is one classification outcome.
type Result struct {
	Category    model.Category
	Subcategory string
	Reasoning   string
	Confidence  int
	IsRecurring bool
}

// CategorizeDescription classifies a single narration with keyword
// rules alone. It never fails: unmatched descriptions fall back to a
// direction-based guess, then to CategoryOther.
func CategorizeDescription(description string, txType model.TransactionType) Result {
	normalized := strings.ToLower(strings.TrimSpace(description))
	tokens := tokenSet(normalized)

	for _, rule := range transactionRules {
		for _, keyword := range rule.keywords {
			if matchesKeyword(normalized, tokens, keyword) {
				return Result{
					Category:    rule.category,
					Subcategory: rule.subcategory,
					Reasoning:   fmt.Sprintf("matched keyword %q", keyword),
					Confidence:  ruleConfidence,
					IsRecurring: rule.recurring,
				}
			}
		}
	}

	if txType == model.TypeCredit {
		return Result{
			Category:    model.CategoryIncome,
			Subcategory: "other income",
			Reasoning:   "unmatched credit treated as income",
			Confidence:  genericConfidence,
		}
	}

	return Result{
		Category:   model.CategoryOther,
		Reasoning:  "no keyword match",
		Confidence: fallbackConfidence,
	}
}

// RouteQuery picks the knowledge topic for a chat query. Rules are
// checked in a fixed priority order so overlapping queries ("invest for
// retirement") route deterministically. Anything unmatched lands in the
// general financial knowledge topic.
func RouteQuery(query string) model.Topic {
	normalized := strings.ToLower(strings.TrimSpace(query))
	tokens := tokenSet(normalized)

	for _, rule := range topicRules {
		for _, keyword := range rule.keywords {
			if matchesKeyword(normalized, tokens, keyword) {
				return rule.topic
			}
		}
	}
	return model.TopicFinancialKnowledge
}

// matchesKeyword matches multi-word keywords as substrings and
// single-word keywords as whole tokens, so "emi" never fires inside
// "premium".
func matchesKeyword(normalized string, tokens map[string]bool, keyword string) bool {
	if strings.ContainsRune(keyword, ' ') {
		return strings.Contains(normalized, keyword)
	}
	return tokens[keyword]
}

func tokenSet(normalized string) map[string]bool {
	tokens := make(map[string]bool)
	for _, token := range strings.FieldsFunc(normalized, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	}) {
		tokens[token] = true
	}
	return tokens
}

// Classifier categorizes transactions, optionally refining weak keyword
// matches with a generation client.
type Classifier struct {
	client llm.Client
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]Result
}

// NewClassifier creates a classifier. client may be nil, in which case
// only keyword rules apply.
func NewClassifier(client llm.Client, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		client: client,
		logger: logger,
		cache:  make(map[string]Result),
	}
}

// Categorize classifies one transaction, refining weak matches through
// the generation client when one is configured.
func (c *Classifier) Categorize(ctx context.Context, tx model.Transaction) Result {
	hash := tx.GenerateHash()

	c.mu.Lock()
	if cached, found := c.cache[hash]; found {
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	result := CategorizeDescription(tx.Description, tx.Type)

	if c.client != nil && result.Confidence < refineThreshold {
		if refined, ok := c.refine(ctx, tx); ok {
			result = refined
		}
	}

	c.mu.Lock()
	c.cache[hash] = result
	c.mu.Unlock()

	return result
}

// CategorizeBatch classifies transactions concurrently and returns them
// with Category, Subcategory, Confidence, IsRecurring and Reasoning
// filled in. Input order is preserved.
func (c *Classifier) CategorizeBatch(ctx context.Context, transactions []model.Transaction) []model.Transaction {
	results := make([]model.Transaction, len(transactions))
	semaphore := make(chan struct{}, batchWorkers)

	var wg sync.WaitGroup
	for i, tx := range transactions {
		wg.Add(1)
		go func(i int, tx model.Transaction) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			result := c.Categorize(ctx, tx)
			tx.Category = result.Category
			tx.Subcategory = result.Subcategory
			tx.Reasoning = result.Reasoning
			tx.Confidence = result.Confidence
			tx.IsRecurring = result.IsRecurring
			results[i] = tx
		}(i, tx)
	}
	wg.Wait()

	return results
}

// refine asks the generation client for a category. The model's answer
// is coerced to a valid category; "other" answers and any error leave
// the keyword result in place.
func (c *Classifier) refine(ctx context.Context, tx model.Transaction) (Result, bool) {
	prompt := buildRefinePrompt(tx)

	response, err := c.client.Complete(ctx, prompt)
	if err != nil {
		c.logger.Debug("refinement unavailable, keeping keyword result", "error", err)
		return Result{}, false
	}

	category := model.ParseCategory(firstLine(response))
	if category == model.CategoryOther {
		return Result{}, false
	}

	return Result{
		Category:   category,
		Reasoning:  "model-assisted classification",
		Confidence: refineThreshold,
	}, true
}

func buildRefinePrompt(tx model.Transaction) string {
	var labels []string
	for _, cat := range model.Categories() {
		labels = append(labels, string(cat))
	}

	return fmt.Sprintf(`Classify this Indian bank transaction into exactly one category.

Description: %s
Direction: %s
Amount: %s

Valid categories: %s

Respond with only the category name, nothing else.`,
		tx.Description, tx.Type, tx.Amount.StringFixed(2), strings.Join(labels, ", "))
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.Trim(s, " .\"'`")
}
