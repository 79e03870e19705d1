package knowledge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxwise-in/taxwise/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "knowledge.db")
	store, err := NewSQLiteStore(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func doc(id, content string) model.Document {
	return model.Document{ID: id, Content: content}
}

func TestCollectionFor(t *testing.T) {
	tests := []struct {
		topic model.Topic
		want  string
	}{
		{model.TopicRetirementPlanning, "financial_knowledge"},
		{model.TopicInvestmentAdvice, "investment_advice"},
		{model.TopicTaxRules, "tax_rules"},
		{model.TopicStockAnalysis, "stock_analysis"},
		{model.TopicFinancialKnowledge, "financial_knowledge"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CollectionFor(tt.topic))
	}
}

func TestStoreAddAndQuery(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Add(ctx, "tax_rules", []model.Document{
		doc("d1", "The section 80C deduction limit is 1.5 lakh for ELSS PPF and NSC investments"),
		doc("d2", "Home loan interest deduction under section 24b is capped at 2 lakh per year"),
		doc("d3", "Cricket is the most popular sport in India"),
	})
	require.NoError(t, err)

	results, err := store.Query(ctx, "tax_rules", "what is the 80C deduction limit for ELSS", 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "d1", results[0].Document.ID)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Distance, results[i].Distance)
	}
}

func TestStoreQueryRespectsTopK(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Add(ctx, "tax_rules", []model.Document{
		doc("d1", "tax deduction section one"),
		doc("d2", "tax deduction section two"),
		doc("d3", "tax deduction section three"),
	})
	require.NoError(t, err)

	results, err := store.Query(ctx, "tax_rules", "tax deduction", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestStoreQueryMissingCollection(t *testing.T) {
	store := newTestStore(t)

	results, err := store.Query(context.Background(), "nonexistent", "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStoreCollectionsAreIsolated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "tax_rules", []model.Document{doc("d1", "tax content")}))
	require.NoError(t, store.Add(ctx, "stock_analysis", []model.Document{doc("d1", "stock content")}))

	results, err := store.Query(ctx, "tax_rules", "content", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "tax content", results[0].Document.Content)
}

func TestStoreDeleteAndCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "tax_rules", []model.Document{
		doc("d1", "first passage"),
		doc("d2", "second passage"),
	}))

	count, err := store.Count(ctx, "tax_rules")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, store.Delete(ctx, "tax_rules", "d1"))

	count, err = store.Count(ctx, "tax_rules")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	err = store.Delete(ctx, "tax_rules", "d1")
	assert.Error(t, err)
}

func TestStoreStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "tax_rules", []model.Document{doc("d1", "a"), doc("d2", "b")}))
	require.NoError(t, store.Add(ctx, "financial_knowledge", []model.Document{doc("d3", "c")}))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"tax_rules": 2, "financial_knowledge": 1}, stats)
}

func TestHashEmbedderDeterministic(t *testing.T) {
	embedder := NewHashEmbedder(64)
	ctx := context.Background()

	first, err := embedder.Embed(ctx, "section 80c deduction limit")
	require.NoError(t, err)
	second, err := embedder.Embed(ctx, "section 80c deduction limit")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestCosineDistance(t *testing.T) {
	assert.InDelta(t, 0, cosineDistance([]float32{1, 0}, []float32{1, 0}), 1e-9)
	assert.InDelta(t, 1, cosineDistance([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, float64(2), cosineDistance([]float32{1, 0}, []float32{1, 0, 0}))
	assert.Equal(t, float64(2), cosineDistance([]float32{0, 0}, []float32{1, 0}))
}

type failingStore struct{ Store }

func (f failingStore) Query(context.Context, string, string, int) ([]model.SearchResult, error) {
	return nil, errors.New("store offline")
}

func TestRetrieverDegradesOnStoreError(t *testing.T) {
	retriever := NewRetriever(failingStore{}, RetrieverOptions{}, nil)

	results, sourcesUsed := retriever.Retrieve(context.Background(), "anything", model.TopicTaxRules)
	require.Len(t, results, 1)
	assert.Equal(t, NoInformationFound, results[0].Document.Content)
	assert.Equal(t, 0, sourcesUsed)
}

func TestRetrieverFiltersByDistance(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "tax_rules", []model.Document{
		doc("near", "section 80c deduction limit for elss investments"),
		doc("far", "completely unrelated gardening tips for monsoon season"),
	}))

	retriever := NewRetriever(store, RetrieverOptions{MaxDistance: 0.5}, nil)
	results, sourcesUsed := retriever.Retrieve(ctx, "section 80c deduction limit", model.TopicTaxRules)

	require.Equal(t, 1, sourcesUsed)
	assert.Equal(t, "near", results[0].Document.ID)
}

func TestRetrieverFiltersByConfidence(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	lowQuality := doc("low", "section 80c deduction limit is 1.5 lakh")
	lowQuality.Metadata.Confidence = 0.3
	highQuality := doc("high", "section 80c deduction limit is 1.5 lakh per year")
	highQuality.Metadata.Confidence = 0.9

	require.NoError(t, store.Add(ctx, "tax_rules", []model.Document{lowQuality, highQuality}))

	retriever := NewRetriever(store, RetrieverOptions{MaxDistance: 0.9, MinConfidence: 0.8}, nil)
	results, sourcesUsed := retriever.Retrieve(ctx, "section 80c deduction limit", model.TopicTaxRules)

	require.Equal(t, 1, sourcesUsed)
	assert.Equal(t, "high", results[0].Document.ID)
}

func TestRetrieverEmptyCollectionReturnsSentinel(t *testing.T) {
	store := newTestStore(t)
	retriever := NewRetriever(store, RetrieverOptions{}, nil)

	results, sourcesUsed := retriever.Retrieve(context.Background(), "anything", model.TopicStockAnalysis)
	require.Len(t, results, 1)
	assert.Equal(t, NoInformationFound, results[0].Document.Content)
	assert.Equal(t, 0, sourcesUsed)
}

func TestSeedFromFile(t *testing.T) {
	store := newTestStore(t)

	corpus := `collections:
  tax_rules:
    - title: Section 80C
      content: Section 80C allows deductions up to 1.5 lakh.
      source: income tax act
      category: deductions
      confidence: 0.9
    - title: Cess
      content: Health and education cess is 4 percent of income tax.
      source: income tax act
      confidence: 0.9
  financial_knowledge:
    - title: Emergency fund
      content: Keep six months of expenses in an emergency fund.
      confidence: 0.8
`
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(corpus), 0o644))

	count, err := SeedFromFile(context.Background(), store, path)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats[CollectionFor(model.TopicTaxRules)])
}
