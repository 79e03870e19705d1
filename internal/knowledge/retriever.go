package knowledge

import (
	"context"
	"log/slog"

	"github.com/taxwise-in/taxwise/internal/model"
)

// NoInformationFound is the sentinel context passage returned when
// retrieval produces nothing usable. The answer pipeline passes it to
// the generator like any other context.
const NoInformationFound = "No relevant information found."

// Retriever wraps a Store with the quality gates applied to every
// lookup: distance cutoff and an optional ingestion-confidence floor.
type Retriever struct {
	store         Store
	logger        *slog.Logger
	maxDistance   float64
	minConfidence float64
	topK          int
}

// RetrieverOptions configures a Retriever.
type RetrieverOptions struct {
	// MaxDistance rejects results farther than this cosine distance.
	MaxDistance float64
	// MinConfidence rejects documents whose ingestion confidence is
	// below this floor. Zero disables the check; documents with unset
	// confidence always pass.
	MinConfidence float64
	// TopK is the number of candidates fetched before filtering.
	TopK int
}

// NewRetriever creates a Retriever over the given store.
func NewRetriever(store Store, opts RetrieverOptions, logger *slog.Logger) *Retriever {
	if opts.MaxDistance <= 0 {
		opts.MaxDistance = 0.5
	}
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Retriever{
		store:         store,
		maxDistance:   opts.MaxDistance,
		minConfidence: opts.MinConfidence,
		topK:          opts.TopK,
		logger:        logger,
	}
}

// Retrieve finds context passages for a query in the topic's collection.
// It never fails: store errors, empty collections and fully-filtered
// result sets all degrade to the NoInformationFound sentinel with zero
// sources used.
func (r *Retriever) Retrieve(ctx context.Context, query string, topic model.Topic) ([]model.SearchResult, int) {
	collection := CollectionFor(topic)

	candidates, err := r.store.Query(ctx, collection, query, r.topK)
	if err != nil {
		r.logger.Warn("retrieval failed, degrading to no-context answer",
			"collection", collection,
			"error", err)
		return r.sentinel(), 0
	}

	var results []model.SearchResult
	for _, candidate := range candidates {
		if candidate.Distance >= r.maxDistance {
			continue
		}
		if r.minConfidence > 0 &&
			candidate.Document.Metadata.Confidence > 0 &&
			candidate.Document.Metadata.Confidence < r.minConfidence {
			continue
		}
		results = append(results, candidate)
	}

	if len(results) == 0 {
		r.logger.Debug("no passages survived filtering",
			"collection", collection,
			"candidates", len(candidates))
		return r.sentinel(), 0
	}

	return results, len(results)
}

func (r *Retriever) sentinel() []model.SearchResult {
	return []model.SearchResult{{
		Document: model.Document{Content: NoInformationFound},
		Distance: r.maxDistance,
	}}
}
