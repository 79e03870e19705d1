// Package knowledge implements the retrieval layer: topic-to-collection
// routing, vector similarity search over a SQLite document store, and
// quality filtering of results.
package knowledge

import (
	"context"

	"github.com/taxwise-in/taxwise/internal/model"
)

// Store is a collection-partitioned document store with similarity
// search.
type Store interface {
	// Query returns the topK documents in collection nearest to the
	// query text, nearest first.
	Query(ctx context.Context, collection, query string, topK int) ([]model.SearchResult, error)

	// Add inserts documents into a collection, creating it on first use.
	Add(ctx context.Context, collection string, docs []model.Document) error

	// Delete removes a document by ID from a collection.
	Delete(ctx context.Context, collection, id string) error

	// Count returns the number of documents in a collection. A missing
	// collection counts as zero.
	Count(ctx context.Context, collection string) (int, error)

	// Stats returns document counts per collection.
	Stats(ctx context.Context) (map[string]int, error)

	// Close releases store resources.
	Close() error
}

// Embedder converts text to a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
