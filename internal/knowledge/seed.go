package knowledge

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/taxwise-in/taxwise/internal/model"
)

// seedFile is the YAML layout of a knowledge corpus file.
type seedFile struct {
	Collections map[string][]seedDocument `yaml:"collections"`
}

type seedDocument struct {
	Title      string  `yaml:"title"`
	Content    string  `yaml:"content"`
	Source     string  `yaml:"source"`
	Category   string  `yaml:"category"`
	Confidence float64 `yaml:"confidence"`
}

// SeedFromFile loads a YAML corpus into the store and returns the
// number of documents ingested.
func SeedFromFile(ctx context.Context, store Store, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read corpus file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return 0, fmt.Errorf("failed to parse corpus file: %w", err)
	}

	total := 0
	now := time.Now()
	for collection, entries := range seed.Collections {
		docs := make([]model.Document, 0, len(entries))
		for _, entry := range entries {
			if entry.Content == "" {
				return total, fmt.Errorf("collection %s has a document with empty content", collection)
			}
			docs = append(docs, model.Document{
				ID:      uuid.New().String(),
				Content: entry.Content,
				Metadata: model.DocumentMetadata{
					Timestamp:  now,
					Title:      entry.Title,
					Source:     entry.Source,
					Category:   entry.Category,
					Confidence: entry.Confidence,
				},
			})
		}
		if err := store.Add(ctx, collection, docs); err != nil {
			return total, fmt.Errorf("failed to seed collection %s: %w", collection, err)
		}
		total += len(docs)
	}

	return total, nil
}
