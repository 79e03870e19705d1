package knowledge

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/taxwise-in/taxwise/internal/common"
	"github.com/taxwise-in/taxwise/internal/model"
)

const knowledgeSchema = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT NOT NULL,
	collection TEXT NOT NULL,
	content TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	confidence REAL NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL,
	embedding BLOB NOT NULL,
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection);
`

// SQLiteStore persists documents and their embeddings in SQLite and
// ranks query results by cosine distance in-process. Collections are
// small (hundreds of passages), so a linear scan per query is fine.
type SQLiteStore struct {
	db       *sql.DB
	embedder Embedder
}

// NewSQLiteStore opens (or creates) the document store at path.
func NewSQLiteStore(path string, embedder Embedder) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to knowledge database: %w", err)
	}

	if _, err := db.Exec(knowledgeSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}

	if embedder == nil {
		embedder = NewHashEmbedder(defaultEmbedDim)
	}

	return &SQLiteStore{db: db, embedder: embedder}, nil
}

// Add inserts documents, embedding each one. Existing IDs in the same
// collection are replaced.
func (s *SQLiteStore) Add(ctx context.Context, collection string, docs []model.Document) error {
	if collection == "" {
		return fmt.Errorf("collection name is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO documents
			(id, collection, content, title, source, category, confidence, created_at, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, doc := range docs {
		if doc.ID == "" || doc.Content == "" {
			return fmt.Errorf("document requires id and content")
		}

		embedding, err := s.embedder.Embed(ctx, doc.Content)
		if err != nil {
			return fmt.Errorf("failed to embed document %s: %w", doc.ID, err)
		}

		createdAt := doc.Metadata.Timestamp
		if createdAt.IsZero() {
			createdAt = time.Now()
		}

		_, err = stmt.ExecContext(ctx,
			doc.ID, collection, doc.Content,
			doc.Metadata.Title, doc.Metadata.Source, doc.Metadata.Category,
			doc.Metadata.Confidence, createdAt, encodeVector(embedding))
		if err != nil {
			return fmt.Errorf("failed to insert document %s: %w", doc.ID, err)
		}
	}

	return tx.Commit()
}

// Query embeds the query text and returns the topK nearest documents.
func (s *SQLiteStore) Query(ctx context.Context, collection, query string, topK int) ([]model.SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, title, source, category, confidence, created_at, embedding
		FROM documents WHERE collection = ?`, collection)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrRetrievalUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	var results []model.SearchResult
	for rows.Next() {
		var doc model.Document
		var blob []byte
		if err := rows.Scan(&doc.ID, &doc.Content,
			&doc.Metadata.Title, &doc.Metadata.Source, &doc.Metadata.Category,
			&doc.Metadata.Confidence, &doc.Metadata.Timestamp, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}

		docVec, err := decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("corrupt embedding for document %s: %w", doc.ID, err)
		}

		results = append(results, model.SearchResult{
			Document: doc,
			Distance: cosineDistance(queryVec, docVec),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if len(results) > topK {
		results = results[:topK]
	}

	return results, nil
}

// Delete removes one document from a collection.
func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("document %s not found in collection %s", id, collection)
	}
	return nil
}

// Count returns the number of documents in a collection.
func (s *SQLiteStore) Count(ctx context.Context, collection string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE collection = ?`, collection).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

// Stats returns document counts per collection.
func (s *SQLiteStore) Stats(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT collection, COUNT(*) FROM documents GROUP BY collection`)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	stats := make(map[string]int)
	for rows.Next() {
		var collection string
		var count int
		if err := rows.Scan(&collection, &count); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		stats[collection] = count
	}
	return stats, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d is not a multiple of 4", len(blob))
	}
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vec, nil
}

// cosineDistance returns 1 - cosine similarity, in [0, 2]. Mismatched
// dimensions count as maximally distant.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 2
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 2
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
