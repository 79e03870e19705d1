package model

import "time"

// Document is one passage in a knowledge collection. Created by
// ingestion; read-only to the answer pipeline.
type Document struct {
	ID       string
	Content  string
	Metadata DocumentMetadata
}

// DocumentMetadata carries provenance and quality signals used for
// retrieval filtering.
type DocumentMetadata struct {
	Timestamp  time.Time
	Title      string
	Source     string
	Category   string
	Confidence float64 // 0-1, ingestion-declared quality; 0 means unset
}

// SearchResult is a retrieved document with its relevance distance
// (lower is more similar).
type SearchResult struct {
	Document Document
	Distance float64
}
