package vectordb

import "time"

// Document represents one indexed chunk of source-document text.
type Document struct {
	ID       string
	Content  string
	Metadata DocumentMetadata
}

// DocumentMetadata holds provenance information for a chunk.
type DocumentMetadata struct {
	Source      string // path of the source document, relative to the docs dir
	ChunkIndex  int    // position of the chunk within its source document
	ContentHash string // SHA-256 hex digest of the full source document
	LastUpdated time.Time
}

// SearchResult pairs a document with its similarity score.
type SearchResult struct {
	Document   Document
	Similarity float32
}
