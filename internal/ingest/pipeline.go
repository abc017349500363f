package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"docqa/internal/progress"
	"docqa/internal/vectordb"
)

// ChunksFile is the name of the jsonl sidecar written next to the vector
// snapshot.
const ChunksFile = "chunks.jsonl"

// VectorSubdir is the directory under the data dir holding the persisted
// vector store.
const VectorSubdir = "vectordb"

// Options configures one ingestion run.
type Options struct {
	DocsDir      string
	DataDir      string
	Include      []string
	Exclude      []string
	ChunkSize    int
	ChunkOverlap int
}

// Stats summarizes an ingestion run.
type Stats struct {
	Documents int
	Chunks    int
	Skipped   int
}

// Pipeline loads source documents, chunks them, and feeds the vector store.
type Pipeline struct {
	opts     Options
	store    vectordb.VectorStore
	reporter progress.Reporter
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(opts Options, store vectordb.VectorStore, reporter progress.Reporter) *Pipeline {
	if reporter == nil {
		reporter = progress.NopReporter{}
	}
	return &Pipeline{opts: opts, store: store, reporter: reporter}
}

// Run discovers documents, extracts and splits their text, writes the
// chunks.jsonl sidecar, embeds everything into the vector store, and
// persists the store to disk. Unreadable or unsupported files are skipped
// with a log line rather than failing the run.
func (p *Pipeline) Run(ctx context.Context) (*Stats, error) {
	sources, err := Discover(p.opts.DocsDir, p.opts.Include, p.opts.Exclude)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no documents found in %s", p.opts.DocsDir)
	}

	stats := &Stats{}
	var allChunks []Chunk
	var docs []vectordb.Document
	now := time.Now()

	p.reporter.Start(len(sources))
	for i, rel := range sources {
		p.reporter.Update(i+1, rel)

		data, err := os.ReadFile(filepath.Join(p.opts.DocsDir, filepath.FromSlash(rel)))
		if err != nil {
			log.Printf("ingest: skipping %s: %v", rel, err)
			stats.Skipped++
			continue
		}

		text, err := ExtractText(rel, data)
		if err != nil {
			log.Printf("ingest: skipping %s: %v", rel, err)
			stats.Skipped++
			continue
		}

		pieces := Split(text, p.opts.ChunkSize, p.opts.ChunkOverlap)
		if len(pieces) == 0 {
			stats.Skipped++
			continue
		}

		// Drop any chunks from a previous run of this document before
		// re-adding, so renames and edits do not leave stale vectors.
		if err := p.store.DeleteBySource(ctx, rel); err != nil {
			return nil, fmt.Errorf("clearing stale chunks for %s: %w", rel, err)
		}

		hash := hashBytes(data)
		for j, piece := range pieces {
			allChunks = append(allChunks, Chunk{Text: piece})
			docs = append(docs, vectordb.Document{
				ID:      fmt.Sprintf("chunk:%s:%d", rel, j),
				Content: piece,
				Metadata: vectordb.DocumentMetadata{
					Source:      rel,
					ChunkIndex:  j,
					ContentHash: hash,
					LastUpdated: now,
				},
			})
		}

		stats.Documents++
		stats.Chunks += len(pieces)
	}
	p.reporter.Finish()

	if len(docs) == 0 {
		return nil, fmt.Errorf("no text could be extracted from %d documents", len(sources))
	}

	if err := WriteChunks(filepath.Join(p.opts.DataDir, ChunksFile), allChunks); err != nil {
		return nil, err
	}

	if err := p.store.AddDocuments(ctx, docs); err != nil {
		return nil, fmt.Errorf("adding documents to vector store: %w", err)
	}

	vectorDir := filepath.Join(p.opts.DataDir, VectorSubdir)
	if err := os.MkdirAll(vectorDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating vector dir: %w", err)
	}
	if err := p.store.Persist(ctx, vectorDir); err != nil {
		return nil, fmt.Errorf("persisting vector store: %w", err)
	}

	return stats, nil
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
