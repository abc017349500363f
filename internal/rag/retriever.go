package rag

import (
	"context"
	"fmt"

	"docqa/internal/vectordb"
)

// StoreRetriever adapts a vectordb.VectorStore to the Retriever interface.
type StoreRetriever struct {
	store vectordb.VectorStore
}

// NewStoreRetriever wraps the given vector store.
func NewStoreRetriever(store vectordb.VectorStore) *StoreRetriever {
	return &StoreRetriever{store: store}
}

func (r *StoreRetriever) Retrieve(ctx context.Context, query string, topK int) ([]Chunk, error) {
	results, err := r.store.Search(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	chunks := make([]Chunk, len(results))
	for i, res := range results {
		chunks[i] = Chunk{Text: res.Document.Content}
	}
	return chunks, nil
}
