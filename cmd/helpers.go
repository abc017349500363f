package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"docqa/internal/config"
	"docqa/internal/embeddings"
	"docqa/internal/ingest"
	"docqa/internal/llm"
	"docqa/internal/rag"
	"docqa/internal/vectordb"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docqa init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createEmbedderFromConfig creates the embedder shared by the ingest, query,
// and serve commands.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	apiKey := os.Getenv(config.APIKeyEnvVar(cfg.EmbeddingProvider))
	if apiKey == "" {
		return nil, fmt.Errorf("%s environment variable is required for %s embeddings",
			config.APIKeyEnvVar(cfg.EmbeddingProvider), cfg.EmbeddingProvider)
	}
	return embeddings.NewOpenAIEmbedder(apiKey, cfg.EmbeddingModel), nil
}

// createProviderFromConfig creates the completion provider based on config.
func createProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	return llm.NewProvider(string(cfg.Provider), cfg.Model)
}

// openStore creates an empty vector store backed by the configured embedder.
func openStore(cfg *config.Config) (vectordb.VectorStore, error) {
	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	store, err := vectordb.NewChromemStore(embedder)
	if err != nil {
		return nil, fmt.Errorf("creating vector store: %w", err)
	}
	return store, nil
}

// loadStore opens the vector store and loads the persisted snapshot.
func loadStore(ctx context.Context, cfg *config.Config) (vectordb.VectorStore, error) {
	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	vectorDir := filepath.Join(cfg.DataDir, ingest.VectorSubdir)
	if err := store.Load(ctx, vectorDir); err != nil {
		return nil, fmt.Errorf("loading vector store from %s: %w\nRun `docqa ingest` first to build the index", vectorDir, err)
	}
	return store, nil
}

// buildEngine assembles the answering pipeline over a loaded store.
func buildEngine(cfg *config.Config, store vectordb.VectorStore) (*rag.Engine, llm.Provider, error) {
	provider, err := createProviderFromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("creating provider: %w", err)
	}
	engine := rag.NewEngine(rag.NewStoreRetriever(store), provider, cfg.Model, cfg.TopK)
	return engine, provider, nil
}
