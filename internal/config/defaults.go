package config

// DefaultExcludes are glob patterns skipped during document discovery.
var DefaultExcludes = []string{
	".git/**",
	"node_modules/**",
	"vendor/**",
	"*.lock",
	"*.min.js",
	"*.min.css",
}

// DefaultConfig returns a Config with sensible defaults. The Groq model
// mirrors the hosted Llama deployment the project was originally built
// against.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderGroq,
		Model:             "llama-3.3-70b-versatile",
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
		VisionModel:       "gemini-2.5-flash",
		DocsDir:           "docs",
		DataDir:           ".docqa",
		Include:           []string{"**/*.txt", "**/*.md"},
		Exclude:           DefaultExcludes,
		ChunkSize:         500,
		ChunkOverlap:      50,
		TopK:              4,
		Server: ServerConfig{
			Port:     8000,
			AllowAll: false,
		},
		Retry: RetryConfig{
			MaxAttempts:           5,
			AttemptTimeoutSeconds: 90,
		},
	}
}

// APIKeyEnvVar returns the conventional environment variable name for the
// API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderGroq:
		return "GROQ_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderGoogle:
		return "GOOGLE_API_KEY"
	default:
		return ""
	}
}
