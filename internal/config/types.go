package config

// ProviderType identifies a chat-model provider.
type ProviderType string

const (
	ProviderGroq   ProviderType = "groq"
	ProviderOpenAI ProviderType = "openai"
	ProviderGoogle ProviderType = "google"
)

// Config is the top-level docqa configuration, corresponding to .docqa.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`
	VisionModel       string       `yaml:"vision_model" koanf:"vision_model"`
	DocsDir           string       `yaml:"docs_dir" koanf:"docs_dir"`
	DataDir           string       `yaml:"data_dir" koanf:"data_dir"`
	Include           []string     `yaml:"include" koanf:"include"`
	Exclude           []string     `yaml:"exclude" koanf:"exclude"`
	ChunkSize         int          `yaml:"chunk_size" koanf:"chunk_size"`
	ChunkOverlap      int          `yaml:"chunk_overlap" koanf:"chunk_overlap"`
	TopK              int          `yaml:"top_k" koanf:"top_k"`
	Server            ServerConfig `yaml:"server" koanf:"server"`
	Retry             RetryConfig  `yaml:"retry" koanf:"retry"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all" koanf:"allow_all"` // allow all CORS origins (dev mode)
}

// RetryConfig holds settings for the resilient remote caller used on the
// vision path.
type RetryConfig struct {
	MaxAttempts           int `yaml:"max_attempts" koanf:"max_attempts"`
	AttemptTimeoutSeconds int `yaml:"attempt_timeout_seconds" koanf:"attempt_timeout_seconds"`
}
