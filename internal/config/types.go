package config

// Config holds process-wide configuration loaded from the environment.
type Config struct {
	DatabaseURL string
	Environment string

	// provider credentials; an empty key means that provider is
	// unavailable, not that startup fails
	GoogleAIKey    string
	OpenAIKey      string
	AnthropicKey   string
	HuggingFaceKey string
	OllamaHost     string

	// ingestion tuning
	ChunkSize        int
	EmbedConcurrency int
	IngestFileLimit  int
}

// Flags holds command-line options for the ingester CLI.
type Flags struct {
	WorkspaceID  string
	DataSourceID string
	Limit        int
}
