package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	defaultChunkSize        = 1000
	defaultEmbedConcurrency = 4
	defaultIngestFileLimit  = 5
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	return &Config{
		DatabaseURL:      databaseURL,
		Environment:      environment,
		GoogleAIKey:      os.Getenv("GOOGLE_AI_API_KEY"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		AnthropicKey:     os.Getenv("ANTHROPIC_API_KEY"),
		HuggingFaceKey:   os.Getenv("HUGGINGFACE_API_KEY"),
		OllamaHost:       os.Getenv("OLLAMA_HOST"),
		ChunkSize:        intFromEnv("CHUNK_SIZE", defaultChunkSize),
		EmbedConcurrency: intFromEnv("EMBED_CONCURRENCY", defaultEmbedConcurrency),
		IngestFileLimit:  intFromEnv("INGEST_FILE_LIMIT", defaultIngestFileLimit),
	}, nil
}

func intFromEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		return fallback
	}

	return val
}
