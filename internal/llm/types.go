package llm

import (
	"context"
	"errors"
)

// chat roles used across providers
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// returned by providers that have no embedding endpoint
var ErrEmbeddingUnsupported = errors.New("provider does not support embeddings")

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Model describes one model a provider can serve.
type Model struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ProviderID string `json:"providerId"`
}

// Params are optional generation parameters. Nil pointer fields mean
// "use the provider default"; a zero temperature is a real setting.
type Params struct {
	Temperature      *float32 `json:"temperature,omitempty"`
	MaxTokens        int      `json:"maxTokens,omitempty"`
	TopP             *float32 `json:"topP,omitempty"`
	FrequencyPenalty *float32 `json:"frequencyPenalty,omitempty"`
	PresencePenalty  *float32 `json:"presencePenalty,omitempty"`
}

// StreamEvent is one item of a token stream. Err is non-nil at most once,
// as the final event before the channel closes.
type StreamEvent struct {
	Token string
	Err   error
}

// Provider is a chat/embedding backend. Stream starts a completion and
// delivers tokens as they arrive; the returned channel is closed when the
// upstream stream ends or fails. EmbedText turns text into a fixed-length
// vector; providers without an embedding endpoint return
// ErrEmbeddingUnsupported.
type Provider interface {
	ID() string
	Name() string
	Models() []Model
	IsAvailable() bool
	Stream(ctx context.Context, messages []Message, modelID string, params *Params) (<-chan StreamEvent, error)
	EmbedText(ctx context.Context, text string, modelID string) ([]float32, error)
}

// Embedder is the narrow slice of Provider the retriever and ingestion
// pipeline need.
type Embedder interface {
	EmbedText(ctx context.Context, text string, modelID string) ([]float32, error)
}
