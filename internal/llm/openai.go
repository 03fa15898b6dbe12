package llm

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOpenAIModel      = "gpt-4o"
	defaultOpenAIEmbedModel = "text-embedding-3-small"
)

// OpenAIProvider wraps the go-openai client for chat streaming and
// embeddings.
type OpenAIProvider struct {
	client *openai.Client
}

func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	p := &OpenAIProvider{}

	if apiKey != "" {
		p.client = openai.NewClient(apiKey)
	}

	return p
}

func (p *OpenAIProvider) ID() string {
	return "openai"
}

func (p *OpenAIProvider) Name() string {
	return "OpenAI"
}

func (p *OpenAIProvider) Models() []Model {
	return []Model{
		{ID: "gpt-4o", Name: "GPT-4o", ProviderID: "openai"},
		{ID: "gpt-4o-mini", Name: "GPT-4o mini", ProviderID: "openai"},
		{ID: "gpt-4-turbo", Name: "GPT-4 Turbo", ProviderID: "openai"},
	}
}

func (p *OpenAIProvider) IsAvailable() bool {
	return p.client != nil
}

func (p *OpenAIProvider) EmbedText(ctx context.Context, text string, modelID string) ([]float32, error) {
	if p.client == nil {
		return nil, fmt.Errorf("openai API key not configured")
	}

	if modelID == "" {
		modelID = defaultOpenAIEmbedModel
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: openai.EmbeddingModel(modelID),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding request failed: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	return resp.Data[0].Embedding, nil
}

func (p *OpenAIProvider) Stream(ctx context.Context, messages []Message, modelID string, params *Params) (<-chan StreamEvent, error) {
	if p.client == nil {
		return nil, fmt.Errorf("openai API key not configured")
	}

	if modelID == "" {
		modelID = defaultOpenAIModel
	}

	req := openai.ChatCompletionRequest{
		Model:    modelID,
		Messages: toOpenAIMessages(messages),
		Stream:   true,
	}

	if params != nil {
		if params.Temperature != nil {
			req.Temperature = *params.Temperature
		}

		if params.MaxTokens > 0 {
			req.MaxTokens = params.MaxTokens
		}

		if params.TopP != nil {
			req.TopP = *params.TopP
		}

		if params.FrequencyPenalty != nil {
			req.FrequencyPenalty = *params.FrequencyPenalty
		}

		if params.PresencePenalty != nil {
			req.PresencePenalty = *params.PresencePenalty
		}
	}

	stream, err := p.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai stream request failed: %w", err)
	}

	events := make(chan StreamEvent)

	go func() {
		defer close(events)
		defer stream.Close() //nolint:errcheck,gosec // stream teardown

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}

			if err != nil {
				select {
				case events <- StreamEvent{Err: fmt.Errorf("openai stream read failed: %w", err)}:
				case <-ctx.Done():
				}

				return
			}

			if len(resp.Choices) == 0 {
				continue
			}

			token := resp.Choices[0].Delta.Content
			if token == "" {
				continue
			}

			select {
			case events <- StreamEvent{Token: token}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))

	for i, msg := range messages {
		out[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	return out
}
