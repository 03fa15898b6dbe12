package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	huggingfaceBaseURL          = "https://api-inference.huggingface.co/models"
	defaultHuggingFaceModel     = "mistralai/Mixtral-8x7B-Instruct-v0.1"
	defaultHuggingFaceMaxTokens = 1024
)

// shared HTTP client for Hugging Face API calls
var huggingfaceHTTPClient = &http.Client{
	Timeout: 120 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// rate limiter for Hugging Face API calls
var huggingfaceRateLimiter = rate.NewLimiter(50, 10)

type huggingfaceRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature *float32  `json:"temperature,omitempty"`
	TopP        *float32  `json:"top_p,omitempty"`
	Stream      bool      `json:"stream"`
}

type huggingfaceStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// HuggingFaceProvider streams chat completions from the Hugging Face
// inference API, which speaks the OpenAI chat-completion wire format
// per model. Hosted inference exposes no embedding endpoint, so
// EmbedText always fails with ErrEmbeddingUnsupported.
type HuggingFaceProvider struct {
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewHuggingFaceProvider(apiKey string) *HuggingFaceProvider {
	return &HuggingFaceProvider{
		apiKey:     apiKey,
		httpClient: huggingfaceHTTPClient,
		limiter:    huggingfaceRateLimiter,
	}
}

func (p *HuggingFaceProvider) ID() string {
	return "huggingface"
}

func (p *HuggingFaceProvider) Name() string {
	return "Hugging Face"
}

func (p *HuggingFaceProvider) Models() []Model {
	return []Model{
		{ID: "mistralai/Mixtral-8x7B-Instruct-v0.1", Name: "Mixtral 8x7B", ProviderID: "huggingface"},
		{ID: "meta-llama/Llama-2-70b-chat-hf", Name: "Llama 2 70B", ProviderID: "huggingface"},
	}
}

func (p *HuggingFaceProvider) IsAvailable() bool {
	return p.apiKey != ""
}

func (p *HuggingFaceProvider) EmbedText(_ context.Context, _ string, _ string) ([]float32, error) {
	return nil, ErrEmbeddingUnsupported
}

func (p *HuggingFaceProvider) Stream(ctx context.Context, messages []Message, modelID string, params *Params) (<-chan StreamEvent, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("hugging face API key not configured")
	}

	if modelID == "" {
		modelID = defaultHuggingFaceModel
	}

	reqBody := buildHuggingFaceRequest(messages, modelID, params)

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/v1/chat/completions", huggingfaceBaseURL, modelID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close() //nolint:errcheck,gosec // error path cleanup

		return nil, fmt.Errorf("hugging face request failed with status %d: %s", resp.StatusCode, string(body))
	}

	events := make(chan StreamEvent)

	go func() {
		defer close(events)
		defer resp.Body.Close() //nolint:errcheck,gosec // stream teardown

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			data, ok := strings.CutPrefix(scanner.Text(), "data: ")
			if !ok {
				continue
			}

			if data == "[DONE]" {
				return
			}

			var chunk huggingfaceStreamChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				continue
			}

			for _, choice := range chunk.Choices {
				if choice.Delta.Content == "" {
					continue
				}

				select {
				case events <- StreamEvent{Token: choice.Delta.Content}:
				case <-ctx.Done():
					return
				}
			}
		}

		if err := scanner.Err(); err != nil {
			select {
			case events <- StreamEvent{Err: fmt.Errorf("hugging face stream read failed: %w", err)}:
			case <-ctx.Done():
			}
		}
	}()

	return events, nil
}

// messages pass through as-is: the chat-completion format accepts
// system turns in the messages list
func buildHuggingFaceRequest(messages []Message, modelID string, params *Params) huggingfaceRequest {
	req := huggingfaceRequest{
		Model:     modelID,
		Messages:  messages,
		MaxTokens: defaultHuggingFaceMaxTokens,
		Stream:    true,
	}

	if params != nil {
		req.Temperature = params.Temperature
		req.TopP = params.TopP

		if params.MaxTokens > 0 {
			req.MaxTokens = params.MaxTokens
		}
	}

	return req
}
