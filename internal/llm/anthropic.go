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
	anthropicMessagesURL      = "https://api.anthropic.com/v1/messages"
	anthropicVersion          = "2023-06-01"
	defaultAnthropicModel     = "claude-sonnet-4-20250514"
	defaultAnthropicMaxTokens = 4096
)

// shared HTTP client for Anthropic API calls
var anthropicHTTPClient = &http.Client{
	Timeout: 120 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// rate limiter for Anthropic API calls (50 requests/second, burst of 10)
var anthropicRateLimiter = rate.NewLimiter(50, 10)

type anthropicRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature *float32  `json:"temperature,omitempty"`
	TopP        *float32  `json:"top_p,omitempty"`
	Stream      bool      `json:"stream"`
}

type anthropicStreamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// AnthropicProvider streams chat completions from the Anthropic messages
// API. Anthropic has no embedding endpoint, so EmbedText always fails
// with ErrEmbeddingUnsupported.
type AnthropicProvider struct {
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewAnthropicProvider(apiKey string) *AnthropicProvider {
	return &AnthropicProvider{
		apiKey:     apiKey,
		httpClient: anthropicHTTPClient,
		limiter:    anthropicRateLimiter,
	}
}

func (p *AnthropicProvider) ID() string {
	return "claude"
}

func (p *AnthropicProvider) Name() string {
	return "Anthropic Claude"
}

func (p *AnthropicProvider) Models() []Model {
	return []Model{
		{ID: "claude-sonnet-4-20250514", Name: "Claude Sonnet 4", ProviderID: "claude"},
		{ID: "claude-3-5-haiku-20241022", Name: "Claude 3.5 Haiku", ProviderID: "claude"},
	}
}

func (p *AnthropicProvider) IsAvailable() bool {
	return p.apiKey != ""
}

func (p *AnthropicProvider) EmbedText(_ context.Context, _ string, _ string) ([]float32, error) {
	return nil, ErrEmbeddingUnsupported
}

func (p *AnthropicProvider) Stream(ctx context.Context, messages []Message, modelID string, params *Params) (<-chan StreamEvent, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("anthropic API key not configured")
	}

	if modelID == "" {
		modelID = defaultAnthropicModel
	}

	reqBody := buildAnthropicRequest(messages, modelID, params)

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicMessagesURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

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

		return nil, fmt.Errorf("anthropic request failed with status %d: %s", resp.StatusCode, string(body))
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

			var event anthropicStreamEvent
			if err := json.Unmarshal([]byte(data), &event); err != nil {
				continue
			}

			switch event.Type {
			case "content_block_delta":
				if event.Delta.Type != "text_delta" || event.Delta.Text == "" {
					continue
				}

				select {
				case events <- StreamEvent{Token: event.Delta.Text}:
				case <-ctx.Done():
					return
				}

			case "error":
				select {
				case events <- StreamEvent{Err: fmt.Errorf("anthropic stream error: %s", event.Error.Message)}:
				case <-ctx.Done():
				}

				return

			case "message_stop":
				return
			}
		}

		if err := scanner.Err(); err != nil {
			select {
			case events <- StreamEvent{Err: fmt.Errorf("anthropic stream read failed: %w", err)}:
			case <-ctx.Done():
			}
		}
	}()

	return events, nil
}

// system messages become the top-level system field; the messages list
// may only contain user/assistant turns
func buildAnthropicRequest(messages []Message, modelID string, params *Params) anthropicRequest {
	req := anthropicRequest{
		Model:     modelID,
		MaxTokens: defaultAnthropicMaxTokens,
		Stream:    true,
	}

	var system []string

	for _, msg := range messages {
		if msg.Role == RoleSystem {
			system = append(system, msg.Content)
			continue
		}

		req.Messages = append(req.Messages, msg)
	}

	req.System = strings.Join(system, "\n\n")

	if params != nil {
		req.Temperature = params.Temperature
		req.TopP = params.TopP

		if params.MaxTokens > 0 {
			req.MaxTokens = params.MaxTokens
		}
	}

	return req
}
