package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultOllamaModel      = "llama3"
	defaultOllamaEmbedModel = "nomic-embed-text"
)

// local daemon, generous timeout for slow models
var ollamaHTTPClient = &http.Client{
	Timeout: 300 * time.Second,
}

type ollamaOptions struct {
	Temperature *float32 `json:"temperature,omitempty"`
	TopP        *float32 `json:"top_p,omitempty"`
	NumPredict  int      `json:"num_predict,omitempty"`
}

type ollamaChatRequest struct {
	Model    string         `json:"model"`
	Messages []Message      `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  *ollamaOptions `json:"options,omitempty"`
}

type ollamaChatChunk struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done  bool   `json:"done"`
	Error string `json:"error"`
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// OllamaProvider talks to a local Ollama daemon. It is available only
// when a host is configured.
type OllamaProvider struct {
	host       string
	httpClient *http.Client
}

func NewOllamaProvider(host string) *OllamaProvider {
	return &OllamaProvider{
		host:       host,
		httpClient: ollamaHTTPClient,
	}
}

func (p *OllamaProvider) ID() string {
	return "ollama"
}

func (p *OllamaProvider) Name() string {
	return "Ollama (local)"
}

func (p *OllamaProvider) Models() []Model {
	return []Model{
		{ID: "llama3", Name: "Llama 3", ProviderID: "ollama"},
		{ID: "mistral", Name: "Mistral", ProviderID: "ollama"},
	}
}

func (p *OllamaProvider) IsAvailable() bool {
	return p.host != ""
}

func (p *OllamaProvider) EmbedText(ctx context.Context, text string, modelID string) ([]float32, error) {
	if p.host == "" {
		return nil, fmt.Errorf("ollama host not configured")
	}

	if modelID == "" {
		modelID = defaultOllamaEmbedModel
	}

	jsonData, err := json.Marshal(ollamaEmbedRequest{Model: modelID, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+"/api/embeddings", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama embed request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var embResp ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(embResp.Embedding) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	return embResp.Embedding, nil
}

func (p *OllamaProvider) Stream(ctx context.Context, messages []Message, modelID string, params *Params) (<-chan StreamEvent, error) {
	if p.host == "" {
		return nil, fmt.Errorf("ollama host not configured")
	}

	if modelID == "" {
		modelID = defaultOllamaModel
	}

	reqBody := ollamaChatRequest{
		Model:    modelID,
		Messages: messages,
		Stream:   true,
	}

	if params != nil {
		reqBody.Options = &ollamaOptions{
			Temperature: params.Temperature,
			TopP:        params.TopP,
			NumPredict:  params.MaxTokens,
		}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+"/api/chat", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close() //nolint:errcheck,gosec // error path cleanup

		return nil, fmt.Errorf("ollama chat request failed with status %d: %s", resp.StatusCode, string(body))
	}

	events := make(chan StreamEvent)

	// ollama streams newline-delimited JSON rather than SSE
	go func() {
		defer close(events)
		defer resp.Body.Close() //nolint:errcheck,gosec // stream teardown

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			var chunk ollamaChatChunk
			if err := json.Unmarshal(scanner.Bytes(), &chunk); err != nil {
				continue
			}

			if chunk.Error != "" {
				select {
				case events <- StreamEvent{Err: fmt.Errorf("ollama stream error: %s", chunk.Error)}:
				case <-ctx.Done():
				}

				return
			}

			if chunk.Message.Content != "" {
				select {
				case events <- StreamEvent{Token: chunk.Message.Content}:
				case <-ctx.Done():
					return
				}
			}

			if chunk.Done {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			select {
			case events <- StreamEvent{Err: fmt.Errorf("ollama stream read failed: %w", err)}:
			case <-ctx.Done():
			}
		}
	}()

	return events, nil
}
