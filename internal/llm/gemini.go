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
	geminiBaseURL           = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel      = "gemini-pro"
	defaultGeminiEmbedModel = "text-embedding-004"
)

// shared HTTP client for Gemini API calls
var geminiHTTPClient = &http.Client{
	Timeout: 120 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// rate limiter for Gemini API calls
var geminiRateLimiter = rate.NewLimiter(50, 10)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     *float32 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	TopP            *float32 `json:"topP,omitempty"`
}

type geminiGenerateRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiEmbedRequest struct {
	Model   string        `json:"model"`
	Content geminiContent `json:"content"`
}

type geminiEmbedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// GeminiProvider talks to the Google Generative Language REST API. It is
// also the system default for embeddings.
type GeminiProvider struct {
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewGeminiProvider(apiKey string) *GeminiProvider {
	return &GeminiProvider{
		apiKey:     apiKey,
		httpClient: geminiHTTPClient,
		limiter:    geminiRateLimiter,
	}
}

func (p *GeminiProvider) ID() string {
	return "gemini"
}

func (p *GeminiProvider) Name() string {
	return "Google Gemini"
}

func (p *GeminiProvider) Models() []Model {
	return []Model{
		{ID: "gemini-pro", Name: "Gemini Pro", ProviderID: "gemini"},
		{ID: "gemini-1.5-pro", Name: "Gemini 1.5 Pro", ProviderID: "gemini"},
		{ID: "gemini-1.5-flash", Name: "Gemini 1.5 Flash", ProviderID: "gemini"},
	}
}

func (p *GeminiProvider) IsAvailable() bool {
	return p.apiKey != ""
}

func (p *GeminiProvider) EmbedText(ctx context.Context, text string, modelID string) ([]float32, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("gemini API key not configured")
	}

	if modelID == "" {
		modelID = defaultGeminiEmbedModel
	}

	reqBody := geminiEmbedRequest{
		Model:   "models/" + modelID,
		Content: geminiContent{Parts: []geminiPart{{Text: text}}},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:embedContent?key=%s", geminiBaseURL, modelID, p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gemini embed request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var embResp geminiEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(embResp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	return embResp.Embedding.Values, nil
}

func (p *GeminiProvider) Stream(ctx context.Context, messages []Message, modelID string, params *Params) (<-chan StreamEvent, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("gemini API key not configured")
	}

	if modelID == "" {
		modelID = defaultGeminiModel
	}

	reqBody := buildGeminiRequest(messages, params)

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse&key=%s", geminiBaseURL, modelID, p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

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

		return nil, fmt.Errorf("gemini stream request failed with status %d: %s", resp.StatusCode, string(body))
	}

	events := make(chan StreamEvent)

	go func() {
		defer close(events)
		defer resp.Body.Close() //nolint:errcheck,gosec // stream teardown

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := scanner.Text()

			data, ok := strings.CutPrefix(line, "data: ")
			if !ok {
				continue
			}

			var chunk geminiGenerateResponse
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				continue // skip keep-alives and unknown payloads
			}

			for _, cand := range chunk.Candidates {
				for _, part := range cand.Content.Parts {
					if part.Text == "" {
						continue
					}

					select {
					case events <- StreamEvent{Token: part.Text}:
					case <-ctx.Done():
						return
					}
				}
			}
		}

		if err := scanner.Err(); err != nil {
			select {
			case events <- StreamEvent{Err: fmt.Errorf("gemini stream read failed: %w", err)}:
			case <-ctx.Done():
			}
		}
	}()

	return events, nil
}

// converts chat messages into the Gemini request shape: system messages
// become the systemInstruction, assistant turns become role "model"
func buildGeminiRequest(messages []Message, params *Params) geminiGenerateRequest {
	req := geminiGenerateRequest{}

	var systemParts []geminiPart

	for _, msg := range messages {
		if msg.Role == RoleSystem {
			systemParts = append(systemParts, geminiPart{Text: msg.Content})
			continue
		}

		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}

		req.Contents = append(req.Contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: msg.Content}},
		})
	}

	if len(systemParts) > 0 {
		req.SystemInstruction = &geminiContent{Parts: systemParts}
	}

	if params != nil {
		req.GenerationConfig = &geminiGenerationConfig{
			Temperature:     params.Temperature,
			MaxOutputTokens: params.MaxTokens,
			TopP:            params.TopP,
		}
	}

	return req
}
