package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/inlock-ai/ragserver/internal/errors"
	"github.com/inlock-ai/ragserver/internal/llm"
	"github.com/inlock-ai/ragserver/internal/modelrouter"
	"github.com/inlock-ai/ragserver/internal/retriever"
	"github.com/inlock-ai/ragserver/internal/store"
)

type fakeRetriever struct {
	chunks []retriever.RetrievedChunk
	err    error
}

func (f *fakeRetriever) Retrieve(_ context.Context, _, _ string, _ int) ([]retriever.RetrievedChunk, error) {
	return f.chunks, f.err
}

type capturingProvider struct {
	gotMessages []llm.Message
	gotModelID  string
	tokens      []string
}

func (p *capturingProvider) ID() string          { return "fake" }
func (p *capturingProvider) Name() string        { return "Fake" }
func (p *capturingProvider) Models() []llm.Model { return nil }
func (p *capturingProvider) IsAvailable() bool   { return true }

func (p *capturingProvider) Stream(_ context.Context, messages []llm.Message, modelID string, _ *llm.Params) (<-chan llm.StreamEvent, error) {
	p.gotMessages = messages
	p.gotModelID = modelID

	ch := make(chan llm.StreamEvent, len(p.tokens))
	for _, tok := range p.tokens {
		ch <- llm.StreamEvent{Token: tok}
	}
	close(ch)

	return ch, nil
}

func (p *capturingProvider) EmbedText(_ context.Context, _ string, _ string) ([]float32, error) {
	return nil, llm.ErrEmbeddingUnsupported
}

type fakeResolver struct {
	provider llm.Provider
	config   modelrouter.PresetConfig
	err      error
}

func (f *fakeResolver) Resolve(_ context.Context, _, _ string) (modelrouter.Resolved, error) {
	if f.err != nil {
		return modelrouter.Resolved{}, f.err
	}

	return modelrouter.Resolved{Provider: f.provider, Config: f.config}, nil
}

type fakeTemplates struct {
	template *store.Template
}

func (f *fakeTemplates) GetTemplate(_ context.Context, id string) (*store.Template, error) {
	if f.template == nil {
		return nil, apperrors.NewNotFound("template", id)
	}

	return f.template, nil
}

func chunkWithDoc(content, title string) retriever.RetrievedChunk {
	return retriever.RetrievedChunk{
		Content:  content,
		Score:    0.9,
		Document: &store.DocumentRef{ID: "d1", Title: title},
	}
}

func drain(stream <-chan llm.StreamEvent) string {
	var b strings.Builder
	for ev := range stream {
		b.WriteString(ev.Token)
	}

	return b.String()
}

func TestQueryBuildsCitedContext(t *testing.T) {
	provider := &capturingProvider{tokens: []string{"Hello", " world"}}
	engine := NewEngine(
		&fakeRetriever{chunks: []retriever.RetrievedChunk{
			chunkWithDoc("vacation is 25 days", "HR Handbook"),
			chunkWithDoc("remote work is allowed", "Policy Doc"),
		}},
		&fakeResolver{provider: provider, config: modelrouter.PresetConfig{
			Model: modelrouter.ModelSelection{ProviderID: "fake", ModelID: "fake-1"},
		}},
		&fakeTemplates{},
	)

	resp, err := engine.Query(context.Background(), "ws-1", "how many vacation days?", "")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	if len(resp.Citations) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(resp.Citations))
	}

	if got := drain(resp.Stream); got != "Hello world" {
		t.Errorf("unexpected stream content %q", got)
	}

	if len(provider.gotMessages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(provider.gotMessages))
	}

	system := provider.gotMessages[0].Content

	if !strings.Contains(system, "[Source: HR Handbook]\nvacation is 25 days") {
		t.Errorf("context block missing first source:\n%s", system)
	}

	if !strings.Contains(system, "[Source: Policy Doc]") {
		t.Errorf("context block missing second source:\n%s", system)
	}

	if !strings.Contains(system, "Always cite your sources using [Source: Title] format") {
		t.Errorf("default prompt missing:\n%s", system)
	}

	if provider.gotMessages[1].Content != "how many vacation days?" {
		t.Errorf("user message mangled: %q", provider.gotMessages[1].Content)
	}

	if provider.gotModelID != "fake-1" {
		t.Errorf("wrong model id %q", provider.gotModelID)
	}
}

func TestQueryEmptyWorkspace(t *testing.T) {
	provider := &capturingProvider{tokens: []string{"I don't know."}}
	engine := NewEngine(
		&fakeRetriever{},
		&fakeResolver{provider: provider, config: modelrouter.PresetConfig{}},
		&fakeTemplates{},
	)

	resp, err := engine.Query(context.Background(), "ws-1", "anything", "")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	if len(resp.Citations) != 0 {
		t.Errorf("expected empty citations, got %d", len(resp.Citations))
	}

	// the prompt still carries an (empty) context section
	system := provider.gotMessages[0].Content
	if !strings.HasSuffix(system, "\n\nContext:\n") {
		t.Errorf("expected empty context block, got:\n%s", system)
	}
}

func TestQueryTemplatePrompt(t *testing.T) {
	provider := &capturingProvider{}
	engine := NewEngine(
		&fakeRetriever{chunks: []retriever.RetrievedChunk{chunkWithDoc("fact", "Doc")}},
		&fakeResolver{provider: provider, config: modelrouter.PresetConfig{}},
		&fakeTemplates{template: &store.Template{ID: "tpl-1", Prompt: "Answer in French."}},
	)

	if _, err := engine.Query(context.Background(), "ws-1", "q", "tpl-1"); err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	system := provider.gotMessages[0].Content

	if !strings.HasPrefix(system, "Answer in French.") {
		t.Errorf("template prompt not used:\n%s", system)
	}

	if !strings.Contains(system, "[Source: Doc]") {
		t.Errorf("context block missing with template prompt:\n%s", system)
	}
}

func TestQueryPresetSystemPromptWins(t *testing.T) {
	provider := &capturingProvider{}
	engine := NewEngine(
		&fakeRetriever{chunks: []retriever.RetrievedChunk{chunkWithDoc("fact", "Doc")}},
		&fakeResolver{provider: provider, config: modelrouter.PresetConfig{
			SystemPrompt: "You are a pirate.",
		}},
		&fakeTemplates{template: &store.Template{ID: "tpl-1", Prompt: "Answer in French."}},
	)

	if _, err := engine.Query(context.Background(), "ws-1", "q", "tpl-1"); err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	system := provider.gotMessages[0].Content

	if !strings.HasPrefix(system, "You are a pirate.") {
		t.Errorf("preset override not applied:\n%s", system)
	}

	if !strings.Contains(system, "[Source: Doc]") {
		t.Errorf("context block lost under preset override:\n%s", system)
	}
}

func TestQueryMissingTemplateUsesDefault(t *testing.T) {
	provider := &capturingProvider{}
	engine := NewEngine(
		&fakeRetriever{},
		&fakeResolver{provider: provider, config: modelrouter.PresetConfig{}},
		&fakeTemplates{},
	)

	if _, err := engine.Query(context.Background(), "ws-1", "q", "missing"); err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	if !strings.Contains(provider.gotMessages[0].Content, "helpful assistant") {
		t.Error("default prompt not used for missing template")
	}
}

func TestQueryUnknownDocumentTitle(t *testing.T) {
	provider := &capturingProvider{}
	engine := NewEngine(
		&fakeRetriever{chunks: []retriever.RetrievedChunk{{Content: "orphan text", Score: 0.4}}},
		&fakeResolver{provider: provider, config: modelrouter.PresetConfig{}},
		&fakeTemplates{},
	)

	if _, err := engine.Query(context.Background(), "ws-1", "q", ""); err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	if !strings.Contains(provider.gotMessages[0].Content, "[Source: Unknown]\norphan text") {
		t.Error("orphaned chunk not attributed to Unknown")
	}
}

func TestQueryRetrievalFailure(t *testing.T) {
	engine := NewEngine(
		&fakeRetriever{err: errors.New("embedding down")},
		&fakeResolver{},
		&fakeTemplates{},
	)

	if _, err := engine.Query(context.Background(), "ws-1", "q", ""); err == nil {
		t.Fatal("expected retrieval error to propagate")
	}
}

func TestQueryRouterFailure(t *testing.T) {
	engine := NewEngine(
		&fakeRetriever{},
		&fakeResolver{err: apperrors.NewNotFound("workspace", "ws-1")},
		&fakeTemplates{},
	)

	_, err := engine.Query(context.Background(), "ws-1", "q", "")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
