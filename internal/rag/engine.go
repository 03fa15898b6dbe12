package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/inlock-ai/ragserver/internal/errors"
	"github.com/inlock-ai/ragserver/internal/llm"
	"github.com/inlock-ai/ragserver/internal/logger"
	"github.com/inlock-ai/ragserver/internal/retriever"
)

const defaultSystemPrompt = `You are a helpful assistant for a professional services firm.
Use the following context to answer the user's question.
If the answer is not in the context, say you don't know.
Always cite your sources using [Source: Title] format if possible.`

// Engine answers a question over a workspace's ingested documents:
// retrieve context, build the prompt, resolve the model, stream.
// Retrieval fully completes before the first token is requested; there
// is no overlap between the two phases.
type Engine struct {
	retriever ContextRetriever
	router    ModelResolver
	templates TemplateStore
}

func NewEngine(retriever ContextRetriever, router ModelResolver, templates TemplateStore) *Engine {
	return &Engine{retriever: retriever, router: router, templates: templates}
}

// Query retrieves context for the question, assembles the system
// prompt, and starts a completion stream with the resolved model. The
// returned citations are the retrieved chunks in ranked order; an empty
// workspace yields empty citations, not an error.
func (e *Engine) Query(ctx context.Context, workspaceID, query, templateID string) (*Response, error) {
	chunks, err := e.retriever.Retrieve(ctx, workspaceID, query, retriever.DefaultLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve context: %w", err)
	}

	systemPrompt := defaultSystemPrompt

	if templateID != "" {
		if prompt, ok := e.templatePrompt(ctx, templateID); ok {
			systemPrompt = prompt
		}
	}

	contextBlock := buildContextBlock(chunks)

	resolved, err := e.router.Resolve(ctx, workspaceID, templateID)
	if err != nil {
		return nil, err
	}

	// a preset-level system prompt wins over both the default and the
	// template prompt; the context block rides along either way
	if resolved.Config.SystemPrompt != "" {
		systemPrompt = resolved.Config.SystemPrompt
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt + "\n\nContext:\n" + contextBlock},
		{Role: llm.RoleUser, Content: query},
	}

	stream, err := resolved.Provider.Stream(ctx, messages, resolved.Config.Model.ModelID, resolved.Config.Parameters)
	if err != nil {
		return nil, fmt.Errorf("failed to start completion stream: %w", err)
	}

	return &Response{Stream: stream, Citations: chunks}, nil
}

// loads the template's prompt; a missing template degrades to the
// default prompt instead of failing the query
func (e *Engine) templatePrompt(ctx context.Context, templateID string) (string, bool) {
	template, err := e.templates.GetTemplate(ctx, templateID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("template not found, using default prompt", "templateId", templateID)
		} else {
			logger.ErrorErr(err, "failed to load template, using default prompt", "templateId", templateID)
		}

		return "", false
	}

	return template.Prompt, true
}

// formats retrieved chunks under [Source: Title] headers; chunks whose
// parent document has vanished are attributed to "Unknown"
func buildContextBlock(chunks []retriever.RetrievedChunk) string {
	parts := make([]string, len(chunks))

	for i, chunk := range chunks {
		title := "Unknown"
		if chunk.Document != nil && chunk.Document.Title != "" {
			title = chunk.Document.Title
		}

		parts[i] = fmt.Sprintf("[Source: %s]\n%s", title, chunk.Content)
	}

	return strings.Join(parts, "\n\n")
}
