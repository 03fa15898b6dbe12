package rag

import (
	"context"

	"github.com/inlock-ai/ragserver/internal/llm"
	"github.com/inlock-ai/ragserver/internal/modelrouter"
	"github.com/inlock-ai/ragserver/internal/retriever"
	"github.com/inlock-ai/ragserver/internal/store"
)

// Response is the outcome of one query: a live token stream and the
// citations backing it. Citations are computed once, before the first
// token, and never change while streaming.
type Response struct {
	Stream    <-chan llm.StreamEvent
	Citations []retriever.RetrievedChunk
}

// ContextRetriever fetches the chunks a query should be grounded on.
type ContextRetriever interface {
	Retrieve(ctx context.Context, workspaceID, query string, limit int) ([]retriever.RetrievedChunk, error)
}

// ModelResolver picks the provider and model config for a workspace.
type ModelResolver interface {
	Resolve(ctx context.Context, workspaceID, templateID string) (modelrouter.Resolved, error)
}

// TemplateStore loads stored prompts.
type TemplateStore interface {
	GetTemplate(ctx context.Context, id string) (*store.Template, error)
}
