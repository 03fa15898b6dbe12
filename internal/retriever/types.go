package retriever

import (
	"context"

	"github.com/inlock-ai/ragserver/internal/store"
	"github.com/inlock-ai/ragserver/internal/vectorstore"
)

// DefaultLimit is the number of chunks retrieved when the caller does
// not ask for a specific count.
const DefaultLimit = 5

// RetrievedChunk is a search hit enriched with its parent document for
// citation display. Document is nil when the parent row has vanished
// between indexing and retrieval.
type RetrievedChunk struct {
	ID         string             `json:"id"`
	DocumentID string             `json:"documentId"`
	Content    string             `json:"content"`
	Score      float64            `json:"score"`
	Metadata   map[string]any     `json:"metadata,omitempty"`
	Document   *store.DocumentRef `json:"document,omitempty"`
}

// Searcher answers workspace-scoped similarity queries.
type Searcher interface {
	SimilaritySearch(ctx context.Context, queryEmbedding []float32, limit int, workspaceID string) ([]vectorstore.ScoredChunk, error)
}

// RefStore resolves document ids to their citation projections.
type RefStore interface {
	GetDocumentRefs(ctx context.Context, ids []string) ([]store.DocumentRef, error)
}
