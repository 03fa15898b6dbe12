package retriever

import (
	"context"
	"fmt"

	"github.com/inlock-ai/ragserver/internal/llm"
	"github.com/inlock-ai/ragserver/internal/store"
	"github.com/inlock-ai/ragserver/internal/vectorstore"
)

// Retriever embeds a query with the default embedding provider, runs a
// similarity search, and enriches the hits with their parent documents.
// Queries always embed with the same provider that indexed the corpus;
// mixing embedding spaces would make the similarity scores meaningless.
type Retriever struct {
	search   Searcher
	docs     RefStore
	embedder llm.Embedder
}

func New(search Searcher, docs RefStore, embedder llm.Embedder) *Retriever {
	return &Retriever{search: search, docs: docs, embedder: embedder}
}

// Retrieve returns the chunks most similar to the query, at most limit
// of them. A non-positive limit falls back to DefaultLimit. An empty
// corpus yields an empty slice, not an error.
func (r *Retriever) Retrieve(ctx context.Context, workspaceID, query string, limit int) ([]RetrievedChunk, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	embedding, err := r.embedder.EmbedText(ctx, query, "")
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	hits, err := r.search.SimilaritySearch(ctx, embedding, limit, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}

	if len(hits) == 0 {
		return []RetrievedChunk{}, nil
	}

	refs, err := r.resolveRefs(ctx, hits)
	if err != nil {
		return nil, err
	}

	results := make([]RetrievedChunk, len(hits))

	for i, hit := range hits {
		chunk := RetrievedChunk{
			ID:         hit.ID,
			DocumentID: hit.DocumentID,
			Content:    hit.Content,
			Score:      hit.Score,
			Metadata:   hit.Metadata,
		}

		if ref, ok := refs[hit.DocumentID]; ok {
			chunk.Document = &ref
		}

		results[i] = chunk
	}

	return results, nil
}

// fetches the parent documents for a set of hits, deduplicating ids
func (r *Retriever) resolveRefs(ctx context.Context, hits []vectorstore.ScoredChunk) (map[string]store.DocumentRef, error) {
	seen := make(map[string]struct{}, len(hits))
	ids := make([]string, 0, len(hits))

	for _, hit := range hits {
		if _, dup := seen[hit.DocumentID]; dup {
			continue
		}

		seen[hit.DocumentID] = struct{}{}
		ids = append(ids, hit.DocumentID)
	}

	refs, err := r.docs.GetDocumentRefs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve documents: %w", err)
	}

	byID := make(map[string]store.DocumentRef, len(refs))
	for _, ref := range refs {
		byID[ref.ID] = ref
	}

	return byID, nil
}
