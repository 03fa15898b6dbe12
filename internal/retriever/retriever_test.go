package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/inlock-ai/ragserver/internal/store"
	"github.com/inlock-ai/ragserver/internal/vectorstore"
)

type fakeSearcher struct {
	hits      []vectorstore.ScoredChunk
	gotLimit  int
	gotWSID   string
	searchErr error
}

func (f *fakeSearcher) SimilaritySearch(_ context.Context, _ []float32, limit int, workspaceID string) ([]vectorstore.ScoredChunk, error) {
	f.gotLimit = limit
	f.gotWSID = workspaceID

	return f.hits, f.searchErr
}

type fakeRefs struct {
	refs   []store.DocumentRef
	gotIDs []string
}

func (f *fakeRefs) GetDocumentRefs(_ context.Context, ids []string) ([]store.DocumentRef, error) {
	f.gotIDs = ids

	return f.refs, nil
}

type fakeQueryEmbedder struct {
	err error
}

func (f *fakeQueryEmbedder) EmbedText(_ context.Context, _ string, _ string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}

	return []float32{1, 0}, nil
}

func TestRetrieveEnrichesWithDocuments(t *testing.T) {
	search := &fakeSearcher{hits: []vectorstore.ScoredChunk{
		{ID: "c1", DocumentID: "d1", Content: "alpha", Score: 0.9},
		{ID: "c2", DocumentID: "d1", Content: "beta", Score: 0.8},
		{ID: "c3", DocumentID: "d2", Content: "gamma", Score: 0.7},
	}}
	refs := &fakeRefs{refs: []store.DocumentRef{
		{ID: "d1", Title: "Handbook", ExternalID: "handbook.txt"},
		{ID: "d2", Title: "Policies", ExternalID: "policies.txt"},
	}}

	r := New(search, refs, &fakeQueryEmbedder{})

	results, err := r.Retrieve(context.Background(), "ws-1", "vacation policy", 0)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if search.gotLimit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, search.gotLimit)
	}

	if search.gotWSID != "ws-1" {
		t.Errorf("search not scoped to workspace, got %q", search.gotWSID)
	}

	// document ids are deduplicated before the ref lookup
	if len(refs.gotIDs) != 2 {
		t.Errorf("expected 2 deduplicated ids, got %v", refs.gotIDs)
	}

	if results[0].Document == nil || results[0].Document.Title != "Handbook" {
		t.Errorf("first hit not enriched: %+v", results[0].Document)
	}

	if results[2].Document == nil || results[2].Document.Title != "Policies" {
		t.Errorf("third hit not enriched: %+v", results[2].Document)
	}
}

func TestRetrieveMissingParentLeavesNil(t *testing.T) {
	search := &fakeSearcher{hits: []vectorstore.ScoredChunk{
		{ID: "c1", DocumentID: "gone", Content: "orphan", Score: 0.5},
	}}

	r := New(search, &fakeRefs{}, &fakeQueryEmbedder{})

	results, err := r.Retrieve(context.Background(), "ws-1", "anything", 5)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}

	if results[0].Document != nil {
		t.Errorf("expected nil document for missing parent, got %+v", results[0].Document)
	}
}

func TestRetrieveEmptyCorpus(t *testing.T) {
	refs := &fakeRefs{}
	r := New(&fakeSearcher{}, refs, &fakeQueryEmbedder{})

	results, err := r.Retrieve(context.Background(), "ws-1", "anything", 5)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}

	if len(results) != 0 {
		t.Errorf("expected empty result, got %d", len(results))
	}

	if refs.gotIDs != nil {
		t.Error("no ref lookup expected for empty hit set")
	}
}

func TestRetrieveEmbedFailure(t *testing.T) {
	r := New(&fakeSearcher{}, &fakeRefs{}, &fakeQueryEmbedder{err: errors.New("no api key")})

	if _, err := r.Retrieve(context.Background(), "ws-1", "anything", 5); err == nil {
		t.Fatal("expected embed error to propagate")
	}
}
