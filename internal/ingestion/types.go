package ingestion

import (
	"context"

	"github.com/inlock-ai/ragserver/internal/store"
	"github.com/inlock-ai/ragserver/internal/vectorstore"
)

// DocumentStore is the slice of the store the pipeline needs.
type DocumentStore interface {
	GetDataSource(ctx context.Context, id string) (*store.DataSource, error)
	FindDocument(ctx context.Context, workspaceID, dataSourceID, externalID string) (*store.Document, error)
	CreateDocument(ctx context.Context, doc *store.Document) error
	UpdateDocumentContent(ctx context.Context, id, content string, metadata map[string]any) error
}

// ChunkStore persists and clears the chunks derived from a document.
type ChunkStore interface {
	AddChunks(ctx context.Context, chunks []vectorstore.Chunk) error
	DeleteByDocument(ctx context.Context, documentID string) error
}

// Result summarizes one batch ingestion run.
type Result struct {
	Ingested int `json:"ingested"`
	Failed   int `json:"failed"`
}

// Config tunes the pipeline. Zero values fall back to defaults.
type Config struct {
	ChunkSize        int
	EmbedConcurrency int
	FileLimit        int
}
