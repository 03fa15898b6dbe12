package ingestion

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/inlock-ai/ragserver/internal/chunker"
	"github.com/inlock-ai/ragserver/internal/connectors"
	apperrors "github.com/inlock-ai/ragserver/internal/errors"
	"github.com/inlock-ai/ragserver/internal/extractor"
	"github.com/inlock-ai/ragserver/internal/llm"
	"github.com/inlock-ai/ragserver/internal/logger"
	"github.com/inlock-ai/ragserver/internal/store"
	"github.com/inlock-ai/ragserver/internal/vectorstore"
)

const (
	defaultEmbedConcurrency = 4
	defaultFileLimit        = 5
)

// Pipeline turns files from a data source into embedded, searchable
// chunks: fetch, extract, upsert the document, split, embed, persist.
type Pipeline struct {
	docs       DocumentStore
	chunks     ChunkStore
	connectors *connectors.Registry
	embedder   llm.Embedder

	chunkSize        int
	embedConcurrency int
	fileLimit        int
}

func NewPipeline(docs DocumentStore, chunks ChunkStore, registry *connectors.Registry, embedder llm.Embedder, cfg Config) *Pipeline {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = chunker.DefaultSize
	}

	if cfg.EmbedConcurrency <= 0 {
		cfg.EmbedConcurrency = defaultEmbedConcurrency
	}

	if cfg.FileLimit <= 0 {
		cfg.FileLimit = defaultFileLimit
	}

	return &Pipeline{
		docs:             docs,
		chunks:           chunks,
		connectors:       registry,
		embedder:         embedder,
		chunkSize:        cfg.ChunkSize,
		embedConcurrency: cfg.EmbedConcurrency,
		fileLimit:        cfg.FileLimit,
	}
}

// IngestDocument ingests a single file from the given data source.
// Unsupported file types are skipped without touching the store. An
// embedding failure aborts the file after the document row was already
// updated and its old chunks cleared; a re-ingest repairs the gap.
func (p *Pipeline) IngestDocument(ctx context.Context, workspaceID, dataSourceID string, file connectors.FileObject) error {
	source, conn, err := p.resolveSource(ctx, workspaceID, dataSourceID)
	if err != nil {
		return err
	}

	return p.ingestFile(ctx, source, conn, file)
}

// IngestDataSource lists the data source and ingests its files one by
// one, up to the configured cap. A failing file is logged and counted,
// never fatal to the batch.
func (p *Pipeline) IngestDataSource(ctx context.Context, workspaceID, dataSourceID string, limit int) (Result, error) {
	source, conn, err := p.resolveSource(ctx, workspaceID, dataSourceID)
	if err != nil {
		return Result{}, err
	}

	files, err := conn.ListFiles(ctx, source.Config, "")
	if err != nil {
		return Result{}, fmt.Errorf("failed to list files: %w", err)
	}

	if limit <= 0 {
		limit = p.fileLimit
	}

	var result Result

	for _, file := range files {
		if file.Type != connectors.EntryFile {
			continue
		}

		if result.Ingested+result.Failed >= limit {
			logger.Info("file cap reached, stopping batch",
				"dataSourceId", dataSourceID, "limit", limit)
			break
		}

		if err := p.ingestFile(ctx, source, conn, file); err != nil {
			logger.ErrorErr(err, "failed to ingest file",
				"dataSourceId", dataSourceID, "fileId", file.ID)
			result.Failed++

			continue
		}

		result.Ingested++
	}

	logger.Info("ingestion batch complete",
		"dataSourceId", dataSourceID,
		"ingested", result.Ingested,
		"failed", result.Failed)

	return result, nil
}

func (p *Pipeline) resolveSource(ctx context.Context, workspaceID, dataSourceID string) (*store.DataSource, connectors.Connector, error) {
	source, err := p.docs.GetDataSource(ctx, dataSourceID)
	if err != nil {
		return nil, nil, err
	}

	if source.WorkspaceID != workspaceID {
		return nil, nil, apperrors.NewNotFound("data source", dataSourceID)
	}

	conn, ok := p.connectors.Get(source.Type)
	if !ok {
		return nil, nil, apperrors.NewNotFound("connector", source.Type)
	}

	return source, conn, nil
}

func (p *Pipeline) ingestFile(ctx context.Context, source *store.DataSource, conn connectors.Connector, file connectors.FileObject) error {
	data, err := conn.GetFileContent(ctx, source.Config, file.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch file content: %w", err)
	}

	// connectors may not know a file's type; assume plain text
	mimeType := file.MimeType
	if mimeType == "" {
		mimeType = "text/plain"
	}

	text := extractor.Extract(data, mimeType)
	if text == "" {
		logger.Info("no extractable text, skipping file",
			"fileId", file.ID, "mimeType", mimeType)

		return nil
	}

	metadata := map[string]any{
		"fileName": file.Name,
		"path":     file.Path,
		"mimeType": mimeType,
	}

	doc, err := p.upsertDocument(ctx, source, file, text, metadata)
	if err != nil {
		return err
	}

	parts := chunker.Split(text, p.chunkSize)

	embedded, err := p.embedChunks(ctx, doc.ID, parts, metadata)
	if err != nil {
		return err
	}

	if err := p.chunks.AddChunks(ctx, embedded); err != nil {
		return fmt.Errorf("failed to persist chunks: %w", err)
	}

	logger.Info("file ingested",
		"documentId", doc.ID, "fileId", file.ID, "chunks", len(embedded))

	return nil
}

// creates or overwrites the document row and clears stale chunks so a
// re-ingested file replaces its old index entries
func (p *Pipeline) upsertDocument(ctx context.Context, source *store.DataSource, file connectors.FileObject, text string, metadata map[string]any) (*store.Document, error) {
	existing, err := p.docs.FindDocument(ctx, source.WorkspaceID, source.ID, file.ID)

	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		if err := p.docs.UpdateDocumentContent(ctx, existing.ID, text, metadata); err != nil {
			return nil, err
		}

		if err := p.chunks.DeleteByDocument(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to clear old chunks: %w", err)
		}

		existing.Content = text
		existing.Metadata = metadata

		return existing, nil
	}

	doc := &store.Document{
		WorkspaceID:  source.WorkspaceID,
		DataSourceID: source.ID,
		ExternalID:   file.ID,
		Title:        file.Name,
		Content:      text,
		Metadata:     metadata,
	}

	if err := p.docs.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// embeds every chunk with a bounded fan-out and returns them in
// document order. Any single failure cancels the group and aborts the
// file; there are no retries.
func (p *Pipeline) embedChunks(ctx context.Context, documentID string, parts []string, metadata map[string]any) ([]vectorstore.Chunk, error) {
	embeddings := make([][]float32, len(parts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.embedConcurrency)

	for i, part := range parts {
		i, part := i, part
		g.Go(func() error {
			vec, err := p.embedder.EmbedText(gctx, part, "")
			if err != nil {
				return fmt.Errorf("failed to embed chunk %d: %w", i, err)
			}

			embeddings[i] = vec

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	chunks := make([]vectorstore.Chunk, len(parts))

	for i, part := range parts {
		chunks[i] = vectorstore.Chunk{
			DocumentID: documentID,
			Content:    part,
			Embedding:  embeddings[i],
			Index:      i,
			Metadata:   metadata,
		}
	}

	return chunks, nil
}
