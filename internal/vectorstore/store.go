package vectorstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inlock-ai/ragserver/internal/logger"
)

// Store persists document chunks with their embeddings and answers
// workspace-scoped similarity queries. Search is brute force: every
// chunk of the workspace is loaded and scored in process. Correct, but
// only viable below a modest chunk count; an ANN index would replace
// this loop before that ceiling is reached.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// inserts all chunks in a single transaction via one batch round-trip
func (s *Store) AddChunks(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// no-op if commit succeeds
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Warn("failed to rollback transaction", "error", err)
		}
	}()

	batch := &pgx.Batch{}

	for _, chunk := range chunks {
		id := chunk.ID
		if id == "" {
			id = uuid.NewString()
		}

		batch.Queue(insertChunkQuery,
			id,
			chunk.DocumentID,
			chunk.Content,
			encodeVector(chunk.Embedding),
			chunk.Index,
			chunk.Metadata,
		)
	}

	br := tx.SendBatch(ctx, batch)

	for i := 0; i < len(chunks); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close() //nolint:errcheck,gosec // error path cleanup
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}

	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// removes every chunk belonging to the document
func (s *Store) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := s.pool.Exec(ctx, deleteChunksByDocumentQuery, documentID)
	if err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}

	return nil
}

// loads every chunk of the workspace, scores them against the query
// embedding, and returns the top hits sorted by descending similarity.
// An empty corpus yields an empty result, never an error.
func (s *Store) SimilaritySearch(ctx context.Context, queryEmbedding []float32, limit int, workspaceID string) ([]ScoredChunk, error) {
	rows, err := s.pool.Query(ctx, loadWorkspaceChunksQuery, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace chunks: %w", err)
	}

	defer rows.Close()

	var stored []storedChunk

	for rows.Next() {
		var row storedChunk

		if err := rows.Scan(&row.id, &row.documentID, &row.content, &row.embedding, &row.metadata); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}

		stored = append(stored, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chunks: %w", err)
	}

	return scoreAndRank(queryEmbedding, stored, limit), nil
}

// returns the number of chunks indexed for the workspace
func (s *Store) CountWorkspaceChunks(ctx context.Context, workspaceID string) (int, error) {
	var count int

	if err := s.pool.QueryRow(ctx, countWorkspaceChunksQuery, workspaceID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}

	return count, nil
}
