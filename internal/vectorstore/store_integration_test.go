package vectorstore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// integration tests against a real database. Set TEST_DATABASE_URL to a
// database with scripts/schema.sql applied to run them; they skip
// otherwise.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)

	t.Cleanup(pool.Close)

	return pool
}

// seeds a workspace with one data source and one document, cleaned up
// via cascade when the workspace row is deleted
func seedDocument(t *testing.T, pool *pgxpool.Pool, name string) (workspaceID, documentID string) {
	t.Helper()

	ctx := context.Background()
	workspaceID = uuid.NewString()
	sourceID := uuid.NewString()
	documentID = uuid.NewString()

	_, err := pool.Exec(ctx,
		`INSERT INTO workspaces (id, name) VALUES ($1, $2)`,
		workspaceID, name)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(),
			`DELETE FROM workspaces WHERE id = $1`, workspaceID)
	})

	_, err = pool.Exec(ctx,
		`INSERT INTO data_sources (id, workspace_id, name, type, config)
		 VALUES ($1, $2, $3, 'filesystem', '{}'::jsonb)`,
		sourceID, workspaceID, name)
	require.NoError(t, err)

	_, err = pool.Exec(ctx,
		`INSERT INTO documents (id, workspace_id, data_source_id, external_id, title, content)
		 VALUES ($1, $2, $3, $4, $5, '')`,
		documentID, workspaceID, sourceID, name, name)
	require.NoError(t, err)

	return workspaceID, documentID
}

func TestSimilaritySearchScopedToWorkspace(t *testing.T) {
	pool := testPool(t)
	store := New(pool)
	ctx := context.Background()

	wsA, docA := seedDocument(t, pool, "tenant-a")
	wsB, docB := seedDocument(t, pool, "tenant-b")

	require.NoError(t, store.AddChunks(ctx, []Chunk{
		{DocumentID: docA, Content: "alpha", Embedding: []float32{1, 0}, Index: 0},
		{DocumentID: docA, Content: "beta", Embedding: []float32{0, 1}, Index: 1},
	}))

	// an identical embedding in another workspace must never leak in
	require.NoError(t, store.AddChunks(ctx, []Chunk{
		{DocumentID: docB, Content: "gamma", Embedding: []float32{1, 0}, Index: 0},
	}))

	query := []float32{1, 0}

	hits, err := store.SimilaritySearch(ctx, query, 10, wsA)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	for _, hit := range hits {
		assert.Equal(t, docA, hit.DocumentID)
	}

	hits, err = store.SimilaritySearch(ctx, query, 10, wsB)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "gamma", hits[0].Content)

	count, err := store.CountWorkspaceChunks(ctx, wsA)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestDeleteByDocumentIntegration(t *testing.T) {
	pool := testPool(t)
	store := New(pool)
	ctx := context.Background()

	ws, doc := seedDocument(t, pool, "tenant-c")

	require.NoError(t, store.AddChunks(ctx, []Chunk{
		{DocumentID: doc, Content: "stale", Embedding: []float32{1, 1}, Index: 0},
	}))

	require.NoError(t, store.DeleteByDocument(ctx, doc))

	count, err := store.CountWorkspaceChunks(ctx, ws)
	require.NoError(t, err)
	assert.Zero(t, count)
}
