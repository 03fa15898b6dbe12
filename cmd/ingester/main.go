package main

import (
	"context"
	"os"

	"github.com/inlock-ai/ragserver/internal/config"
	"github.com/inlock-ai/ragserver/internal/connectors"
	"github.com/inlock-ai/ragserver/internal/ingestion"
	"github.com/inlock-ai/ragserver/internal/llm"
	"github.com/inlock-ai/ragserver/internal/logger"
	"github.com/inlock-ai/ragserver/internal/store"
	"github.com/inlock-ai/ragserver/internal/vectorstore"
)

// runs a one-off ingestion for a data source from the shell, using the
// same pipeline as the HTTP trigger:
//
//	ingester --workspace <id> --source <id> [--limit N]
func main() {
	flags, err := config.ParseIngesterFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if flags.WorkspaceID == "" || flags.DataSourceID == "" {
		logger.Fatal("both --workspace and --source are required")
	}

	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	ctx := context.Background()

	db, err := store.NewClient(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}

	defer db.Close()

	logger.Info("connected to database")

	embedder := llm.NewGeminiProvider(cfg.GoogleAIKey)
	if !embedder.IsAvailable() {
		logger.Fatal("GOOGLE_AI_API_KEY is required for embedding")
	}

	registry := connectors.NewRegistry(
		connectors.NewFilesystemConnector(),
	)

	pipeline := ingestion.NewPipeline(db, vectorstore.New(db.Pool()), registry, embedder, ingestion.Config{
		ChunkSize:        cfg.ChunkSize,
		EmbedConcurrency: cfg.EmbedConcurrency,
		FileLimit:        cfg.IngestFileLimit,
	})

	result, err := pipeline.IngestDataSource(ctx, flags.WorkspaceID, flags.DataSourceID, flags.Limit)
	if err != nil {
		logger.Fatal("ingestion failed", "error", err)
	}

	logger.Info("done", "ingested", result.Ingested, "failed", result.Failed)

	if result.Failed > 0 {
		os.Exit(1)
	}
}
