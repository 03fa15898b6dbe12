package main

import (
	"fmt"

	"github.com/inlock-ai/ragserver/internal/config"
	"github.com/inlock-ai/ragserver/internal/connectors"
	"github.com/inlock-ai/ragserver/internal/ingestion"
	"github.com/inlock-ai/ragserver/internal/llm"
	"github.com/inlock-ai/ragserver/internal/logger"
	"github.com/inlock-ai/ragserver/internal/modelrouter"
	"github.com/inlock-ai/ragserver/internal/rag"
	"github.com/inlock-ai/ragserver/internal/retriever"
	"github.com/inlock-ai/ragserver/internal/store"
	"github.com/inlock-ai/ragserver/internal/vectorstore"
)

// builds the provider registry from configured credentials. Every
// provider is registered; ones without credentials report themselves
// unavailable instead of being absent.
func buildProviderRegistry(cfg *config.Config) *llm.Registry {
	registry := llm.NewRegistry(
		llm.NewGeminiProvider(cfg.GoogleAIKey),
		llm.NewOpenAIProvider(cfg.OpenAIKey),
		llm.NewAnthropicProvider(cfg.AnthropicKey),
		llm.NewHuggingFaceProvider(cfg.HuggingFaceKey),
		llm.NewOllamaProvider(cfg.OllamaHost),
	)

	for _, p := range registry.All() {
		logger.Info("provider registered", "id", p.ID(), "available", p.IsAvailable())
	}

	return registry
}

// creates and wires all core services
func InitializeServices(cfg *config.Config, db *store.Client, chunks *vectorstore.Store, registry *connectors.Registry) (*Services, error) {
	providers := buildProviderRegistry(cfg)

	// queries must embed in the same vector space the corpus was
	// indexed in, so both sides share one fixed embedding provider
	embedder, ok := providers.Get("gemini")
	if !ok {
		return nil, fmt.Errorf("embedding provider not registered")
	}

	pipeline := ingestion.NewPipeline(db, chunks, registry, embedder, ingestion.Config{
		ChunkSize:        cfg.ChunkSize,
		EmbedConcurrency: cfg.EmbedConcurrency,
		FileLimit:        cfg.IngestFileLimit,
	})

	ret := retriever.New(chunks, db, embedder)
	router := modelrouter.New(db, providers)
	engine := rag.NewEngine(ret, router, db)

	return &Services{
		Providers: providers,
		Pipeline:  pipeline,
		Retriever: ret,
		Router:    router,
		Engine:    engine,
	}, nil
}
