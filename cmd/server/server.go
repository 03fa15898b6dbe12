package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/inlock-ai/ragserver/internal/config"
	"github.com/inlock-ai/ragserver/internal/connectors"
	"github.com/inlock-ai/ragserver/internal/store"
	"github.com/inlock-ai/ragserver/internal/vectorstore"
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	db, err := store.NewClient(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	chunks := vectorstore.New(db.Pool())

	registry := connectors.NewRegistry(
		connectors.NewFilesystemConnector(),
	)

	services, err := InitializeServices(cfg, db, chunks, registry)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	server := &Server{
		db:         db,
		config:     cfg,
		chunks:     chunks,
		connectors: registry,
		services:   services,
		router:     router,
	}

	RegisterRoutes(router, server)

	return server, nil
}
