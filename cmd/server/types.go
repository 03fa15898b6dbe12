package main

import (
	"github.com/gin-gonic/gin"

	"github.com/inlock-ai/ragserver/internal/config"
	"github.com/inlock-ai/ragserver/internal/connectors"
	"github.com/inlock-ai/ragserver/internal/ingestion"
	"github.com/inlock-ai/ragserver/internal/llm"
	"github.com/inlock-ai/ragserver/internal/modelrouter"
	"github.com/inlock-ai/ragserver/internal/rag"
	"github.com/inlock-ai/ragserver/internal/retriever"
	"github.com/inlock-ai/ragserver/internal/store"
	"github.com/inlock-ai/ragserver/internal/vectorstore"
)

// holds all dependencies and state for the API server
type Server struct {
	db         *store.Client
	config     *config.Config
	chunks     *vectorstore.Store
	connectors *connectors.Registry
	services   *Services
	router     *gin.Engine
}

// holds the wired core services
type Services struct {
	Providers *llm.Registry
	Pipeline  *ingestion.Pipeline
	Retriever *retriever.Retriever
	Router    *modelrouter.Router
	Engine    *rag.Engine
}
