package main

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/inlock-ai/ragserver/api/rest/health"
	"github.com/inlock-ai/ragserver/api/rest/providers"
	"github.com/inlock-ai/ragserver/api/rest/query"
	"github.com/inlock-ai/ragserver/api/rest/workspaces"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, server *Server) {
	router.Use(CORSMiddleware())
	router.GET("/health", health.Handler)

	v1 := router.Group("/api/v1")

	{
		v1.GET("/ping", health.PingHandler)

		query.RegisterRoutes(v1, server.services.Engine)
		workspaces.RegisterRoutes(v1, server.db, server.connectors, server.services.Pipeline)
		providers.RegisterRoutes(v1, server.services.Providers)
	}
}

// allows browser clients from the configured origins; defaults to any
// origin for local development
func CORSMiddleware() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowOrigins = strings.Split(origins, ",")
	} else {
		cfg.AllowAllOrigins = true
	}

	return cors.New(cfg)
}
