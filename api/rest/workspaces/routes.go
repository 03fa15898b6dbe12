package workspaces

import (
	"github.com/gin-gonic/gin"

	"github.com/inlock-ai/ragserver/internal/connectors"
)

// registers workspace-scoped data source and ingestion routes
func RegisterRoutes(router *gin.RouterGroup, repo DataSourceStore, registry *connectors.Registry, pipeline Ingestor) {
	ws := router.Group("/workspaces/:id")

	{
		ws.POST("/data-sources", CreateDataSourceHandler(repo, registry))
		ws.GET("/data-sources", ListDataSourcesHandler(repo))
		ws.POST("/ingest", IngestHandler(pipeline))
	}
}
