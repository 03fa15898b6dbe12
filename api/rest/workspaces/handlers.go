package workspaces

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inlock-ai/ragserver/internal/connectors"
	apperrors "github.com/inlock-ai/ragserver/internal/errors"
	"github.com/inlock-ai/ragserver/internal/ingestion"
	"github.com/inlock-ai/ragserver/internal/store"
)

// DataSourceStore is the slice of the store these handlers need.
type DataSourceStore interface {
	GetWorkspace(ctx context.Context, id string) (*store.Workspace, error)
	CreateDataSource(ctx context.Context, src *store.DataSource) error
	ListDataSources(ctx context.Context, workspaceID string) ([]store.DataSource, error)
}

// Ingestor runs a batch ingestion for one data source.
type Ingestor interface {
	IngestDataSource(ctx context.Context, workspaceID, dataSourceID string, limit int) (ingestion.Result, error)
}

// creates a data source after validating the connector type and its
// config against the registered connector
func CreateDataSourceHandler(repo DataSourceStore, registry *connectors.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		workspaceID := c.Param("id")

		var req CreateDataSourceRequest

		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.ValidationError(c, err)
			return
		}

		if _, err := repo.GetWorkspace(c.Request.Context(), workspaceID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				apperrors.NotFound(c, "workspace")
				return
			}

			apperrors.InternalError(c, "failed to load workspace", err)

			return
		}

		conn, ok := registry.Get(req.Type)
		if !ok {
			apperrors.BadRequest(c, "unsupported connector type", nil)
			return
		}

		if err := conn.ValidateConfig(req.Config); err != nil {
			apperrors.BadRequest(c, "invalid connector config", err)
			return
		}

		src := &store.DataSource{
			WorkspaceID: workspaceID,
			Name:        req.Name,
			Type:        req.Type,
			Config:      req.Config,
		}

		if err := repo.CreateDataSource(c.Request.Context(), src); err != nil {
			apperrors.InternalError(c, "failed to create data source", err)
			return
		}

		c.JSON(http.StatusCreated, src)
	}
}

// lists a workspace's data sources, newest first
func ListDataSourcesHandler(repo DataSourceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		workspaceID := c.Param("id")

		if _, err := repo.GetWorkspace(c.Request.Context(), workspaceID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				apperrors.NotFound(c, "workspace")
				return
			}

			apperrors.InternalError(c, "failed to load workspace", err)

			return
		}

		sources, err := repo.ListDataSources(c.Request.Context(), workspaceID)
		if err != nil {
			apperrors.InternalError(c, "failed to list data sources", err)
			return
		}

		if sources == nil {
			sources = []store.DataSource{}
		}

		c.JSON(http.StatusOK, sources)
	}
}

// synchronously ingests up to the configured cap of files from the
// data source's listing
func IngestHandler(pipeline Ingestor) gin.HandlerFunc {
	return func(c *gin.Context) {
		workspaceID := c.Param("id")

		var req IngestRequest

		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.ValidationError(c, err)
			return
		}

		result, err := pipeline.IngestDataSource(c.Request.Context(), workspaceID, req.DataSourceID, 0)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				apperrors.NotFound(c, "data source")
				return
			}

			apperrors.InternalError(c, "ingestion failed", err)

			return
		}

		c.JSON(http.StatusOK, IngestResponse{
			Message:  fmt.Sprintf("Ingested %d documents", result.Ingested),
			Ingested: result.Ingested,
			Failed:   result.Failed,
		})
	}
}
