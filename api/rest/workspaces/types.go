package workspaces

import "encoding/json"

// CreateDataSourceRequest is the body for connecting a new source.
type CreateDataSourceRequest struct {
	Name   string          `json:"name" binding:"required"`
	Type   string          `json:"type" binding:"required"`
	Config json.RawMessage `json:"config" binding:"required"`
}

// IngestRequest triggers ingestion of one data source.
type IngestRequest struct {
	DataSourceID string `json:"dataSourceId" binding:"required"`
}

// IngestResponse reports how the batch went.
type IngestResponse struct {
	Message  string `json:"message"`
	Ingested int    `json:"ingested"`
	Failed   int    `json:"failed"`
}
