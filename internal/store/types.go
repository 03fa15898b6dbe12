package store

import (
	"encoding/json"
	"time"
)

// Workspace is the tenant boundary. ModelConfig is the optional default
// model configuration JSON consumed by the model router; its shape is
// validated there, not here.
type Workspace struct {
	ID          string
	Name        string
	ModelConfig json.RawMessage
	CreatedAt   time.Time
}

// DataSource describes one connected source of documents. Config is
// connector-specific and opaque to the store.
type DataSource struct {
	ID          string          `json:"id"`
	WorkspaceID string          `json:"workspaceId"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Config      json.RawMessage `json:"config"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Document is one ingested file. Identity for upserts is
// (workspace_id, data_source_id, external_id); re-ingestion overwrites
// content, last write wins.
type Document struct {
	ID           string
	WorkspaceID  string
	DataSourceID string
	ExternalID   string
	Title        string
	Content      string
	Metadata     map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DocumentRef is the slim projection used for citation display.
type DocumentRef struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	ExternalID string `json:"externalId,omitempty"`
}

// Template carries a stored system prompt and an optional model
// configuration override.
type Template struct {
	ID          string
	WorkspaceID string
	Name        string
	Type        string
	Prompt      string
	Config      json.RawMessage
}
