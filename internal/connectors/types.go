package connectors

import (
	"context"
	"encoding/json"
	"time"
)

// entry kinds reported by ListFiles
const (
	EntryFile   = "file"
	EntryFolder = "folder"
)

// FileObject is the uniform description of an entry in a data source.
// ID is the connector-native identifier and is the only thing
// GetFileContent needs to fetch the entry back.
type FileObject struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Type      string    `json:"type"` // "file" | "folder"
	MimeType  string    `json:"mimeType,omitempty"`
	Size      int64     `json:"size,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Connector adapts one kind of external data source into a uniform
// listing/reading interface. Config is the opaque per-data-source
// configuration stored alongside the DataSource record.
type Connector interface {
	Type() string
	ValidateConfig(config json.RawMessage) error
	ListFiles(ctx context.Context, config json.RawMessage, subPath string) ([]FileObject, error)
	GetFileContent(ctx context.Context, config json.RawMessage, fileID string) ([]byte, error)
}
