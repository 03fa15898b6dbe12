package modelrouter

import (
	"context"

	"github.com/inlock-ai/ragserver/internal/llm"
	"github.com/inlock-ai/ragserver/internal/store"
)

// ModelSelection names a provider and one of its models.
type ModelSelection struct {
	ProviderID string `json:"providerId"`
	ModelID    string `json:"modelId"`
}

// PresetConfig is the stored model configuration shape, shared by
// template config and workspace modelConfig columns.
type PresetConfig struct {
	Model        ModelSelection `json:"model"`
	Parameters   *llm.Params    `json:"parameters,omitempty"`
	SystemPrompt string         `json:"systemPrompt,omitempty"`
}

// Resolved is the outcome of a routing decision: a concrete provider
// plus the configuration to drive it with. Availability of the provider
// (credentials present) is the caller's concern.
type Resolved struct {
	Provider llm.Provider
	Config   PresetConfig
}

// ConfigStore is the slice of the store the router reads from.
type ConfigStore interface {
	GetWorkspace(ctx context.Context, id string) (*store.Workspace, error)
	GetTemplate(ctx context.Context, id string) (*store.Template, error)
}
