package modelrouter

import (
	"context"
	"encoding/json"
	"errors"

	apperrors "github.com/inlock-ai/ragserver/internal/errors"
	"github.com/inlock-ai/ragserver/internal/llm"
	"github.com/inlock-ai/ragserver/internal/logger"
)

const (
	fallbackProviderID = "gemini"
	fallbackModelID    = "gemini-pro"
)

// DefaultPreset is the system-wide model configuration used when
// neither the template nor the workspace specifies one.
func DefaultPreset() PresetConfig {
	temp := float32(0.7)

	return PresetConfig{
		Model:      ModelSelection{ProviderID: fallbackProviderID, ModelID: fallbackModelID},
		Parameters: &llm.Params{Temperature: &temp},
	}
}

// Router picks the provider and model configuration for a query.
// Resolution order: template config, workspace modelConfig, system
// default. Malformed stored configs fall through silently; only a
// missing workspace is an error.
type Router struct {
	store     ConfigStore
	providers *llm.Registry
}

func New(store ConfigStore, providers *llm.Registry) *Router {
	return &Router{store: store, providers: providers}
}

// Resolve returns the provider and config for the workspace, honoring
// the template override when one is given. An unregistered provider id
// logs a warning and falls back to Gemini instead of failing the query.
func (r *Router) Resolve(ctx context.Context, workspaceID, templateID string) (Resolved, error) {
	workspace, err := r.store.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return Resolved{}, err
	}

	var config *PresetConfig

	if templateID != "" {
		config = r.templateConfig(ctx, templateID)
	}

	if config == nil && workspace.ModelConfig != nil {
		config = parseWorkspaceConfig(workspace.ModelConfig)
	}

	if config == nil {
		preset := DefaultPreset()
		config = &preset
	}

	provider, ok := r.providers.Get(config.Model.ProviderID)
	if !ok {
		logger.Warn("provider not registered, falling back",
			"providerId", config.Model.ProviderID, "fallback", fallbackProviderID)

		fallback, ok := r.providers.Get(fallbackProviderID)
		if !ok {
			return Resolved{}, apperrors.NewNotFound("provider", fallbackProviderID)
		}

		config.Model = ModelSelection{ProviderID: fallbackProviderID, ModelID: fallbackModelID}

		return Resolved{Provider: fallback, Config: *config}, nil
	}

	return Resolved{Provider: provider, Config: *config}, nil
}

// fetches and validates the template's stored config; anything missing
// or malformed falls through to the workspace default
func (r *Router) templateConfig(ctx context.Context, templateID string) *PresetConfig {
	template, err := r.store.GetTemplate(ctx, templateID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("failed to load template config", "templateId", templateID, "error", err)
		}

		return nil
	}

	if template.Config == nil {
		return nil
	}

	return parsePreset(template.Config)
}

// accepts only configs carrying a model key; the preset shape
func parsePreset(raw json.RawMessage) *PresetConfig {
	var probe struct {
		Model *ModelSelection `json:"model"`
	}

	if err := json.Unmarshal(raw, &probe); err != nil || probe.Model == nil {
		return nil
	}

	var config PresetConfig
	if err := json.Unmarshal(raw, &config); err != nil {
		return nil
	}

	return &config
}

// handles both the current preset shape and the legacy flat
// {providerId, modelId} shape kept for rows written before presets
func parseWorkspaceConfig(raw json.RawMessage) *PresetConfig {
	if config := parsePreset(raw); config != nil {
		return config
	}

	var legacy struct {
		ProviderID string `json:"providerId"`
		ModelID    string `json:"modelId"`
	}

	if err := json.Unmarshal(raw, &legacy); err != nil || legacy.ProviderID == "" {
		return nil
	}

	return &PresetConfig{
		Model:      ModelSelection{ProviderID: legacy.ProviderID, ModelID: legacy.ModelID},
		Parameters: DefaultPreset().Parameters,
	}
}
