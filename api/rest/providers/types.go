package providers

import "github.com/inlock-ai/ragserver/internal/llm"

// Info describes one provider and whether it is usable right now.
type Info struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Models    []llm.Model `json:"models"`
	Available bool        `json:"available"`
}

// Response wraps the provider listing.
type Response struct {
	Providers []Info `json:"providers"`
}
