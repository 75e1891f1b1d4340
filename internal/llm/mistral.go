package llm

import (
	"context"
	"fmt"
)

const defaultMistralBaseURL = "https://api.mistral.ai/v1"

// MistralProvider targets the Mistral API. Mistral is OpenAI-compatible, so
// the underlying SDK is reused.
type MistralProvider struct {
	*OpenAIProvider
}

// NewMistralProvider creates a provider targeting the Mistral API.
func NewMistralProvider(cfg MistralConfig) (*MistralProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("mistral API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultMistralBaseURL
	}

	inner, err := NewOpenAIProvider(OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: baseURL,
	})
	if err != nil {
		return nil, err
	}

	return &MistralProvider{OpenAIProvider: inner}, nil
}

// Generate strips the request schema before delegating: Mistral rejects
// OpenAI's json_schema response format, and every consumer in this project
// applies tolerant JSON extraction anyway.
func (p *MistralProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	req.Schema = nil
	return p.OpenAIProvider.Generate(ctx, req)
}
