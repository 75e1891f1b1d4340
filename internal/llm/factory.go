package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/intervu/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with retry and
// (when eventRepo is non-nil) event logging middleware.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "mistral":
		base, err = NewMistralProvider(cfg.Mistral)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → retry → logging → base.
	wrapped := base
	if eventRepo != nil {
		wrapped = WithLogging(wrapped, eventRepo)
	}
	wrapped = WithRetry(wrapped, cfg.Retry)

	return wrapped, nil
}

// ResolveConfigFromEnv returns the effective configuration: INTERVU_*
// variables when they validate, otherwise the first provider whose standard
// API key variable is set.
func ResolveConfigFromEnv() (Config, error) {
	cfg := ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		discovered, ok := DiscoverConfig()
		if !ok {
			return Config{}, err
		}
		cfg = discovered
	}
	return cfg, nil
}

// NewProviderFromEnv builds a Provider from INTERVU_* environment variables,
// falling back to probing standard API key variables.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo) (Provider, error) {
	cfg, err := ResolveConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return NewProvider(ctx, cfg, eventRepo)
}
