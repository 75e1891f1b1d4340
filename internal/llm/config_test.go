package llm

import "testing"

func TestValidate_MockNeedsNoKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"
	if err := cfg.Validate(); err != nil {
		t.Errorf("mock provider should validate without a key: %v", err)
	}
}

func TestValidate_MistralRequiresKey(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing mistral API key")
	}
	cfg.Mistral.APIKey = "key"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got: %v", err)
	}
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "watson"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("INTERVU_LLM_PROVIDER", "openai")
	t.Setenv("INTERVU_OPENAI_API_KEY", "sk-test")
	t.Setenv("INTERVU_OPENAI_MODEL", "gpt-4o")

	cfg := ConfigFromEnv()
	if cfg.Provider != "openai" {
		t.Errorf("provider = %q, want openai", cfg.Provider)
	}
	if cfg.OpenAI.APIKey != "sk-test" || cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("openai config not taken from env: %+v", cfg.OpenAI)
	}
}

func TestDiscoverConfig_MistralFirst(t *testing.T) {
	t.Setenv("MISTRAL_API_KEY", "m-key")
	t.Setenv("OPENAI_API_KEY", "o-key")

	cfg, ok := DiscoverConfig()
	if !ok {
		t.Fatal("expected discovery to succeed")
	}
	if cfg.Provider != "mistral" {
		t.Errorf("provider = %q, want mistral (highest priority)", cfg.Provider)
	}
}
