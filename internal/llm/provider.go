package llm

import (
	"context"
	"encoding/json"
)

// Provider is the single capability the interview pipeline depends on for
// text generation. Callers never see a concrete SDK; interchangeable
// implementations (network-backed or the deterministic mock) satisfy it.
type Provider interface {
	// Generate sends a prompt to the LLM and returns its reply. When the
	// request carries a Schema, providers with native structured output
	// return validated JSON; consumers still apply tolerant extraction so
	// a schema-less reply degrades instead of failing.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System sets the LLM's role and constraints (the RU verifier and
	// interviewer prompts live in their consumer packages).
	System string

	// Messages is the conversation. Every call site in this project is
	// single-turn: one user message built from session state.
	Messages []Message

	// Schema, when set, asks the provider for JSON conforming to it via
	// its native structured-output mechanism.
	Schema *Schema

	// MaxTokens bounds the reply length.
	MaxTokens int

	// Temperature controls randomness, 0.0–1.0. Zero means deterministic.
	Temperature float64
}

// Message is a single conversation message.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema (tool name for Anthropic, schema name
	// for OpenAI-compatible APIs). Kebab-case, e.g. "answer-verdict".
	Name string

	// Description guides generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Content is the generated output. With a Schema it is the validated
	// JSON object; without one it is the raw text.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to: "end", "max_tokens", "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Text returns the response content as a plain string for consumers doing
// tolerant JSON extraction.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Content)
}
