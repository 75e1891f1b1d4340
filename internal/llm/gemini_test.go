package llm

import (
	"errors"
	"net/http"
	"testing"

	"google.golang.org/genai"
)

func TestGeminiSchema_VerdictShape(t *testing.T) {
	def := map[string]any{
		"type":        "object",
		"description": "Вердикт по ответу кандидата",
		"properties": map[string]any{
			"kind":       map[string]any{"type": "string", "enum": []any{"STRONG", "WEAK"}},
			"confidence": map[string]any{"type": "integer"},
		},
		"required": []any{"kind", "confidence"},
	}

	s := geminiSchema(def)
	if s.Type != genai.TypeObject {
		t.Errorf("type = %v, want object", s.Type)
	}
	if len(s.Required) != 2 || s.Required[0] != "kind" {
		t.Errorf("required = %v, want [kind confidence]", s.Required)
	}
	kind := s.Properties["kind"]
	if kind == nil || len(kind.Enum) != 2 || kind.Enum[0] != "STRONG" {
		t.Errorf("kind property not converted: %+v", kind)
	}
	if s.Properties["confidence"].Type != genai.TypeInteger {
		t.Error("confidence property lost its integer type")
	}
}

func TestGeminiSchema_ArrayItems(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
	}

	q := geminiSchema(def).Properties["questions"]
	if q.Type != genai.TypeArray || q.Items == nil || q.Items.Type != genai.TypeString {
		t.Errorf("array schema not converted: %+v", q)
	}
}

func TestGeminiRole(t *testing.T) {
	if got := geminiRole(RoleAssistant); got != "model" {
		t.Errorf("assistant role = %q, want model", got)
	}
	if got := geminiRole(RoleUser); got != "user" {
		t.Errorf("user role = %q, want user", got)
	}
}

func TestGeminiError_RateLimit(t *testing.T) {
	err := geminiError(&genai.APIError{Code: http.StatusTooManyRequests})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("got %T, want ErrRateLimit", err)
	}
}

func TestGeminiError_DefaultsToUnavailable(t *testing.T) {
	err := geminiError(errors.New("connection reset"))
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("got %T, want ErrProviderUnavailable", err)
	}
}

func TestGeminiStopReason(t *testing.T) {
	capped := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{FinishReason: "MAX_TOKENS"}},
	}
	if got := geminiStopReason(capped); got != "max_tokens" {
		t.Errorf("got %q, want max_tokens", got)
	}
	if got := geminiStopReason(&genai.GenerateContentResponse{}); got != "end" {
		t.Errorf("got %q, want end for empty candidates", got)
	}
}
