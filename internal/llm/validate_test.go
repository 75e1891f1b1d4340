package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func verdictSchema() *Schema {
	return &Schema{
		Name:        "test-verdict",
		Description: "A test verdict object",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"kind":       map[string]any{"type": "string", "enum": []any{"STRONG", "WEAK", "NORMAL"}},
				"confidence": map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
			},
			"required": []any{"kind", "confidence"},
		},
	}
}

func TestValidateResponse_Valid(t *testing.T) {
	raw := json.RawMessage(`{"kind":"STRONG","confidence":85}`)
	if err := validateResponse(verdictSchema(), raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not even json`)); err != nil {
		t.Fatalf("nil schema should skip validation, got: %v", err)
	}
}

func TestValidateResponse_MissingRequired(t *testing.T) {
	raw := json.RawMessage(`{"kind":"WEAK"}`)
	err := validateResponse(verdictSchema(), raw)
	if err == nil {
		t.Fatal("expected error for missing required field")
	}
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}

func TestValidateResponse_InvalidEnum(t *testing.T) {
	raw := json.RawMessage(`{"kind":"GENIUS","confidence":99}`)
	if err := validateResponse(verdictSchema(), raw); err == nil {
		t.Fatal("expected error for enum violation")
	}
}

func TestValidateResponse_MalformedJSON(t *testing.T) {
	raw := json.RawMessage(`{broken`)
	err := validateResponse(verdictSchema(), raw)
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %v", err)
	}
}

func TestValidateResponse_SchemaCacheReuse(t *testing.T) {
	s := verdictSchema()
	raw := json.RawMessage(`{"kind":"NORMAL","confidence":50}`)
	for i := 0; i < 3; i++ {
		if err := validateResponse(s, raw); err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
	}
}
