package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name:        "test-choice",
		Description: "A single multiple choice item",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string", "minLength": 1},
				"options": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 4,
					"maxItems": 4,
				},
				"difficulty": map[string]any{"type": "string", "enum": []any{"EASY", "MEDIUM", "HARD"}},
			},
			"required": []any{"text", "options"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"text":"Capital of France?","options":["Paris","Rome","Oslo","Bern"],"difficulty":"EASY"}`, false},
		{"valid without optional", `{"text":"Capital of France?","options":["Paris","Rome","Oslo","Bern"]}`, false},
		{"missing required", `{"text":"Capital of France?"}`, true},
		{"wrong type", `{"text":42,"options":["a","b","c","d"]}`, true},
		{"three options", `{"text":"Q?","options":["a","b","c"]}`, true},
		{"five options", `{"text":"Q?","options":["a","b","c","d","e"]}`, true},
		{"bad enum", `{"text":"Q?","options":["a","b","c","d"],"difficulty":"TRIVIAL"}`, true},
		{"empty text", `{"text":"","options":["a","b","c","d"]}`, true},
		{"malformed", `{not json}`, true},
		{"markdown fenced", "```json\n{\"text\":\"Q?\",\"options\":[\"a\",\"b\",\"c\",\"d\"]}\n```", true},
		{"empty", ``, true},
		{"two documents", `{"text":"Q?","options":["a","b","c","d"]} {"text":"Q?"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(testSchema(), json.RawMessage(tt.raw))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("expected no error, got: %v", err)
				}
				return
			}
			var invErr *ErrInvalidResponse
			if !errors.As(err, &invErr) {
				t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	raw := json.RawMessage(`{"anything":"goes"}`)
	if err := validateResponse(nil, raw); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_NestedArray(t *testing.T) {
	schema := &Schema{
		Name: "test-nested",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"questions": map[string]any{
					"type":     "array",
					"minItems": 2,
					"maxItems": 2,
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"subtopic": map[string]any{"type": "string"},
						},
						"required": []any{"subtopic"},
					},
				},
			},
			"required": []any{"questions"},
		},
	}

	valid := json.RawMessage(`{"questions":[{"subtopic":"Hooks"},{"subtopic":"JSX"}]}`)
	if err := validateResponse(schema, valid); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	short := json.RawMessage(`{"questions":[{"subtopic":"Hooks"}]}`)
	if err := validateResponse(schema, short); err == nil {
		t.Fatal("expected error for too few items")
	}

	missing := json.RawMessage(`{"questions":[{"subtopic":"Hooks"},{}]}`)
	if err := validateResponse(schema, missing); err == nil {
		t.Fatal("expected error for item missing subtopic")
	}
}
