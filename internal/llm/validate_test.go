package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func questionsSchema() *Schema {
	list := map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
	return &Schema{
		Name:        "test-questions",
		Description: "Question arrays",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"mentalQuestions": list,
				"wordQuestions":   list,
			},
			"required": []any{"mentalQuestions"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"mentalQuestions":["3 + 4 ="],"wordQuestions":["小明有 3 个苹果"]}`, false},
		{"optional missing", `{"mentalQuestions":[]}`, false},
		{"required missing", `{"wordQuestions":[]}`, true},
		{"wrong item type", `{"mentalQuestions":[1,2]}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(questionsSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("expected ErrInvalidResponse, got %T", err)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`{"anything":"goes"}`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"  {\"a\":1}\n", `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```\n", `{"a":1}`},
		{"```{\"a\":1}```", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := stripCodeFence(tt.in); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
