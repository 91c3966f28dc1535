package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.0-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	schema := buildGeminiSchema(questionsSchema().Definition)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(schema.Properties))
	}
	mental := schema.Properties["mentalQuestions"]
	if mental.Type != "ARRAY" || mental.Items.Type != "STRING" {
		t.Fatalf("mentalQuestions = %s of %s", mental.Type, mental.Items.Type)
	}
	if len(schema.Required) != 1 || schema.Required[0] != "mentalQuestions" {
		t.Fatalf("required = %v", schema.Required)
	}
}

func TestGeminiStopReason(t *testing.T) {
	truncated := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: "MAX_TOKENS"}}}
	if got := mapGeminiStopReason(truncated); got != "max_tokens" {
		t.Errorf("stop reason = %q, want max_tokens", got)
	}
	done := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: "STOP"}}}
	if got := mapGeminiStopReason(done); got != "end" {
		t.Errorf("stop reason = %q, want end", got)
	}
	if got := mapGeminiStopReason(&genai.GenerateContentResponse{}); got != "end" {
		t.Errorf("stop reason without candidates = %q", got)
	}
}
