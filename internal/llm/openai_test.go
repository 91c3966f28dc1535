package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// chatServer serves a single canned chat completion and captures the
// decoded request body.
func chatServer(t *testing.T, content, finish string, captured *map[string]any) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			_ = json.NewDecoder(r.Body).Decode(captured)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "moonshot-v1-8k",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finish,
			}},
			"usage": map[string]any{"prompt_tokens": 120, "completion_tokens": 80, "total_tokens": 200},
		})
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/v1"
}

func errorServer(t *testing.T, status int) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "server_error", "message": http.StatusText(status)},
		})
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/v1"
}

func worksheetRequest() Request {
	return Request{
		System:      "你是一名小学数学老师。",
		Messages:    []Message{{Role: RoleUser, Content: "生成口算题"}},
		Schema:      questionsSchema(),
		MaxTokens:   2048,
		Temperature: 0.3,
	}
}

func TestOpenAIProvider_StrictSchema(t *testing.T) {
	var body map[string]any
	url := chatServer(t, `{"mentalQuestions":["12 + 7 ="]}`, "stop", &body)

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: url})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := p.Generate(context.Background(), worksheetRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.InputTokens != 120 || resp.Usage.OutputTokens != 80 || resp.StopReason != "end" {
		t.Fatalf("unexpected response %+v", resp)
	}

	format, _ := body["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Errorf("response_format.type = %v, want json_schema", format["type"])
	}
	if _, ok := body["max_completion_tokens"]; !ok {
		t.Error("expected max_completion_tokens in strict mode")
	}
}

func TestMoonshotProvider_JSONObjectMode(t *testing.T) {
	var body map[string]any
	fenced := "```json\n{\"mentalQuestions\":[\"36 ÷ 6 =\"],\"wordQuestions\":[]}\n```"
	url := chatServer(t, fenced, "stop", &body)

	p, err := NewMoonshotProvider(MoonshotConfig{APIKey: "sk-kimi", BaseURL: url})
	if err != nil {
		t.Fatal(err)
	}
	if p.ModelID() != defaultMoonshotModel {
		t.Fatalf("ModelID = %q, want %q", p.ModelID(), defaultMoonshotModel)
	}

	resp, err := p.Generate(context.Background(), worksheetRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"mentalQuestions":["36 ÷ 6 ="],"wordQuestions":[]}` {
		t.Fatalf("fence not stripped: %s", resp.Content)
	}

	format, _ := body["response_format"].(map[string]any)
	if format["type"] != "json_object" {
		t.Errorf("response_format.type = %v, want json_object", format["type"])
	}
	if body["max_tokens"] != float64(2048) {
		t.Errorf("max_tokens = %v", body["max_tokens"])
	}
	if body["temperature"] != 0.3 {
		t.Errorf("temperature = %v", body["temperature"])
	}
}

func TestMoonshotProvider_SchemaMismatchIsInvalid(t *testing.T) {
	url := chatServer(t, `{"questions":["1 + 1"]}`, "stop", nil)
	p, err := NewMoonshotProvider(MoonshotConfig{APIKey: "sk-kimi", BaseURL: url})
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Generate(context.Background(), worksheetRequest())
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
	}
}

func TestOpenAIProvider_TruncatedResponse(t *testing.T) {
	url := chatServer(t, `{"mentalQuestions":["1 +`, "length", nil)
	p, err := NewMoonshotProvider(MoonshotConfig{APIKey: "sk-kimi", BaseURL: url})
	if err != nil {
		t.Fatal(err)
	}
	_, err = p.Generate(context.Background(), worksheetRequest())
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %T (%v)", err, err)
	}
}

func TestOpenAIProvider_ErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusTooManyRequests, func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) }},
		{http.StatusBadGateway, func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o", BaseURL: errorServer(t, tt.status)})
			if err != nil {
				t.Fatal(err)
			}
			_, err = p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
			if !tt.check(err) {
				t.Fatalf("unexpected error type %T (%v)", err, err)
			}
		})
	}
}

func TestCompatibleProviders_Construction(t *testing.T) {
	if _, err := NewMoonshotProvider(MoonshotConfig{}); err == nil {
		t.Error("moonshot: expected error for empty API key")
	}
	if _, err := NewOpenRouterProvider(OpenRouterConfig{Model: "x"}); err == nil {
		t.Error("openrouter: expected error for empty API key")
	}

	kimi, err := NewMoonshotProvider(MoonshotConfig{APIKey: "k", Model: "kimi-32k"})
	if err != nil || kimi.ModelID() != "moonshot-v1-32k" {
		t.Errorf("moonshot friendly name not resolved: %v %q", err, kimi.ModelID())
	}

	or, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "anthropic/claude-3-haiku"})
	if err != nil || or.ModelID() != "anthropic/claude-3-haiku" {
		t.Errorf("openrouter model should pass through: %v", err)
	}
}
