package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestMockProvider_FIFO(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"mentalQuestions":["1 + 1 ="]}`), Usage: Usage{InputTokens: 12, OutputTokens: 7}},
		MockResponse{Content: json.RawMessage(`{"wordQuestions":[]}`)},
	)

	first, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "set 1"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(first.Content) != `{"mentalQuestions":["1 + 1 ="]}` {
		t.Fatalf("unexpected first content %s", first.Content)
	}
	if first.Usage.InputTokens != 12 || first.StopReason != "end" {
		t.Fatalf("unexpected first response %+v", first)
	}

	second, err := mock.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(second.Content) != `{"wordQuestions":[]}` {
		t.Fatalf("unexpected second content %s", second.Content)
	}
	if mock.CallCount() != 2 || mock.Calls[0].Messages[0].Content != "set 1" {
		t.Fatalf("calls not recorded: %+v", mock.Calls)
	}
}

func TestMockProvider_EmptyQueue(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T", err)
	}
	if !errors.Is(err, errMockExhausted) {
		t.Errorf("expected exhausted queue in chain, got %v", err)
	}
}

func TestMockProvider_RecordsPurposeAndJSON(t *testing.T) {
	mock := NewMockProvider(MockJSON(map[string][]string{"compareQuestions": {"36 ○ 63"}}))
	ctx := WithPurpose(context.Background(), "worksheet-gen")

	resp, err := mock.Generate(ctx, Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"compareQuestions":["36 ○ 63"]}` {
		t.Errorf("content = %s", resp.Content)
	}
	if len(mock.Purposes) != 1 || mock.Purposes[0] != "worksheet-gen" {
		t.Errorf("purposes = %v", mock.Purposes)
	}
	if mock.Pending() != 0 {
		t.Errorf("pending = %d", mock.Pending())
	}
}

func TestRateLimited(t *testing.T) {
	err := fmt.Errorf("set 2: %w", &ErrRateLimit{RetryAfter: 5 * time.Second, Err: errors.New("429")})
	after, ok := RateLimited(err)
	if !ok || after != 5*time.Second {
		t.Errorf("RateLimited = %v, %v", after, ok)
	}
	if !strings.Contains(err.Error(), "retry after 5s") {
		t.Errorf("message = %q", err.Error())
	}
	if _, ok := RateLimited(&ErrProviderUnavailable{}); ok {
		t.Error("unavailable is not a rate limit")
	}
	if got := (&ErrRateLimit{Err: errors.New("429")}).Error(); got != "rate limited: 429" {
		t.Errorf("message without wait = %q", got)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}
	ctx = WithPurpose(ctx, "worksheet-gen")
	if p := PurposeFrom(ctx); p != "worksheet-gen" {
		t.Fatalf("expected 'worksheet-gen', got %q", p)
	}
}

type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingProvider) ModelID() string { return "blocking" }

func TestWithTimeout(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 10*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if p.ModelID() != "blocking" {
		t.Fatalf("ModelID = %q", p.ModelID())
	}
}

func TestConfig_Validate(t *testing.T) {
	withProvider := func(name string, mutate func(*Config)) Config {
		cfg := DefaultConfig()
		cfg.Provider = name
		if mutate != nil {
			mutate(&cfg)
		}
		return cfg
	}

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"moonshot without key", withProvider("moonshot", nil), true},
		{"moonshot with key", withProvider("moonshot", func(c *Config) { c.Moonshot.APIKey = "sk-test" }), false},
		{"anthropic without key", withProvider("anthropic", nil), true},
		{"anthropic with key", withProvider("anthropic", func(c *Config) { c.Anthropic.APIKey = "sk-test" }), false},
		{"openai with key", withProvider("openai", func(c *Config) { c.OpenAI.APIKey = "sk-test" }), false},
		{"gemini without key", withProvider("gemini", nil), true},
		{"openrouter with key", withProvider("openrouter", func(c *Config) { c.OpenRouter.APIKey = "sk-test" }), false},
		{"mock needs no key", withProvider("mock", nil), false},
		{"unknown provider", withProvider("unknown", nil), true},
		{"zero retry attempts", withProvider("mock", func(c *Config) { c.Retry.MaxAttempts = 0 }), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("MATHSHEET_LLM_PROVIDER", "moonshot")
	t.Setenv("MATHSHEET_MOONSHOT_API_KEY", "sk-kimi")
	t.Setenv("MATHSHEET_MOONSHOT_MODEL", "kimi-32k")
	t.Setenv("MATHSHEET_LLM_TIMEOUT", "45s")

	cfg := ConfigFromEnv()
	if cfg.Provider != "moonshot" || cfg.Moonshot.APIKey != "sk-kimi" || cfg.Moonshot.Model != "kimi-32k" {
		t.Fatalf("unexpected config %+v", cfg.Moonshot)
	}
	if cfg.Moonshot.BaseURL != defaultMoonshotBaseURL {
		t.Errorf("BaseURL = %q", cfg.Moonshot.BaseURL)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"MOONSHOT_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no provider without keys")
	}

	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("MOONSHOT_API_KEY", "sk-kimi")
	cfg, ok := DiscoverConfig()
	if !ok || cfg.Provider != "moonshot" || cfg.Moonshot.APIKey != "sk-kimi" {
		t.Fatalf("moonshot should win discovery, got %q", cfg.Provider)
	}
}

func TestNewProvider_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"
	p, err := NewProvider(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("ModelID = %q", p.ModelID())
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "carrier-pigeon"
	if _, err := NewProvider(context.Background(), cfg, nil, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestEstimateCost(t *testing.T) {
	cost, ok := EstimateCost("gpt-4o-mini", 1_000_000, 1_000_000)
	if !ok || cost != 0.75 {
		t.Fatalf("cost = %v, ok = %v", cost, ok)
	}
	if _, ok := EstimateCost("nope", 1, 1); ok {
		t.Fatal("unknown model should not be priced")
	}
}
