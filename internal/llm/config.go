package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "moonshot", "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string

	Moonshot   MoonshotConfig
	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single provider call. Default: 90s; a worksheet
	// response carries dozens of questions.
	Timeout time.Duration
}

// MoonshotConfig holds Moonshot (Kimi) configuration.
type MoonshotConfig struct {
	APIKey  string
	Model   string // Default: "moonshot-v1-8k"
	BaseURL string // Default: "https://api.moonshot.cn/v1"
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.

	// JSONObjectMode requests plain JSON output instead of a strict JSON
	// schema, for compatible APIs that only support json_object. The
	// response is still validated against the request schema locally.
	JSONObjectMode bool
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.0-flash-exp"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
	// Jitter is the +/- fraction applied to each wait. Zero disables it.
	Jitter float64

	// Retryable overrides the default classification of errors. It is
	// consulted after context cancellation, which is never retried.
	Retryable func(error) bool
}

// DefaultRetryConfig allows three retries starting at 2s and growing by
// half each time.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 4,
		InitialWait: 2 * time.Second,
		MaxWait:     20 * time.Second,
		Multiplier:  1.5,
		Jitter:      0.2,
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "moonshot",
		Moonshot: MoonshotConfig{
			Model:   defaultMoonshotModel,
			BaseURL: defaultMoonshotBaseURL,
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-exp",
		},
		Retry:   DefaultRetryConfig(),
		Timeout: 90 * time.Second,
	}
}

// ConfigFromEnv builds a Config from MATHSHEET_* environment variables,
// falling back to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	setStr := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setStr(&cfg.Provider, "MATHSHEET_LLM_PROVIDER")

	setStr(&cfg.Moonshot.APIKey, "MATHSHEET_MOONSHOT_API_KEY")
	setStr(&cfg.Moonshot.Model, "MATHSHEET_MOONSHOT_MODEL")
	setStr(&cfg.Moonshot.BaseURL, "MATHSHEET_MOONSHOT_BASE_URL")

	setStr(&cfg.Anthropic.APIKey, "MATHSHEET_ANTHROPIC_API_KEY")
	setStr(&cfg.Anthropic.Model, "MATHSHEET_ANTHROPIC_MODEL")

	setStr(&cfg.OpenAI.APIKey, "MATHSHEET_OPENAI_API_KEY")
	setStr(&cfg.OpenAI.Model, "MATHSHEET_OPENAI_MODEL")
	setStr(&cfg.OpenAI.BaseURL, "MATHSHEET_OPENAI_BASE_URL")

	setStr(&cfg.Gemini.APIKey, "MATHSHEET_GEMINI_API_KEY")
	setStr(&cfg.Gemini.Model, "MATHSHEET_GEMINI_MODEL")

	setStr(&cfg.OpenRouter.APIKey, "MATHSHEET_OPENROUTER_API_KEY")
	setStr(&cfg.OpenRouter.Model, "MATHSHEET_OPENROUTER_MODEL")

	if v := os.Getenv("MATHSHEET_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}

	return cfg
}

// DiscoverConfig checks standard API key env vars in priority order
// (Moonshot → Gemini → OpenAI → Anthropic → OpenRouter) and returns a
// Config for the first provider whose key is found. Returns
// (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("MOONSHOT_API_KEY"); k != "" {
		cfg.Provider = "moonshot"
		cfg.Moonshot.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "moonshot":
		if c.Moonshot.APIKey == "" {
			return fmt.Errorf("MATHSHEET_MOONSHOT_API_KEY is required for the moonshot provider")
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("MATHSHEET_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("MATHSHEET_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("MATHSHEET_GEMINI_API_KEY is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("MATHSHEET_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	return nil
}
