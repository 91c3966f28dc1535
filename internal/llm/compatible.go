package llm

import "fmt"

const (
	defaultMoonshotBaseURL = "https://api.moonshot.cn/v1"
	defaultMoonshotModel   = "moonshot-v1-8k"

	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
)

// moonshotModels maps friendly names to Moonshot (Kimi) model IDs.
var moonshotModels = map[string]string{
	"kimi":     defaultMoonshotModel,
	"kimi-32k": "moonshot-v1-32k",
}

// compatibleVendor describes a hosted API that speaks the OpenAI chat
// protocol at its own base URL.
type compatibleVendor struct {
	name         string
	baseURL      string
	defaultModel string
	models       map[string]string
	// jsonObject selects json_object output for vendors without
	// json_schema support; the schema is then checked locally.
	jsonObject bool
}

var (
	moonshotVendor = compatibleVendor{
		name:         "moonshot",
		baseURL:      defaultMoonshotBaseURL,
		defaultModel: defaultMoonshotModel,
		models:       moonshotModels,
		jsonObject:   true,
	}
	openRouterVendor = compatibleVendor{
		name:    "openrouter",
		baseURL: defaultOpenRouterBaseURL,
	}
)

func (v compatibleVendor) provider(apiKey, model, baseURL string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s API key is required", v.name)
	}
	if baseURL == "" {
		baseURL = v.baseURL
	}
	if model == "" {
		model = v.defaultModel
	}
	if v.models != nil {
		model = resolveModel(model, v.models)
	}
	return newOpenAIProviderRaw(OpenAIConfig{
		APIKey:         apiKey,
		Model:          model,
		BaseURL:        baseURL,
		JSONObjectMode: v.jsonObject,
	})
}

// MoonshotProvider targets the Moonshot (Kimi) chat API, the default
// worksheet generator.
type MoonshotProvider struct {
	*OpenAIProvider
}

// NewMoonshotProvider creates a provider for the Moonshot API.
func NewMoonshotProvider(cfg MoonshotConfig) (*MoonshotProvider, error) {
	inner, err := moonshotVendor.provider(cfg.APIKey, cfg.Model, cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	return &MoonshotProvider{OpenAIProvider: inner}, nil
}

// OpenRouterProvider routes requests through OpenRouter. Model names pass
// through unchanged, e.g. "google/gemini-2.0-flash-exp".
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	inner, err := openRouterVendor.provider(cfg.APIKey, cfg.Model, cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}
