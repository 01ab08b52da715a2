package llmfactory

import (
	"os"
	"slices"
	"strings"

	"github.com/effective-security/x/configloader"
	"github.com/effective-security/x/values"
)

const (
	// DefaultOllamaURL is the OpenAI compatible endpoint of a local Ollama
	DefaultOllamaURL = "http://127.0.0.1:11434/v1"
	// DefaultOllamaModel is a small model that runs on a laptop
	DefaultOllamaModel = "qwen2.5:1.5b"
	// OpenRouterURL is the OpenRouter endpoint
	OpenRouterURL = "https://openrouter.ai/api/v1"
	// OpenRouterModel is a free model on OpenRouter
	OpenRouterModel = "mistralai/mistral-7b-instruct:free"

	// DefaultHealthCheckTimeoutMs bounds the readiness probe of each provider
	DefaultHealthCheckTimeoutMs = 1000
)

type Config struct {
	// Providers specifies the list of providers in the order of preference
	Providers []*ProviderConfig `json:"providers" yaml:"providers"`
	// DefaultProvider is used when no provider is ready,
	// the first provider if not set
	DefaultProvider string `json:"default_provider" yaml:"default_provider"`
	// HealthCheckTimeoutMs bounds each readiness probe, default 1000
	HealthCheckTimeoutMs int `json:"health_check_timeout_ms,omitempty" yaml:"health_check_timeout_ms,omitempty"`
}

// ProviderConfig for an OpenAI compatible provider
type ProviderConfig struct {
	Name            string   `json:"name" yaml:"name"`
	Token           string   `json:"token,omitempty" yaml:"token,omitempty"`
	DefaultModel    string   `json:"default_model,omitempty" yaml:"default_model,omitempty"`
	AvailableModels []string `json:"available_models,omitempty" yaml:"available_models,omitempty"`
	// HealthCheckURL must answer 200 for the provider to be ready.
	// If empty, the provider is ready when it has a token.
	HealthCheckURL string       `json:"health_check_url,omitempty" yaml:"health_check_url,omitempty"`
	OpenAI         OpenAIConfig `json:"open_ai" yaml:"open_ai"`
}

// OpenAIConfig specifies options config
type OpenAIConfig struct {
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// APIType specifies the type of API to use:
	// OPENAI|OLLAMA|OPENROUTER
	APIType string `json:"api_type,omitempty" yaml:"api_type,omitempty"`
	// Headers are added to each request
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

func (c *ProviderConfig) FindModel(models ...string) string {
	for _, model := range models {
		if slices.Contains(c.AvailableModels, model) {
			return model
		}
	}
	return c.DefaultModel
}

// Default returns the fallback provider
func (c *Config) Default() *ProviderConfig {
	for _, p := range c.Providers {
		if p.Name == c.DefaultProvider {
			return p
		}
	}
	if len(c.Providers) > 0 {
		return c.Providers[0]
	}
	return nil
}

// LoadConfig from file
func LoadConfig(file string) (*Config, error) {
	cfg := new(Config)
	if file == "" {
		return cfg, nil
	}

	err := configloader.UnmarshalAndExpand(file, cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig prefers a running local Ollama, then OpenRouter when
// OPENROUTER_API_KEY is set, and falls back to the local Ollama.
// MODEL_NAME_AT_ENDPOINT and API_BASE_URL override the Ollama model and endpoint.
func DefaultConfig() *Config {
	ollamaURL := values.StringsCoalesce(os.Getenv("API_BASE_URL"), DefaultOllamaURL)
	return &Config{
		Providers: []*ProviderConfig{
			{
				Name:           "ollama",
				DefaultModel:   values.StringsCoalesce(os.Getenv("MODEL_NAME_AT_ENDPOINT"), DefaultOllamaModel),
				HealthCheckURL: strings.TrimSuffix(strings.TrimSuffix(ollamaURL, "/"), "/v1"),
				OpenAI: OpenAIConfig{
					BaseURL: ollamaURL,
					APIType: "OLLAMA",
				},
			},
			{
				Name:         "openrouter",
				Token:        os.Getenv("OPENROUTER_API_KEY"),
				DefaultModel: OpenRouterModel,
				OpenAI: OpenAIConfig{
					BaseURL: OpenRouterURL,
					APIType: "OPENROUTER",
				},
			},
			{
				Name:         "ollama-local",
				DefaultModel: DefaultOllamaModel,
				OpenAI: OpenAIConfig{
					BaseURL: DefaultOllamaURL,
					APIType: "OLLAMA",
				},
			},
		},
		DefaultProvider: "ollama-local",
	}
}
