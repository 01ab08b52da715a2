package llmfactory

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/coinagent/pkg/llms"
	"github.com/effective-security/coinagent/pkg/llms/openai"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/coinagent", "llmfactory")

// NewLLM is a wrapper for CreateLLM to allow for overriding the default implementation.
var NewLLM = CreateLLM

// Handle is the model selected at startup. It never changes after Init.
type Handle struct {
	provider string
	model    llms.Model
}

// Provider returns the name of the selected provider
func (h *Handle) Provider() string {
	return h.provider
}

// ModelName returns the name of the selected model
func (h *Handle) ModelName() string {
	return h.model.GetName()
}

// Model returns the selected model
func (h *Handle) Model() llms.Model {
	return h.model
}

// Load reads the config and runs Init
func Load(ctx context.Context, location string) (*Handle, error) {
	cfg, err := LoadConfig(location)
	if err != nil {
		return nil, err
	}
	return Init(ctx, cfg)
}

// Init selects the first ready provider, or the default one when none is ready.
// It is meant to run once before serving requests.
func Init(ctx context.Context, cfg *Config) (*Handle, error) {
	if cfg == nil || len(cfg.Providers) == 0 {
		return nil, errors.New("no LLM providers configured")
	}

	timeout := time.Duration(values.NumbersCoalesce(cfg.HealthCheckTimeoutMs, DefaultHealthCheckTimeoutMs)) * time.Millisecond
	client := &http.Client{Timeout: timeout}

	for _, p := range cfg.Providers {
		if !isReady(ctx, client, p) {
			continue
		}
		h, err := newHandle(p)
		if err != nil {
			logger.ContextKV(ctx, xlog.WARNING,
				"reason", "create_failed",
				"provider", p.Name,
				"err", err.Error())
			continue
		}
		logger.ContextKV(ctx, xlog.INFO,
			"status", "selected",
			"provider", p.Name,
			"model", h.ModelName(),
			"base_url", p.OpenAI.BaseURL)
		return h, nil
	}

	def := cfg.Default()
	logger.ContextKV(ctx, xlog.WARNING,
		"reason", "no_provider_ready",
		"fallback", def.Name)
	h, err := newHandle(def)
	if err != nil {
		return nil, errors.WithMessagef(err, "unable to create default provider %s", def.Name)
	}
	return h, nil
}

func newHandle(p *ProviderConfig) (*Handle, error) {
	m, err := NewLLM(p)
	if err != nil {
		return nil, err
	}
	return &Handle{provider: p.Name, model: m}, nil
}

// isReady probes the health check URL, or checks the token when there is none
func isReady(ctx context.Context, client *http.Client, p *ProviderConfig) bool {
	if p.HealthCheckURL == "" {
		ready := p.Token != ""
		if !ready {
			logger.ContextKV(ctx, xlog.DEBUG, "reason", "no_token", "provider", p.Name)
		}
		return ready
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.HealthCheckURL, nil)
	if err != nil {
		logger.ContextKV(ctx, xlog.DEBUG, "reason", "invalid_health_url", "provider", p.Name, "err", err.Error())
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		logger.ContextKV(ctx, xlog.DEBUG, "reason", "unreachable", "provider", p.Name, "err", err.Error())
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.ContextKV(ctx, xlog.DEBUG, "reason", "not_ready", "provider", p.Name, "status", resp.StatusCode)
		return false
	}
	return true
}

// CreateLLM returns the model for the provider
func CreateLLM(cfg *ProviderConfig, preferredModels ...string) (llms.Model, error) {
	var provider llms.ProviderType
	switch strings.ToUpper(cfg.OpenAI.APIType) {
	case "", "OPENAI", "OPEN_AI":
		provider = llms.ProviderOpenAI
	case "OLLAMA":
		provider = llms.ProviderOllama
	case "OPENROUTER":
		provider = llms.ProviderOpenRouter
	default:
		return nil, errors.Errorf("unsupported provider type: %s", cfg.OpenAI.APIType)
	}

	opts := []openai.Option{
		openai.WithProvider(provider),
		openai.WithModel(cfg.FindModel(preferredModels...)),
	}
	if cfg.Token != "" {
		opts = append(opts, openai.WithToken(cfg.Token))
	}
	if cfg.OpenAI.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	for k, v := range cfg.OpenAI.Headers {
		opts = append(opts, openai.WithHeader(k, v))
	}
	return openai.New(opts...)
}
