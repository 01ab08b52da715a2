package coingecko

import (
	"strings"
	"time"

	"github.com/effective-security/x/configloader"
	"github.com/effective-security/x/values"
)

const (
	// BaseURL is the public API endpoint
	BaseURL = "https://api.coingecko.com/api/v3"
	// ProBaseURL is the endpoint for paid plans
	ProBaseURL = "https://pro-api.coingecko.com/api/v3"

	// DefaultTimeout bounds a single registry call
	DefaultTimeout = 5 * time.Second
	// DefaultRequestsPerMinute matches the public demo tier
	DefaultRequestsPerMinute = 30

	// PlanDemo is the free plan with an optional demo key
	PlanDemo = "demo"
	// PlanPro is the paid plan
	PlanPro = "pro"
)

// Config for the registry client
type Config struct {
	// BaseURL overrides the endpoint, for proxies and tests
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// APIKey is optional for the demo plan
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	// Plan is demo|pro, default demo
	Plan string `json:"plan,omitempty" yaml:"plan,omitempty"`
	// TimeoutSeconds bounds each call, default 5
	TimeoutSeconds int `json:"timeout_sec,omitempty" yaml:"timeout_sec,omitempty"`
	// RequestsPerMinute paces outgoing calls, default 30.
	// Negative value disables the limiter.
	RequestsPerMinute int `json:"requests_per_minute,omitempty" yaml:"requests_per_minute,omitempty"`
}

// LoadConfig from file, environment variables in values are expanded
func LoadConfig(file string) (*Config, error) {
	cfg := new(Config)
	if file == "" {
		return cfg, nil
	}
	if err := configloader.UnmarshalAndExpand(file, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsPro returns true for the paid plan
func (c *Config) IsPro() bool {
	return strings.EqualFold(c.Plan, PlanPro)
}

func (c *Config) endpoint() string {
	def := BaseURL
	if c.IsPro() {
		def = ProBaseURL
	}
	return strings.TrimSuffix(values.StringsCoalesce(c.BaseURL, def), "/")
}

func (c *Config) keyHeader() string {
	if c.IsPro() {
		return "x-cg-pro-api-key"
	}
	return "x-cg-demo-api-key"
}

func (c *Config) timeout() time.Duration {
	return time.Duration(values.NumbersCoalesce(c.TimeoutSeconds, int(DefaultTimeout/time.Second))) * time.Second
}

func (c *Config) requestsPerMinute() int {
	if c.RequestsPerMinute < 0 {
		return 0
	}
	return values.NumbersCoalesce(c.RequestsPerMinute, DefaultRequestsPerMinute)
}
