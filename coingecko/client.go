package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/coinagent/pkg/metricskey"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
	"golang.org/x/time/rate"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/coinagent", "coingecko")

const maxBodySize = 4 << 20

var (
	// ErrTransport marks failures to reach the registry or read its reply
	ErrTransport = errors.New("registry transport failure")
	// ErrDecode marks replies that are not valid JSON of the expected shape
	ErrDecode = errors.New("registry reply decode failure")
)

// StatusError is returned for non-2xx replies
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client for the CoinGecko API, safe for concurrent use
type Client struct {
	baseURL    string
	apiKey     string
	keyHeader  string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New returns a client for the given config, nil config uses defaults
func New(cfg *Config) *Client {
	if cfg == nil {
		cfg = new(Config)
	}
	c := &Client{
		baseURL:    cfg.endpoint(),
		apiKey:     cfg.APIKey,
		keyHeader:  cfg.keyHeader(),
		timeout:    cfg.timeout(),
		httpClient: http.DefaultClient,
	}
	return c.WithRateLimit(cfg.requestsPerMinute())
}

func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.httpClient = client
	return c
}

// WithTimeout sets the per-call bound, applied on top of the caller's context
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	return c
}

// WithRateLimit paces calls to perMinute, 0 disables the limiter
func (c *Client) WithRateLimit(perMinute int) *Client {
	if perMinute <= 0 {
		c.limiter = nil
		return c
	}
	c.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60), max(1, perMinute/10))
	return c
}

// Search returns coins matching the free text query
func (c *Client) Search(ctx context.Context, query string) (*SearchResponse, error) {
	res := new(SearchResponse)
	err := c.get(ctx, "search", "/search", url.Values{"query": {query}}, res)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// SimplePrice returns quotes for the requested coins
func (c *Client) SimplePrice(ctx context.Context, p *PriceParams) (SimplePriceResponse, error) {
	if p == nil || len(p.IDs) == 0 {
		return nil, errors.New("coin IDs are required")
	}
	currencies := p.Currencies
	if len(currencies) == 0 {
		currencies = []string{"usd"}
	}

	q := url.Values{
		"ids":           {strings.Join(p.IDs, ",")},
		"vs_currencies": {strings.Join(currencies, ",")},
	}
	setFlag(q, "include_market_cap", p.IncludeMarketCap)
	setFlag(q, "include_24hr_vol", p.Include24hrVol)
	setFlag(q, "include_24hr_change", p.Include24hrChange)
	setFlag(q, "include_last_updated_at", p.IncludeLastUpdatedAt)

	res := SimplePriceResponse{}
	if err := c.get(ctx, "simple_price", "/simple/price", q, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// Coin returns the name and symbol of the coin
func (c *Client) Coin(ctx context.Context, id string) (*CoinDetail, error) {
	q := url.Values{
		"localization":   {"false"},
		"tickers":        {"false"},
		"market_data":    {"false"},
		"community_data": {"false"},
		"developer_data": {"false"},
	}
	res := new(CoinDetail)
	if err := c.get(ctx, "coin", "/coins/"+url.PathEscape(id), q, res); err != nil {
		return nil, err
	}
	return res, nil
}

func setFlag(q url.Values, name string, on bool) {
	if on {
		q.Set(name, "true")
	}
}

func (c *Client) get(ctx context.Context, endpoint, path string, q url.Values, out any) error {
	started := time.Now()
	status := "error"
	defer func() {
		metricskey.PerfRegistryRequest.MeasureSince(started, endpoint)
		metricskey.StatsRegistryRequests.IncrCounter(1, endpoint, status)
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return errors.Mark(errors.Wrap(err, "rate limiter"), ErrTransport)
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(c.keyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.ContextKV(ctx, xlog.DEBUG,
			"reason", "request_failed",
			"endpoint", endpoint,
			"err", err.Error())
		return errors.Mark(errors.Wrapf(err, "failed to call %s", endpoint), ErrTransport)
	}
	defer resp.Body.Close()

	status = strconv.Itoa(resp.StatusCode)
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "failed to read %s response", endpoint), ErrTransport)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.ContextKV(ctx, xlog.DEBUG,
			"reason", "unexpected_status",
			"endpoint", endpoint,
			"status", resp.StatusCode)
		return errors.WithStack(&StatusError{
			StatusCode: resp.StatusCode,
			Body:       slices.StringUpto(string(body), 256),
		})
	}

	if err = json.Unmarshal(body, out); err != nil {
		return errors.Mark(errors.Wrapf(err, "failed to decode %s response", endpoint), ErrDecode)
	}
	return nil
}
