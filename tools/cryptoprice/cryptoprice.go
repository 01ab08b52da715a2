// Package cryptoprice provides the get-crypto-price tool: the current USD
// price and 24h market data of a coin given its name or ticker.
package cryptoprice

import (
	"context"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/coinagent/coingecko"
	"github.com/effective-security/coinagent/market"
	"github.com/effective-security/coinagent/pkg/schema"
	"github.com/effective-security/coinagent/tools"
)

const ToolName = "get-crypto-price"

const toolDescription = "REQUIRED tool for getting real-time cryptocurrency prices, market data, and trading information. " +
	"Use this tool for ANY cryptocurrency price query, market cap, volume, or trading data requests. " +
	"This tool searches and retrieves current data from CoinGecko API."

// Request represents the tool input.
type Request struct {
	Token string `json:"token" yaml:"token" validate:"required" jsonschema:"title=Token,description=Cryptocurrency name or symbol. Examples: bitcoin\\, BTC\\, ethereum\\, ETH\\, solana\\, SOL. Case insensitive.,example=bitcoin"`
}

// Snapshotter returns the market snapshot of a token
type Snapshotter interface {
	GetMarketSnapshot(ctx context.Context, token string) (*market.MarketSnapshot, error)
}

// Tool provides the current market data of a coin
type Tool struct {
	name        string
	description string
	funcParams  any

	service Snapshotter
}

// ensure Tool implements the tools.Tool interface
var _ tools.Tool[Request, market.MarketSnapshot] = (*Tool)(nil)

// New returns the tool backed by the pipeline
func New(service Snapshotter) (*Tool, error) {
	sc, err := schema.New(reflect.TypeOf(Request{}))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create schema")
	}
	return &Tool{
		name:        ToolName,
		description: toolDescription,
		funcParams:  sc.Parameters,
		service:     service,
	}, nil
}

// NewFromConfig returns the tool backed by a CoinGecko client
func NewFromConfig(cfg *coingecko.Config) (*Tool, error) {
	return New(market.NewService(coingecko.New(cfg)))
}

func (t *Tool) Name() string {
	return t.name
}

func (t *Tool) Description() string {
	return t.description
}

func (t *Tool) Parameters() any {
	return t.funcParams
}

func (t *Tool) Run(ctx context.Context, req *Request) (*market.MarketSnapshot, error) {
	if req == nil || req.Token == "" {
		return nil, errors.New("invalid request: empty token")
	}
	return t.service.GetMarketSnapshot(ctx, req.Token)
}

func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	return tools.Call[Request, market.MarketSnapshot](ctx, t, input)
}
