package market

import (
	"context"

	"github.com/effective-security/coinagent/coingecko"
)

// Registry is the upstream coin registry
type Registry interface {
	// Search returns coins matching the free text query
	Search(ctx context.Context, query string) (*coingecko.SearchResponse, error)
	// SimplePrice returns quotes keyed by coin ID
	SimplePrice(ctx context.Context, params *coingecko.PriceParams) (coingecko.SimplePriceResponse, error)
	// Coin returns coin metadata
	Coin(ctx context.Context, id string) (*coingecko.CoinDetail, error)
}

var _ Registry = (*coingecko.Client)(nil)
