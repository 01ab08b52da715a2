package market

import (
	"context"
	"strings"

	"github.com/effective-security/coinagent/coingecko"
	"github.com/effective-security/coinagent/pkg/metricskey"
	"github.com/effective-security/xlog"
	"golang.org/x/sync/errgroup"
)

// Fetcher builds a snapshot for a resolved coin ID
type Fetcher struct {
	registry Registry
}

// NewFetcher returns a fetcher backed by the registry
func NewFetcher(registry Registry) *Fetcher {
	return &Fetcher{registry: registry}
}

// Fetch returns the snapshot of the coin,
// failures reference the coin ID.
func (f *Fetcher) Fetch(ctx context.Context, coinID string) (*MarketSnapshot, error) {
	return f.FetchFor(ctx, coinID, coinID)
}

// FetchFor returns the snapshot of the coin,
// failures reference the token the caller asked for.
//
// The price and metadata calls run concurrently. The price call is
// mandatory, the metadata call only improves the name and symbol.
func (f *Fetcher) FetchFor(ctx context.Context, token, coinID string) (*MarketSnapshot, error) {
	var (
		prices coingecko.SimplePriceResponse
		detail *coingecko.CoinDetail
	)

	// metadata errors are not returned to the group,
	// so a failed metadata call never cancels the price call
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prices, err = f.registry.SimplePrice(gctx, &coingecko.PriceParams{
			IDs:                  []string{coinID},
			Currencies:           []string{"usd"},
			IncludeMarketCap:     true,
			Include24hrVol:       true,
			Include24hrChange:    true,
			IncludeLastUpdatedAt: true,
		})
		return err
	})
	g.Go(func() error {
		d, err := f.registry.Coin(gctx, coinID)
		if err != nil {
			logger.ContextKV(ctx, xlog.DEBUG,
				"reason", "metadata_failed",
				"id", coinID,
				"err", err.Error())
			return nil
		}
		detail = d
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"reason", "price_failed",
			"id", coinID,
			"err", err.Error())
		return nil, upstreamUnavailable(token, err)
	}

	quote, ok := prices[coinID]
	if !ok || !complete(quote) {
		logger.ContextKV(ctx, xlog.DEBUG, "reason", "no_data", "id", coinID)
		return nil, noData(token)
	}

	name, symbol, degraded := displayNames(coinID, detail)
	if degraded {
		metricskey.StatsMetadataDegraded.IncrCounter(1, coinID)
		logger.ContextKV(ctx, xlog.DEBUG, "status", "metadata_degraded", "id", coinID)
	}

	return &MarketSnapshot{
		Name:                     name,
		Symbol:                   symbol,
		CurrentPrice:             *quote.USD,
		PriceChange24h:           *quote.USD24hChange,
		PriceChangePercentage24h: *quote.USD24hChange,
		MarketCap:                *quote.USDMarketCap,
		Volume24h:                *quote.USD24hVol,
		LastUpdated:              FormatTimestamp(*quote.LastUpdatedAt),
	}, nil
}

func complete(q coingecko.SimplePrice) bool {
	return q.USD != nil &&
		q.USD24hChange != nil &&
		q.USDMarketCap != nil &&
		q.USD24hVol != nil &&
		q.LastUpdatedAt != nil
}

// displayNames falls back to the coin ID when metadata is missing
func displayNames(coinID string, detail *coingecko.CoinDetail) (name, symbol string, degraded bool) {
	name, symbol = coinID, coinID
	if detail == nil {
		degraded = true
	} else {
		if detail.Name != "" {
			name = detail.Name
		} else {
			degraded = true
		}
		if detail.Symbol != "" {
			symbol = detail.Symbol
		} else {
			degraded = true
		}
	}
	return name, strings.ToUpper(symbol), degraded
}
