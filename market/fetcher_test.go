package market_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/coinagent/coingecko"
	"github.com/effective-security/coinagent/market"
	"github.com/effective-security/coinagent/mocks/mockmarket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func fullQuote() coingecko.SimplePrice {
	return coingecko.SimplePrice{
		USD:           ptr(65000.5),
		USD24hVol:     ptr(3.1e10),
		USD24hChange:  ptr(-1.25),
		USDMarketCap:  ptr(1.28e12),
		LastUpdatedAt: ptr(int64(1718000000)),
	}
}

func priceParams(id string) gomock.Matcher {
	return gomock.Cond(func(p *coingecko.PriceParams) bool {
		return len(p.IDs) == 1 && p.IDs[0] == id &&
			p.IncludeMarketCap && p.Include24hrVol && p.Include24hrChange && p.IncludeLastUpdatedAt
	})
}

func TestFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("full", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		reg := mockmarket.NewMockRegistry(ctrl)
		reg.EXPECT().SimplePrice(gomock.Any(), priceParams("bitcoin")).
			Return(coingecko.SimplePriceResponse{"bitcoin": fullQuote()}, nil)
		reg.EXPECT().Coin(gomock.Any(), "bitcoin").
			Return(&coingecko.CoinDetail{ID: "bitcoin", Name: "Bitcoin", Symbol: "btc"}, nil)

		snap, err := market.NewFetcher(reg).Fetch(ctx, "bitcoin")
		require.NoError(t, err)
		assert.Equal(t, &market.MarketSnapshot{
			Name:                     "Bitcoin",
			Symbol:                   "BTC",
			CurrentPrice:             65000.5,
			PriceChange24h:           -1.25,
			PriceChangePercentage24h: -1.25,
			MarketCap:                1.28e12,
			Volume24h:                3.1e10,
			LastUpdated:              "2024-06-10T06:13:20.000Z",
		}, snap)
	})

	t.Run("metadata failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		reg := mockmarket.NewMockRegistry(ctrl)
		reg.EXPECT().SimplePrice(gomock.Any(), gomock.Any()).
			Return(coingecko.SimplePriceResponse{"wrapped-bitcoin": fullQuote()}, nil)
		reg.EXPECT().Coin(gomock.Any(), "wrapped-bitcoin").
			Return(nil, &coingecko.StatusError{StatusCode: 404})

		snap, err := market.NewFetcher(reg).Fetch(ctx, "wrapped-bitcoin")
		require.NoError(t, err)
		assert.Equal(t, "wrapped-bitcoin", snap.Name)
		assert.Equal(t, "WRAPPED-BITCOIN", snap.Symbol)
		assert.Equal(t, 65000.5, snap.CurrentPrice)
	})

	t.Run("metadata partial", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		reg := mockmarket.NewMockRegistry(ctrl)
		reg.EXPECT().SimplePrice(gomock.Any(), gomock.Any()).
			Return(coingecko.SimplePriceResponse{"solana": fullQuote()}, nil)
		reg.EXPECT().Coin(gomock.Any(), "solana").
			Return(&coingecko.CoinDetail{ID: "solana", Symbol: "sol"}, nil)

		snap, err := market.NewFetcher(reg).Fetch(ctx, "solana")
		require.NoError(t, err)
		assert.Equal(t, "solana", snap.Name)
		assert.Equal(t, "SOL", snap.Symbol)
	})

	t.Run("price failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		reg := mockmarket.NewMockRegistry(ctrl)
		reg.EXPECT().SimplePrice(gomock.Any(), gomock.Any()).
			Return(nil, errors.Mark(errors.New("timeout"), coingecko.ErrTransport))
		reg.EXPECT().Coin(gomock.Any(), "bitcoin").
			Return(&coingecko.CoinDetail{ID: "bitcoin", Name: "Bitcoin", Symbol: "btc"}, nil).
			AnyTimes()

		_, err := market.NewFetcher(reg).FetchFor(ctx, "BTC", "bitcoin")
		require.Error(t, err)
		assert.True(t, errors.Is(err, market.ErrUpstreamUnavailable))
		assert.True(t, market.IsTransient(err))
		assert.EqualError(t, err, "Failed to fetch data for BTC. Please check if the token name/symbol is correct.")
	})

	t.Run("missing key", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		reg := mockmarket.NewMockRegistry(ctrl)
		reg.EXPECT().SimplePrice(gomock.Any(), gomock.Any()).
			Return(coingecko.SimplePriceResponse{}, nil)
		reg.EXPECT().Coin(gomock.Any(), gomock.Any()).
			Return(&coingecko.CoinDetail{ID: "dead-coin", Name: "Dead", Symbol: "dead"}, nil)

		_, err := market.NewFetcher(reg).FetchFor(ctx, "dead", "dead-coin")
		require.Error(t, err)
		assert.True(t, errors.Is(err, market.ErrNoData))
		assert.False(t, market.IsTransient(err))
		assert.EqualError(t, err, "No price data available for dead. The coin might not be actively traded.")
	})

	t.Run("partial quote", func(t *testing.T) {
		q := fullQuote()
		q.USDMarketCap = nil

		ctrl := gomock.NewController(t)
		reg := mockmarket.NewMockRegistry(ctrl)
		reg.EXPECT().SimplePrice(gomock.Any(), gomock.Any()).
			Return(coingecko.SimplePriceResponse{"thin": q}, nil)
		reg.EXPECT().Coin(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

		snap, err := market.NewFetcher(reg).Fetch(ctx, "thin")
		require.Error(t, err)
		assert.Nil(t, snap)
		assert.True(t, errors.Is(err, market.ErrNoData))
	})
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "1970-01-01T00:00:00.000Z", market.FormatTimestamp(0))
	assert.Equal(t, "2024-06-10T06:13:20.000Z", market.FormatTimestamp(1718000000))
}
