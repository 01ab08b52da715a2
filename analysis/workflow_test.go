package analysis_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/coinagent/analysis"
	"github.com/effective-security/coinagent/coingecko"
	"github.com/effective-security/coinagent/market"
	"github.com/effective-security/coinagent/mocks/mockmarket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestWorkflow(t *testing.T) {
	ctx := context.Background()

	t.Run("price then analyze", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		reg := mockmarket.NewMockRegistry(ctrl)
		reg.EXPECT().Search(gomock.Any(), "ETH").Return(&coingecko.SearchResponse{
			Coins: []coingecko.SearchCoin{{ID: "ethereum", Name: "Ethereum", Symbol: "ETH", MarketCapRank: ptr(2)}},
		}, nil)
		reg.EXPECT().SimplePrice(gomock.Any(), gomock.Any()).Return(coingecko.SimplePriceResponse{
			"ethereum": {
				USD:           ptr(3500.0),
				USD24hVol:     ptr(1.5e10),
				USD24hChange:  ptr(2.5),
				USDMarketCap:  ptr(4.2e11),
				LastUpdatedAt: ptr(int64(1718000000)),
			},
		}, nil)
		reg.EXPECT().Coin(gomock.Any(), "ethereum").
			Return(&coingecko.CoinDetail{ID: "ethereum", Name: "Ethereum", Symbol: "eth"}, nil)

		m := &fakeModel{chunks: []string{"ETHEREUM analysis"}}
		wf := analysis.NewWorkflow(market.NewService(reg), analysis.NewAnalyzer(m))

		r, err := wf.Run(ctx, "ETH")
		require.NoError(t, err)
		assert.Equal(t, "ETHEREUM analysis", r.Analysis)
		assert.Equal(t, "ETH", r.Snapshot.Symbol)
		assert.Equal(t, 3500.0, r.Snapshot.CurrentPrice)
		assert.True(t, r.Sentiment.Bullish)
		assert.Equal(t, "Moderate", r.Sentiment.Momentum)
		assert.Equal(t, 1, m.calls)
	})

	t.Run("price failure is returned unchanged", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		reg := mockmarket.NewMockRegistry(ctrl)
		reg.EXPECT().Search(gomock.Any(), "nope").Return(&coingecko.SearchResponse{}, nil)

		m := &fakeModel{}
		wf := analysis.NewWorkflow(market.NewService(reg), analysis.NewAnalyzer(m))

		_, err := wf.Run(ctx, "nope")
		require.Error(t, err)
		assert.True(t, errors.Is(err, market.ErrNotFound))

		var f *market.Failure
		require.True(t, errors.As(err, &f))
		assert.Equal(t, "nope", f.Token)
		assert.Zero(t, m.calls)
	})
}
