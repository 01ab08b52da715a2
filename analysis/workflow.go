package analysis

import (
	"context"

	"github.com/effective-security/coinagent/market"
	"github.com/effective-security/xlog"
)

// Snapshotter returns the market snapshot of a token
type Snapshotter interface {
	GetMarketSnapshot(ctx context.Context, token string) (*market.MarketSnapshot, error)
}

// Workflow fetches the market data of a token and then analyzes it
type Workflow struct {
	prices   Snapshotter
	analyzer *Analyzer
}

// NewWorkflow returns the price then analyze workflow
func NewWorkflow(prices Snapshotter, analyzer *Analyzer) *Workflow {
	return &Workflow{
		prices:   prices,
		analyzer: analyzer,
	}
}

// Run executes the steps in order. A failure of the price step is returned
// as is and the analysis is not attempted.
func (w *Workflow) Run(ctx context.Context, token string) (*Report, error) {
	snap, err := w.prices.GetMarketSnapshot(ctx, token)
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"reason", "price_step",
			"token", token,
			"err", err.Error())
		return nil, err
	}
	return w.analyzer.Analyze(ctx, snap)
}
