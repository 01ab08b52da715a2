package market

import (
	"context"

	"github.com/effective-security/coinagent/pkg/metricskey"
	"github.com/effective-security/xlog"
)

// Service runs the resolve then fetch pipeline, safe for concurrent use
type Service struct {
	resolver *Resolver
	fetcher  *Fetcher
}

// NewService returns the pipeline backed by the registry
func NewService(registry Registry) *Service {
	return &Service{
		resolver: NewResolver(registry),
		fetcher:  NewFetcher(registry),
	}
}

// Resolver returns the resolution stage
func (s *Service) Resolver() *Resolver {
	return s.resolver
}

// Fetcher returns the retrieval stage
func (s *Service) Fetcher() *Fetcher {
	return s.fetcher
}

// GetMarketSnapshot resolves the token and returns its snapshot.
// The fetch stage is skipped when the token cannot be resolved.
func (s *Service) GetMarketSnapshot(ctx context.Context, token string) (*MarketSnapshot, error) {
	coin, err := s.resolver.Resolve(ctx, token)
	if err != nil {
		metricskey.StatsSnapshotsFailed.IncrCounter(1, KindOf(err))
		return nil, err
	}

	snap, err := s.fetcher.FetchFor(ctx, token, coin.ID)
	if err != nil {
		metricskey.StatsSnapshotsFailed.IncrCounter(1, KindOf(err))
		return nil, err
	}

	metricskey.StatsSnapshotsSucceeded.IncrCounter(1, coin.ID)
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "snapshot",
		"token", token,
		"id", coin.ID,
		"price", snap.CurrentPrice)
	return snap, nil
}
