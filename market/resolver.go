package market

import (
	"context"
	"slices"
	"strings"

	"github.com/effective-security/coinagent/coingecko"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/coinagent", "market")

// unrankedSentinel orders unranked candidates after every ranked one
const unrankedSentinel = 999999

// Resolver maps a free-text token to a registry coin ID
type Resolver struct {
	registry Registry
}

// NewResolver returns a resolver backed by the registry
func NewResolver(registry Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve returns the most prominent coin matching the query.
// The query is passed to the registry as is.
func (r *Resolver) Resolve(ctx context.Context, query string) (*ResolvedCoin, error) {
	if strings.TrimSpace(query) == "" {
		return nil, notFound(query, nil)
	}

	res, err := r.registry.Search(ctx, query)
	if err != nil {
		logger.ContextKV(ctx, xlog.WARNING,
			"reason", "search_failed",
			"query", query,
			"err", err.Error())
		return nil, notFound(query, err)
	}
	if res == nil || len(res.Coins) == 0 {
		logger.ContextKV(ctx, xlog.DEBUG, "reason", "no_candidates", "query", query)
		return nil, notFound(query, nil)
	}

	best := SelectCandidate(toCandidates(res.Coins))
	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "resolved",
		"query", query,
		"id", best.ID,
		"candidates", len(res.Coins))

	return &ResolvedCoin{
		CandidateMatch: best,
		Query:          query,
	}, nil
}

// SelectCandidate returns the candidate with the lowest market-cap rank.
// Unranked candidates sort last and ties keep the registry order.
// The list must not be empty.
func SelectCandidate(candidates []CandidateMatch) CandidateMatch {
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, func(a, b CandidateMatch) int {
		return effectiveRank(a) - effectiveRank(b)
	})
	return sorted[0]
}

// effectiveRank treats a zero rank as missing
func effectiveRank(c CandidateMatch) int {
	if c.Rank == nil || *c.Rank == 0 {
		return unrankedSentinel
	}
	return *c.Rank
}

func toCandidates(coins []coingecko.SearchCoin) []CandidateMatch {
	list := make([]CandidateMatch, 0, len(coins))
	for _, c := range coins {
		list = append(list, CandidateMatch{
			ID:     c.ID,
			Name:   c.Name,
			Symbol: c.Symbol,
			Rank:   c.MarketCapRank,
		})
	}
	return list
}
