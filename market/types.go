package market

import "time"

// TimestampLayout is ISO-8601 in UTC with milliseconds
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// CandidateMatch is a coin returned by the registry search
type CandidateMatch struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	// Rank is the market-cap rank, nil when unranked
	Rank *int `json:"rank,omitempty"`
}

// ResolvedCoin is the chosen candidate for the query
type ResolvedCoin struct {
	CandidateMatch
	Query string `json:"query"`
}

// MarketSnapshot is the USD market state of a coin at lastUpdated
type MarketSnapshot struct {
	Name                     string  `json:"name" yaml:"name"`
	Symbol                   string  `json:"symbol" yaml:"symbol"`
	CurrentPrice             float64 `json:"currentPrice" yaml:"currentPrice"`
	PriceChange24h           float64 `json:"priceChange24h" yaml:"priceChange24h"`
	PriceChangePercentage24h float64 `json:"priceChangePercentage24h" yaml:"priceChangePercentage24h"`
	MarketCap                float64 `json:"marketCap" yaml:"marketCap"`
	Volume24h                float64 `json:"volume24h" yaml:"volume24h"`
	LastUpdated              string  `json:"lastUpdated" yaml:"lastUpdated"`
}

// FormatTimestamp returns the unix seconds in TimestampLayout
func FormatTimestamp(unixSeconds int64) string {
	return time.UnixMilli(unixSeconds * 1000).UTC().Format(TimestampLayout)
}
