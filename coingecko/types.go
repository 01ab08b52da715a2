package coingecko

// SearchResponse is the reply of /search
type SearchResponse struct {
	Coins []SearchCoin `json:"coins"`
}

// SearchCoin is a single candidate returned by /search
type SearchCoin struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	// MarketCapRank is nil for unranked coins
	MarketCapRank *int `json:"market_cap_rank"`
}

// PriceParams for /simple/price
type PriceParams struct {
	IDs []string
	// Currencies to quote in, default usd
	Currencies           []string
	IncludeMarketCap     bool
	Include24hrVol       bool
	Include24hrChange    bool
	IncludeLastUpdatedAt bool
}

// SimplePriceResponse is keyed by coin ID
type SimplePriceResponse map[string]SimplePrice

// SimplePrice is the USD quote of a coin.
// Fields are nil when the registry omits them.
type SimplePrice struct {
	USD           *float64 `json:"usd,omitempty"`
	USD24hVol     *float64 `json:"usd_24h_vol,omitempty"`
	USD24hChange  *float64 `json:"usd_24h_change,omitempty"`
	USDMarketCap  *float64 `json:"usd_market_cap,omitempty"`
	LastUpdatedAt *int64   `json:"last_updated_at,omitempty"`
}

// CoinDetail is the subset of /coins/{id} used for display
type CoinDetail struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}
