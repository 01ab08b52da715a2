// Package coingecko provides a minimal client for the CoinGecko public
// registry: coin search, simple price quotes and coin metadata.
package coingecko
