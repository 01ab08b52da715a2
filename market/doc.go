// Package market turns a free-text token name or ticker into a USD
// market snapshot, using a coin registry for resolution and quotes.
//
// The pipeline is stateless: every call resolves and fetches anew,
// and nothing is cached between requests.
package market

//go:generate mockgen -source=registry.go -destination=../mocks/mockmarket/market_mock.gen.go -package mockmarket
