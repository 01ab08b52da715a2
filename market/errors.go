package market

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/coinagent/coingecko"
)

var (
	// ErrNotFound is returned when no coin matches the query
	ErrNotFound = errors.New("coin not found")
	// ErrUpstreamUnavailable is returned when the price call fails
	ErrUpstreamUnavailable = errors.New("registry unavailable")
	// ErrNoData is returned when the registry has no complete quote for the coin
	ErrNoData = errors.New("no price data")
)

// Failure is a pipeline error carrying the caller's token and
// a human readable reason.
type Failure struct {
	Token string
	// Kind is one of ErrNotFound, ErrUpstreamUnavailable, ErrNoData
	Kind   error
	Reason string

	cause error
}

func (f *Failure) Error() string {
	return f.Reason
}

func (f *Failure) Unwrap() error {
	return f.cause
}

// Is matches the failure kind
func (f *Failure) Is(target error) bool {
	return target == f.Kind
}

func notFound(token string, cause error) error {
	return &Failure{
		Token:  token,
		Kind:   ErrNotFound,
		Reason: fmt.Sprintf("Could not find a CoinGecko coin ID for '%s'. Please check the name or symbol.", token),
		cause:  cause,
	}
}

func upstreamUnavailable(token string, cause error) error {
	return &Failure{
		Token:  token,
		Kind:   ErrUpstreamUnavailable,
		Reason: fmt.Sprintf("Failed to fetch data for %s. Please check if the token name/symbol is correct.", token),
		cause:  cause,
	}
}

func noData(token string) error {
	return &Failure{
		Token:  token,
		Kind:   ErrNoData,
		Reason: fmt.Sprintf("No price data available for %s. The coin might not be actively traded.", token),
	}
}

// KindOf returns a short name of the failure kind for logs and metrics
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "upstream_unavailable"
	case errors.Is(err, ErrNoData):
		return "no_data"
	default:
		return "unknown"
	}
}

// IsTransient returns true when the failure was caused by the registry
// being unreachable or answering with an error, rather than by the asset.
func IsTransient(err error) bool {
	var se *coingecko.StatusError
	return errors.Is(err, coingecko.ErrTransport) ||
		errors.Is(err, coingecko.ErrDecode) ||
		errors.As(err, &se)
}
