// Package llmfactory selects the chat model backend once at startup and
// returns an immutable handle to it. Providers are tried in order: the
// first one that is ready wins, otherwise the default provider is used.
package llmfactory
