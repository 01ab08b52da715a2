// Package llms provides the chat model abstraction used by the analysis step.
//
// The `llms.go` file contains the Model interface and provider types,
// `messages.go` the chat messages and responses, and `options.go` the
// per-call options. Provider implementations live in subpackages.
package llms
