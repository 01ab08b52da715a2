package llms

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ProviderType is the type of provider.
type ProviderType string

const (
	// ProviderOpenAI is the OpenAI API.
	ProviderOpenAI ProviderType = "OPENAI"
	// ProviderOllama is a local Ollama server with the OpenAI compatible API.
	ProviderOllama ProviderType = "OLLAMA"
	// ProviderOpenRouter is the OpenRouter gateway.
	ProviderOpenRouter ProviderType = "OPENROUTER"
)

// ErrEmptyResponse is returned when the model returns no choices.
var ErrEmptyResponse = errors.New("empty response")

// Model is a chat model.
type Model interface {
	// GetProviderType returns the type of provider.
	GetProviderType() ProviderType
	// GetName returns the model name.
	GetName() string
	// GenerateContent asks the model to continue the conversation.
	GenerateContent(ctx context.Context, messages []Message, options ...CallOption) (*ContentResponse, error)
}

// GenerateFromSinglePrompt is a convenience function for calling a model
// with a system instruction and a single user prompt.
func GenerateFromSinglePrompt(ctx context.Context, llm Model, system, prompt string, options ...CallOption) (string, error) {
	var msgs []Message
	if system != "" {
		msgs = append(msgs, SystemMessage(system))
	}
	msgs = append(msgs, HumanMessage(prompt))

	resp, err := llm.GenerateContent(ctx, msgs, options...)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.WithStack(ErrEmptyResponse)
	}
	return resp.Choices[0].Content, nil
}
