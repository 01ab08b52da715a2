package llms_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/coinagent/pkg/llms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	resp *llms.ContentResponse
	got  []llms.Message
	opts *llms.CallOptions
}

func (f *fakeLLM) GetProviderType() llms.ProviderType { return llms.ProviderOllama }
func (f *fakeLLM) GetName() string                    { return "fake" }
func (f *fakeLLM) GenerateContent(_ context.Context, msgs []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.got = msgs
	f.opts = llms.NewCallOptions(options...)
	return f.resp, nil
}

func TestGenerateFromSinglePrompt(t *testing.T) {
	f := &fakeLLM{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "bullish"}}}}

	out, err := llms.GenerateFromSinglePrompt(context.Background(), f, "be brief", "BTC?", llms.WithTemperature(0.2), llms.WithMaxTokens(100))
	require.NoError(t, err)
	assert.Equal(t, "bullish", out)
	assert.Equal(t, []llms.Message{llms.SystemMessage("be brief"), llms.HumanMessage("BTC?")}, f.got)
	assert.Equal(t, 0.2, f.opts.Temperature)
	assert.Equal(t, 100, f.opts.MaxTokens)

	_, err = llms.GenerateFromSinglePrompt(context.Background(), f, "", "BTC?")
	require.NoError(t, err)
	assert.Len(t, f.got, 1)

	f.resp = &llms.ContentResponse{}
	_, err = llms.GenerateFromSinglePrompt(context.Background(), f, "", "BTC?")
	assert.True(t, errors.Is(err, llms.ErrEmptyResponse))
}

func TestMessages(t *testing.T) {
	assert.Equal(t, llms.Message{Role: llms.RoleHuman, Content: "a\nb"}, llms.MessageFromTextParts(llms.RoleHuman, "a", "b"))
	assert.Equal(t, llms.RoleAI, llms.AIMessage("x").Role)
}

func TestCallOptions(t *testing.T) {
	opts := llms.NewCallOptions(llms.WithModel("qwen2.5:1.5b"), llms.WithOptions(llms.CallOptions{MaxTokens: 5}))
	assert.Equal(t, "", opts.Model)
	assert.Equal(t, 5, opts.MaxTokens)

	called := false
	opts = llms.NewCallOptions(llms.WithStreamingFunc(func(context.Context, []byte) error {
		called = true
		return nil
	}))
	require.NotNil(t, opts.StreamingFunc)
	require.NoError(t, opts.StreamingFunc(context.Background(), []byte("x")))
	assert.True(t, called)
}
