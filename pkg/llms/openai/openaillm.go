// Package openai implements llms.Model with the OpenAI chat completions API.
// Any server exposing the same API can be used, such as Ollama or OpenRouter.
package openai

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/coinagent/pkg/llms"
	"github.com/effective-security/coinagent/pkg/metricskey"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/coinagent", "openai")

type LLM struct {
	client   openai.Client
	model    string
	provider llms.ProviderType
}

var _ llms.Model = (*LLM)(nil)

// New returns a new OpenAI LLM.
func New(opts ...Option) (*LLM, error) {
	o := &options{
		provider: llms.ProviderOpenAI,
	}
	for _, opt := range opts {
		opt(o)
	}

	o.token = values.StringsCoalesce(o.token, os.Getenv(tokenEnvVarName))
	o.model = values.StringsCoalesce(o.model, os.Getenv(modelEnvVarName), DefaultModel)
	o.baseURL = values.StringsCoalesce(o.baseURL, os.Getenv(baseURLEnvVarName), DefaultBaseURL)
	if o.token == "" && o.provider != llms.ProviderOllama {
		return nil, errors.Newf("API token is required for %s provider", o.provider)
	}

	ropts := []option.RequestOption{
		option.WithBaseURL(strings.TrimSuffix(o.baseURL, "/") + "/"),
		option.WithMaxRetries(0),
	}
	if o.token != "" {
		ropts = append(ropts, option.WithAPIKey(o.token))
	}
	if o.httpClient != nil {
		ropts = append(ropts, option.WithHTTPClient(o.httpClient))
	}
	for k, v := range o.headers {
		ropts = append(ropts, option.WithHeader(k, v))
	}

	return &LLM{
		client:   openai.NewClient(ropts...),
		model:    o.model,
		provider: o.provider,
	}, nil
}

// GetProviderType implements the Model interface.
func (o *LLM) GetProviderType() llms.ProviderType {
	return o.provider
}

// GetName returns the model name.
func (o *LLM) GetName() string {
	return o.model
}

// GenerateContent implements the Model interface.
func (o *LLM) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.NewCallOptions(options...)
	model := values.StringsCoalesce(opts.Model, o.model)

	started := time.Now()
	defer metricskey.PerfLLMCall.MeasureSince(started, model)

	params, err := chatParams(model, messages, opts)
	if err != nil {
		return nil, err
	}

	var resp *llms.ContentResponse
	if opts.StreamingFunc != nil {
		resp, err = o.stream(ctx, params, opts.StreamingFunc)
	} else {
		resp, err = o.complete(ctx, params)
	}
	if err != nil {
		metricskey.StatsLLMCallsFailed.IncrCounter(1, model)
		logger.ContextKV(ctx, xlog.ERROR,
			"reason", "chat_failed",
			"provider", o.provider,
			"model", model,
			"err", err.Error())
		return nil, err
	}
	return resp, nil
}

func chatParams(model string, messages []llms.Message, opts *llms.CallOptions) (openai.ChatCompletionNewParams, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
	}
	for _, m := range messages {
		switch m.Role {
		case llms.RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case llms.RoleHuman:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		case llms.RoleAI:
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			return params, errors.Newf("role %v not supported", m.Role)
		}
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(opts.MaxTokens))
	}
	return params, nil
}

func (o *LLM) complete(ctx context.Context, params openai.ChatCompletionNewParams) (*llms.ContentResponse, error) {
	res, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "chat completion failed")
	}
	if len(res.Choices) == 0 {
		return nil, errors.WithStack(llms.ErrEmptyResponse)
	}

	resp := &llms.ContentResponse{
		Usage: llms.Usage{
			InputTokens:  res.Usage.PromptTokens,
			OutputTokens: res.Usage.CompletionTokens,
			TotalTokens:  res.Usage.TotalTokens,
		},
	}
	for _, c := range res.Choices {
		resp.Choices = append(resp.Choices, &llms.ContentChoice{
			Content:    c.Message.Content,
			StopReason: string(c.FinishReason),
		})
	}
	return resp, nil
}

func (o *LLM) stream(ctx context.Context, params openai.ChatCompletionNewParams, fn func(context.Context, []byte) error) (*llms.ContentResponse, error) {
	stream := o.client.Chat.Completions.NewStreaming(ctx, params)
	defer stream.Close()

	var (
		content strings.Builder
		reason  string
		usage   llms.Usage
	)
	for stream.Next() {
		chunk := stream.Current()
		if chunk.Usage.TotalTokens > 0 {
			usage = llms.Usage{
				InputTokens:  chunk.Usage.PromptTokens,
				OutputTokens: chunk.Usage.CompletionTokens,
				TotalTokens:  chunk.Usage.TotalTokens,
			}
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		choice := chunk.Choices[0]
		if choice.FinishReason != "" {
			reason = string(choice.FinishReason)
		}
		if choice.Delta.Content == "" {
			continue
		}
		content.WriteString(choice.Delta.Content)
		if err := fn(ctx, []byte(choice.Delta.Content)); err != nil {
			return nil, errors.WithMessage(err, "streaming stopped")
		}
	}
	if err := stream.Err(); err != nil {
		return nil, errors.Wrap(err, "chat stream failed")
	}
	if content.Len() == 0 && reason == "" {
		return nil, errors.WithStack(llms.ErrEmptyResponse)
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			Content:    content.String(),
			StopReason: reason,
		}},
		Usage: usage,
	}, nil
}
