package openai_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/coinagent/pkg/llms"
	"github.com/effective-security/coinagent/pkg/llms/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completion = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"created": 1718000000,
	"model": "qwen2.5:1.5b",
	"choices": [{
		"index": 0,
		"message": {"role": "assistant", "content": "Bullish momentum."},
		"finish_reason": "stop"
	}],
	"usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
}`

type chatRequest struct {
	Model    string `json:"model"`
	Stream   bool   `json:"stream"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Temperature         *float64 `json:"temperature"`
	MaxCompletionTokens *int64   `json:"max_completion_tokens"`
}

func chatServer(t *testing.T, handle func(w http.ResponseWriter, req *chatRequest)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !assert.Equal(t, "/v1/chat/completions", r.URL.Path) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		var req chatRequest
		assert.NoError(t, json.Unmarshal(body, &req))
		handle(w, &req)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNew(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_MODEL", "")
	t.Setenv("OPENAI_BASE_URL", "")

	_, err := openai.New()
	assert.EqualError(t, err, "API token is required for OPENAI provider")

	llm, err := openai.New(openai.WithProvider(llms.ProviderOllama), openai.WithModel("qwen2.5:1.5b"))
	require.NoError(t, err)
	assert.Equal(t, llms.ProviderOllama, llm.GetProviderType())
	assert.Equal(t, "qwen2.5:1.5b", llm.GetName())

	t.Setenv("OPENAI_API_KEY", "sk-test")
	llm, err = openai.New()
	require.NoError(t, err)
	assert.Equal(t, openai.DefaultModel, llm.GetName())
}

func TestGenerateContent(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, req *chatRequest) {
		assert.Equal(t, "qwen2.5:1.5b", req.Model)
		assert.False(t, req.Stream)
		if !assert.Len(t, req.Messages, 2) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "Analyze BTC", req.Messages[1].Content)
		if assert.NotNil(t, req.Temperature) {
			assert.Equal(t, 0.3, *req.Temperature)
		}
		if assert.NotNil(t, req.MaxCompletionTokens) {
			assert.Equal(t, int64(256), *req.MaxCompletionTokens)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completion))
	})

	llm, err := openai.New(
		openai.WithProvider(llms.ProviderOllama),
		openai.WithBaseURL(srv.URL+"/v1"),
		openai.WithModel("qwen2.5:1.5b"),
		openai.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	resp, err := llm.GenerateContent(context.Background(),
		[]llms.Message{llms.SystemMessage("You are an analyst"), llms.HumanMessage("Analyze BTC")},
		llms.WithTemperature(0.3), llms.WithMaxTokens(256))
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "Bullish momentum.", resp.Choices[0].Content)
	assert.Equal(t, "stop", resp.Choices[0].StopReason)
	assert.Equal(t, int64(15), resp.Usage.TotalTokens)
}

func TestGenerateContentStreaming(t *testing.T) {
	chunks := []string{"Bull", "ish", " trend."}
	srv := chatServer(t, func(w http.ResponseWriter, req *chatRequest) {
		assert.True(t, req.Stream)
		w.Header().Set("Content-Type", "text/event-stream")
		for i, c := range chunks {
			finish := "null"
			if i == len(chunks)-1 {
				finish = `"stop"`
			}
			fmt.Fprintf(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1718000000,\"model\":\"m\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q},\"finish_reason\":%s}]}\n\n", c, finish)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	llm, err := openai.New(
		openai.WithToken("sk-test"),
		openai.WithBaseURL(srv.URL+"/v1/"),
		openai.WithHeader("X-Title", "coinagent"),
	)
	require.NoError(t, err)

	var got []string
	resp, err := llm.GenerateContent(context.Background(),
		[]llms.Message{llms.HumanMessage("Analyze BTC")},
		llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			got = append(got, string(chunk))
			return nil
		}))
	require.NoError(t, err)
	assert.Equal(t, chunks, got)
	assert.Equal(t, "Bullish trend.", resp.Choices[0].Content)
	assert.Equal(t, "stop", resp.Choices[0].StopReason)

	_, err = llm.GenerateContent(context.Background(),
		[]llms.Message{llms.HumanMessage("Analyze BTC")},
		llms.WithStreamingFunc(func(context.Context, []byte) error {
			return errors.New("client gone")
		}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client gone")
}

func TestGenerateContentErrors(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, req *chatRequest) {
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(req.Messages[0].Content, "empty") {
			_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid key","type":"auth"}}`))
	})

	llm, err := openai.New(openai.WithToken("bad"), openai.WithBaseURL(srv.URL+"/v1"))
	require.NoError(t, err)

	_, err = llm.GenerateContent(context.Background(), []llms.Message{llms.HumanMessage("hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat completion failed")

	_, err = llm.GenerateContent(context.Background(), []llms.Message{llms.HumanMessage("empty")})
	assert.True(t, errors.Is(err, llms.ErrEmptyResponse))

	_, err = llm.GenerateContent(context.Background(), []llms.Message{{Role: "tool", Content: "x"}})
	assert.EqualError(t, err, "role tool not supported")
}
