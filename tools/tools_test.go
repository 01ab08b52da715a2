package tools_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/coinagent/mocks/mocktools"
	"github.com/effective-security/coinagent/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type echoRequest struct {
	Text string `json:"text" validate:"required"`
}

type echoResult struct {
	Text string `json:"text"`
}

func TestCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	tool := mocktools.NewMockTool[echoRequest, echoResult](ctrl)

	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		tool.EXPECT().Run(gomock.Any(), &echoRequest{Text: "hi"}).Return(&echoResult{Text: "HI"}, nil)
		out, err := tools.Call[echoRequest, echoResult](ctx, tool, "Here: {\"text\":\"hi\"}")
		require.NoError(t, err)
		assert.Equal(t, `{"text":"HI"}`, out)
	})

	t.Run("bad json", func(t *testing.T) {
		_, err := tools.Call[echoRequest, echoResult](ctx, tool, "hi")
		require.Error(t, err)
		assert.True(t, errors.Is(err, tools.ErrFailedUnmarshalInput))
		assert.EqualError(t, err, "failed to unmarshal input: check the schema and try again")
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := tools.Call[echoRequest, echoResult](ctx, tool, `{"text":""}`)
		require.Error(t, err)
		assert.True(t, errors.Is(err, tools.ErrFailedUnmarshalInput))
		assert.Contains(t, err.Error(), "required")
	})

	t.Run("run error", func(t *testing.T) {
		tool.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil, errors.New("upstream"))
		_, err := tools.Call[echoRequest, echoResult](ctx, tool, `{"text":"x"}`)
		assert.EqualError(t, err, "upstream")
	})
}

func TestInvoke(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		tool := mocktools.NewMockITool(ctrl)
		cb := mocktools.NewMockCallback(ctrl)

		tool.EXPECT().Name().Return("echo").AnyTimes()
		gomock.InOrder(
			cb.EXPECT().OnToolStart(gomock.Any(), tool, "in"),
			tool.EXPECT().Call(gomock.Any(), "in").Return("out", nil),
			cb.EXPECT().OnToolEnd(gomock.Any(), tool, "in", "out"),
		)

		out, err := tools.Invoke(ctx, tool, "in", cb)
		require.NoError(t, err)
		assert.Equal(t, "out", out)
	})

	t.Run("error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		tool := mocktools.NewMockITool(ctrl)
		cb := mocktools.NewMockCallback(ctrl)
		boom := errors.New("boom")

		tool.EXPECT().Name().Return("echo").AnyTimes()
		cb.EXPECT().OnToolStart(gomock.Any(), tool, "in")
		tool.EXPECT().Call(gomock.Any(), "in").Return("", boom)
		cb.EXPECT().OnToolError(gomock.Any(), tool, "in", boom)

		_, err := tools.Invoke(ctx, tool, "in", cb)
		assert.Equal(t, boom, err)
	})
}

func TestDescriptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	t1 := mocktools.NewMockITool(ctrl)
	t1.EXPECT().Name().Return("get-crypto-price")
	t1.EXPECT().Description().Return("Get the price of a coin")

	exp := "\n```json" + `
{
	"Tools": [
		{
			"Name": "get-crypto-price",
			"Description": "Get the price of a coin"
		}
	]
}
` + "```\n"
	assert.Equal(t, exp, tools.GetDescriptions(t1))
}
