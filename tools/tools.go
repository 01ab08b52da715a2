package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/coinagent/pkg/llmutils"
	"github.com/effective-security/coinagent/pkg/metricskey"
	"github.com/go-playground/validator/v10"
)

//go:generate mockgen -source=tools.go -destination=../mocks/mocktools/tools_mock.gen.go -package mocktools

// ErrFailedUnmarshalInput is returned by Call when the input does not match the tool schema
var ErrFailedUnmarshalInput = errors.New("failed to unmarshal input: check the schema and try again")

// ITool is a tool for the llm agent to interact with different applications.
type ITool interface {
	// Name returns the name of the Tool.
	Name() string
	// Description returns the description of the tool, to be used in the prompt.
	Description() string
	// Parameters returns the JSON schema of the input, to be used in the prompt.
	Parameters() any

	// Call executes the tool with the given input and returns the result.
	// If the tool fails to parse the input, it returns ErrFailedUnmarshalInput error.
	Call(context.Context, string) (string, error)
}

// Callback observes tool calls
type Callback interface {
	OnToolStart(ctx context.Context, tool ITool, input string)
	OnToolEnd(ctx context.Context, tool ITool, input string, output string)
	OnToolError(ctx context.Context, tool ITool, input string, err error)
}

// Tool is an ITool with typed input and output
type Tool[I any, O any] interface {
	ITool
	Run(context.Context, *I) (*O, error)
}

var validate = validator.New()

// Validate checks the `validate` tags of the request
func Validate(req any) error {
	return validate.Struct(req)
}

// Call decodes and validates the JSON input, runs the tool and encodes the output.
// Typed tools use it to implement ITool.Call.
func Call[I any, O any](ctx context.Context, t Tool[I, O], input string) (string, error) {
	var req I
	if err := llmutils.UnmarshalInput(input, &req); err != nil {
		return "", errors.WithStack(ErrFailedUnmarshalInput)
	}
	if err := Validate(&req); err != nil {
		return "", errors.Wrap(ErrFailedUnmarshalInput, err.Error())
	}

	out, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}

	bs, err := json.Marshal(out)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal output")
	}
	return string(bs), nil
}

// Invoke calls the tool, notifies the callbacks and records metrics
func Invoke(ctx context.Context, tool ITool, input string, callbacks ...Callback) (string, error) {
	name := tool.Name()
	started := time.Now()
	defer metricskey.PerfToolCall.MeasureSince(started, name)

	for _, cb := range callbacks {
		cb.OnToolStart(ctx, tool, input)
	}

	out, err := tool.Call(ctx, input)
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, name)
		for _, cb := range callbacks {
			cb.OnToolError(ctx, tool, input, err)
		}
		return "", err
	}

	metricskey.StatsToolCallsSucceeded.IncrCounter(1, name)
	for _, cb := range callbacks {
		cb.OnToolEnd(ctx, tool, input, out)
	}
	return out, nil
}

type toolDescription struct {
	Name        string `json:"Name" yaml:"Name"`
	Description string `json:"Description" yaml:"Description"`
}

type toolsDescription struct {
	Tools []toolDescription `json:"Tools" yaml:"Tools"`
}

// GetDescriptions returns the JSON list of tool names and descriptions for a prompt
func GetDescriptions(list ...ITool) string {
	var d toolsDescription
	for _, tool := range list {
		d.Tools = append(d.Tools, toolDescription{
			Name:        tool.Name(),
			Description: tool.Description(),
		})
	}
	return llmutils.BackticksJSON(llmutils.ToJSONIndent(d))
}
