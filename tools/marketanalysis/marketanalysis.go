// Package marketanalysis provides the crypto-market-analysis tool:
// the market data of a coin followed by a written analysis from the model.
package marketanalysis

import (
	"context"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/coinagent/analysis"
	"github.com/effective-security/coinagent/coingecko"
	"github.com/effective-security/coinagent/market"
	"github.com/effective-security/coinagent/pkg/llmfactory"
	"github.com/effective-security/coinagent/pkg/schema"
	"github.com/effective-security/coinagent/tools"
)

const ToolName = "crypto-market-analysis"

const toolDescription = "Provides a market analysis of a cryptocurrency: current price data, " +
	"market sentiment, key insights, risk assessment and outlook. " +
	"Use it when the user asks to analyze a coin rather than only for its price."

// Request represents the tool input.
type Request struct {
	Token string `json:"token" yaml:"token" validate:"required" jsonschema:"title=Token,description=Cryptocurrency name or symbol to analyze,example=ETH"`
}

// Tool runs the price then analyze workflow
type Tool struct {
	name        string
	description string
	funcParams  any

	workflow *analysis.Workflow
}

var _ tools.Tool[Request, analysis.Report] = (*Tool)(nil)

// New returns the tool backed by the workflow
func New(workflow *analysis.Workflow) (*Tool, error) {
	sc, err := schema.New(reflect.TypeOf(Request{}))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create schema")
	}
	return &Tool{
		name:        ToolName,
		description: toolDescription,
		funcParams:  sc.Parameters,
		workflow:    workflow,
	}, nil
}

// NewFromHandle returns the tool using the selected model and a CoinGecko client
func NewFromHandle(h *llmfactory.Handle, cfg *coingecko.Config, opts ...analysis.Option) (*Tool, error) {
	if h == nil {
		return nil, errors.New("model handle is required")
	}
	svc := market.NewService(coingecko.New(cfg))
	return New(analysis.NewWorkflow(svc, analysis.NewAnalyzer(h.Model(), opts...)))
}

func (t *Tool) Name() string {
	return t.name
}

func (t *Tool) Description() string {
	return t.description
}

func (t *Tool) Parameters() any {
	return t.funcParams
}

func (t *Tool) Run(ctx context.Context, req *Request) (*analysis.Report, error) {
	if req == nil || req.Token == "" {
		return nil, errors.New("invalid request: empty token")
	}
	return t.workflow.Run(ctx, req.Token)
}

func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	return tools.Call[Request, analysis.Report](ctx, t, input)
}
