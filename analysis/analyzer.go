package analysis

import (
	"context"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/coinagent/encoding"
	"github.com/effective-security/coinagent/market"
	"github.com/effective-security/coinagent/pkg/llms"
	"github.com/effective-security/xlog"
	"github.com/google/uuid"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/coinagent", "analysis")

// ErrNoSnapshot is returned when there is nothing to analyze
var ErrNoSnapshot = errors.New("market data is required")

// Report is the outcome of an analysis
type Report struct {
	ID        string                 `json:"id" yaml:"id"`
	Snapshot  *market.MarketSnapshot `json:"snapshot" yaml:"snapshot"`
	Sentiment Sentiment              `json:"sentiment" yaml:"sentiment"`
	Model     string                 `json:"model" yaml:"model"`
	Analysis  string                 `json:"analysis" yaml:"analysis"`
}

// Option configures the Analyzer
type Option func(*Analyzer)

// WithWriter streams the analysis to w as the model produces it
func WithWriter(w io.Writer) Option {
	return func(a *Analyzer) {
		a.out = w
	}
}

// WithCallOptions passes options to each model call
func WithCallOptions(opts ...llms.CallOption) Option {
	return func(a *Analyzer) {
		a.callOpts = append(a.callOpts, opts...)
	}
}

// Analyzer asks the model for a market analysis of a snapshot
type Analyzer struct {
	model    llms.Model
	out      io.Writer
	callOpts []llms.CallOption
}

// NewAnalyzer returns the analyzer backed by the model
func NewAnalyzer(model llms.Model, opts ...Option) *Analyzer {
	a := &Analyzer{model: model}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze returns the report of the snapshot
func (a *Analyzer) Analyze(ctx context.Context, snapshot *market.MarketSnapshot) (*Report, error) {
	if snapshot == nil {
		return nil, errors.WithStack(ErrNoSnapshot)
	}

	st := NewSentiment(snapshot)
	prompt, err := RenderPrompt(snapshot, st)
	if err != nil {
		return nil, err
	}

	opts := a.callOpts
	if a.out != nil {
		out := a.out
		opts = append(opts[:len(opts):len(opts)], llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			_, err := out.Write(chunk)
			return err
		}))
	}

	id := uuid.NewString()
	started := time.Now()
	text, err := llms.GenerateFromSinglePrompt(ctx, a.model, SystemPrompt, prompt, opts...)
	if err != nil {
		logger.ContextKV(ctx, xlog.ERROR,
			"reason", "generate",
			"coin", snapshot.Name,
			"model", a.model.GetName(),
			"err", err.Error())
		return nil, errors.WithMessagef(err, "failed to analyze %s", snapshot.Name)
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "analyzed",
		"id", id,
		"coin", snapshot.Name,
		"model", a.model.GetName(),
		"trend", st.Trend,
		"elapsed", time.Since(started).String())

	return &Report{
		ID:        id,
		Snapshot:  snapshot,
		Sentiment: st,
		Model:     a.model.GetName(),
		Analysis:  text,
	}, nil
}

// Encode returns the report in the encoding mode: json, yaml or toml
func (r *Report) Encode(mode encoding.Mode) ([]byte, error) {
	return encoding.Marshal(mode, r)
}
