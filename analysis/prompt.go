package analysis

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/effective-security/coinagent/market"
)

// SystemPrompt instructs the model to stay on the supplied data
const SystemPrompt = "You are a cryptocurrency market analyst. " +
	"Use only the market data given in the request. " +
	"Never provide estimated, fake, or historical data."

//go:embed prompt.tmpl
var promptTemplate string

var funcs = template.FuncMap{
	"money": func(v float64) string {
		return humanize.CommafWithDigits(v, 2)
	},
	"signed": func(v float64) string {
		return fmt.Sprintf("%+.2f", v)
	},
	"liquidity": func(level string) string {
		switch level {
		case "Very high":
			return "potential"
		case "High":
			return "moderate"
		default:
			return "lower"
		}
	},
}

var promptTmpl = template.Must(template.New("analysis").
	Funcs(sprig.TxtFuncMap()).
	Funcs(funcs).
	Parse(promptTemplate))

type promptData struct {
	Snapshot  *market.MarketSnapshot
	Sentiment Sentiment
}

// RenderPrompt returns the analysis request for the snapshot
func RenderPrompt(s *market.MarketSnapshot, st Sentiment) (string, error) {
	var b strings.Builder
	err := promptTmpl.Execute(&b, promptData{Snapshot: s, Sentiment: st})
	if err != nil {
		return "", errors.Wrap(err, "failed to render prompt")
	}
	return b.String(), nil
}
