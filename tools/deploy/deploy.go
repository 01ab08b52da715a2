// Package deploy provides the nosana-deployment-cli tool, which builds
// the Nosana job-post command line and optionally runs it.
package deploy

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/coinagent/pkg/schema"
	"github.com/effective-security/coinagent/tools"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/coinagent", "deploy")

const ToolName = "nosana-deployment-cli"

const (
	// DefaultMarket is the GPU market used when none is given
	DefaultMarket = "nvidia-3060"
	// DefaultTimeoutMinutes is the job timeout used when none is given
	DefaultTimeoutMinutes = 30
	// JobDefinitionFile is the job definition posted to the market
	JobDefinitionFile = "./nos_job_def/nosana_mastra.json"
	// DefaultBinary is the Nosana CLI
	DefaultBinary = "nosana"

	// execGrace is added to the job timeout to bound the CLI process
	execGrace = 30 * time.Second
)

// ErrInvalidMarket is returned for market names that are not safe to pass to the CLI
var ErrInvalidMarket = errors.New("invalid market: use letters, digits, '.', '_', ':' or '-'")

var marketPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// Request represents the tool input.
type Request struct {
	Market  string `json:"market,omitempty" yaml:"market,omitempty" jsonschema:"title=Market,description=Nosana GPU market (default: nvidia-3060),default=nvidia-3060"`
	Timeout int    `json:"timeout,omitempty" yaml:"timeout,omitempty" validate:"omitempty,min=1,max=120" jsonschema:"title=Timeout,description=Timeout in minutes (default: 30),minimum=1,maximum=120,default=30"`
	Verbose bool   `json:"verbose,omitempty" yaml:"verbose,omitempty" jsonschema:"title=Verbose,description=Enable verbose output,default=false"`
	// UseAsync is accepted for compatibility, execution is always bounded and synchronous
	UseAsync *bool `json:"useAsync,omitempty" yaml:"useAsync,omitempty" jsonschema:"title=Use Async,description=Use async execution (recommended),default=true"`
}

// Result represents the tool output.
type Result struct {
	Success bool   `json:"success" yaml:"success"`
	Output  string `json:"output,omitempty" yaml:"output,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
	Stdout  string `json:"stdout,omitempty" yaml:"stdout,omitempty"`
	Stderr  string `json:"stderr,omitempty" yaml:"stderr,omitempty"`
}

// Tool deploys the agent to Nosana
type Tool struct {
	name        string
	description string
	funcParams  any

	execute bool
	binary  string
	workDir string
}

// ensure Tool implements the tools.Tool interface
var _ tools.Tool[Request, Result] = (*Tool)(nil)

// New returns the tool in direct mode: it returns the command without running it
func New() (*Tool, error) {
	sc, err := schema.New(reflect.TypeOf(Request{}))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create schema")
	}
	return &Tool{
		name:        ToolName,
		description: "Deploy to Nosana by running the nosana CLI directly with the provided GPU market and timeout.",
		funcParams:  sc.Parameters,
		binary:      DefaultBinary,
	}, nil
}

// WithExecute enables running the CLI
func (t *Tool) WithExecute(execute bool) *Tool {
	t.execute = execute
	return t
}

// WithBinary sets the CLI executable
func (t *Tool) WithBinary(binary string) *Tool {
	t.binary = binary
	return t
}

// WithWorkDir sets the directory the CLI runs in,
// the job definition path is relative to it
func (t *Tool) WithWorkDir(dir string) *Tool {
	t.workDir = dir
	return t
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

// Args returns the CLI arguments for the request, defaults applied
func Args(req *Request) ([]string, error) {
	mkt := values.StringsCoalesce(strings.TrimSpace(req.Market), DefaultMarket)
	if !marketPattern.MatchString(mkt) {
		return nil, errors.WithStack(ErrInvalidMarket)
	}
	timeout := values.NumbersCoalesce(req.Timeout, DefaultTimeoutMinutes)
	if timeout < 1 || timeout > 120 {
		return nil, errors.Newf("invalid timeout: %d minutes, must be within 1..120", timeout)
	}

	args := []string{
		"job", "post",
		"--file", JobDefinitionFile,
		"--market", mkt,
		"--timeout", strconv.Itoa(timeout),
	}
	if req.Verbose {
		args = append(args, "--verbose")
	}
	return args, nil
}

// Command returns the command line to run for the request
func Command(req *Request) (string, error) {
	args, err := Args(req)
	if err != nil {
		return "", err
	}
	return commandLine(DefaultBinary, args), nil
}

func commandLine(binary string, args []string) string {
	var b strings.Builder
	b.WriteString(binary)
	for i, a := range args {
		b.WriteByte(' ')
		// market value is quoted as operators copy it to a shell
		if i > 0 && args[i-1] == "--market" {
			fmt.Fprintf(&b, "%q", a)
			continue
		}
		b.WriteString(a)
	}
	return b.String()
}

func (t *Tool) Run(ctx context.Context, req *Request) (*Result, error) {
	if req == nil {
		req = new(Request)
	}
	args, err := Args(req)
	if err != nil {
		return nil, err
	}

	if !t.execute {
		cmd := commandLine(DefaultBinary, args)
		return &Result{
			Success: true,
			Output:  cmd,
			Stdout:  cmd,
		}, nil
	}

	timeout := values.NumbersCoalesce(req.Timeout, DefaultTimeoutMinutes)
	return t.run(ctx, args, time.Duration(timeout)*time.Minute+execGrace), nil
}

func (t *Tool) run(ctx context.Context, args []string, bound time.Duration) *Result {
	ctx, cancel := context.WithTimeout(ctx, bound)
	defer cancel()

	cmd := exec.CommandContext(ctx, t.binary, args...)
	cmd.Dir = t.workDir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.ContextKV(ctx, xlog.INFO,
		"status", "executing",
		"command", commandLine(t.binary, args),
		"bound", bound.String())

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			err = errors.WithMessagef(ctx.Err(), "command did not complete within %s", bound)
		}
		logger.ContextKV(ctx, xlog.ERROR,
			"reason", "command_failed",
			"err", err.Error())
		return &Result{
			Success: false,
			Error:   err.Error(),
			Stdout:  stdout.String(),
			Stderr:  stderr.String(),
		}
	}

	return &Result{
		Success: true,
		Output:  values.StringsCoalesce(stdout.String(), stderr.String(), "Job submitted successfully!"),
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
	}
}

func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	return tools.Call[Request, Result](ctx, t, input)
}
