package scenario

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/brickc/block"
	"github.com/ardnew/brickc/codegen"
	"github.com/ardnew/brickc/log"
	"github.com/ardnew/brickc/validate"
)

// Options are the generator settings a case may override in its "options"
// fence.
type Options struct {
	Indent   int    `yaml:"indent"`
	Header   string `yaml:"header"`
	Reserved string `yaml:"reserved"`
	Validate *bool  `yaml:"validate"`
}

func (c Case) options() (Options, error) {
	var o Options

	if strings.TrimSpace(c.Options) == "" {
		return o, nil
	}

	if err := yaml.UnmarshalWithOptions(
		[]byte(c.Options), &o, yaml.DisallowUnknownField(),
	); err != nil {
		return o, ErrOptions.With(slog.String("test", c.Name)).Wrap(err)
	}

	return o, nil
}

func (o Options) generator() ([]codegen.Option, error) {
	var opts []codegen.Option

	if o.Indent > 0 {
		opts = append(opts, codegen.WithIndent(o.Indent))
	}

	if o.Header != "" {
		opts = append(opts, codegen.WithHeader(o.Header))
	}

	if o.Reserved != "" {
		p, ok := codegen.ParseReservedPolicy(o.Reserved)
		if !ok {
			return nil, ErrOptions.With(slog.String("reserved", o.Reserved))
		}

		opts = append(opts, codegen.WithReservedPolicy(p))
	}

	return opts, nil
}

// Failure is an assertion that did not hold.
type Failure struct {
	Assertion Assertion
	Want      string
	Got       string
}

// Result is the outcome of one case.
type Result struct {
	Case     Case
	Program  *codegen.Program
	Findings []validate.Finding
	Err      error // decode or generation error
	Failures []Failure
}

// Passed reports whether every assertion of the case held.
func (r Result) Passed() bool { return len(r.Failures) == 0 }

// Option configures a [Runner].
type Option func(Runner) Runner

// WithLogger sets the logger used for trace output.
func WithLogger(l log.Logger) Option {
	return func(r Runner) Runner {
		r.logger = l.Unit("scenario")

		return r
	}
}

// WithGenerator adds generator options applied before each case's own
// options.
func WithGenerator(opts ...codegen.Option) Option {
	return func(r Runner) Runner {
		r.gen = append(r.gen[:len(r.gen):len(r.gen)], opts...)

		return r
	}
}

// Runner executes scenarios.
type Runner struct {
	logger log.Logger
	gen    []codegen.Option
}

// New returns a runner configured by opts.
func New(opts ...Option) Runner {
	var r Runner

	for _, opt := range opts {
		r = opt(r)
	}

	return r
}

// RunFile extracts and runs every case in the Markdown file at path.
func (r Runner) RunFile(ctx context.Context, path string) ([]Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	results, err := r.RunSource(ctx, source)
	if err != nil {
		return nil, ErrMalformed.With(slog.String("file", path)).Wrap(err)
	}

	return results, nil
}

// RunSource extracts and runs every case in a Markdown document.
func (r Runner) RunSource(ctx context.Context, source []byte) ([]Result, error) {
	cases, err := Extract(source)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(cases))

	for _, c := range cases {
		res, err := r.Run(ctx, c)
		if err != nil {
			return nil, err
		}

		results = append(results, res)
	}

	return results, nil
}

// Run executes one case. The returned error reports a case that cannot run,
// such as invalid options; decode and generation errors are part of the
// result and may be asserted with an "error" fence.
func (r Runner) Run(ctx context.Context, c Case) (Result, error) {
	o, err := c.options()
	if err != nil {
		return Result{}, err
	}

	genOpts, err := o.generator()
	if err != nil {
		return Result{}, err
	}

	res := Result{Case: c}

	r.logger.TraceContext(ctx, "scenario start",
		slog.String("test", c.Name),
		slog.Int("line", c.Line),
	)

	ws, err := block.Decode([]byte(c.Input))
	if err == nil {
		if o.Validate == nil || *o.Validate {
			res.Findings = validate.New(validate.WithLogger(r.logger)).Check(ctx, ws)
		}

		opts := append(append([]codegen.Option{codegen.WithLogger(r.logger)}, r.gen...), genOpts...)
		res.Program, err = codegen.Generate(ctx, ws, opts...)
	}

	res.Err = err
	res.Failures = res.compare()

	r.logger.TraceContext(ctx, "scenario done",
		slog.String("test", c.Name),
		slog.Bool("passed", res.Passed()),
	)

	return res, nil
}

func (r Result) compare() []Failure {
	var (
		out      []Failure
		expected bool
	)

	for _, a := range r.Case.Assertions {
		var want, got string

		switch a.Type {
		case AssertNQC:
			want = a.Content
			if r.Program != nil {
				got = r.Program.Text
			}

		case AssertWarnings:
			want = trimLines(a.Content)
			got = joinLines(r.Findings)

		case AssertDiagnostics:
			want = trimLines(a.Content)
			if r.Program != nil {
				got = joinLines(r.Program.Diagnostics)
			}

		case AssertError:
			expected = true
			want = strings.TrimSpace(a.Content)

			if r.Err != nil && strings.Contains(r.Err.Error(), want) {
				continue
			}

			if r.Err != nil {
				got = r.Err.Error()
			}

			out = append(out, Failure{Assertion: a, Want: want, Got: got})

			continue
		}

		if want != got {
			out = append(out, Failure{Assertion: a, Want: want, Got: got})
		}
	}

	if r.Err != nil && !expected {
		out = append(out, Failure{
			Assertion: Assertion{Type: AssertError, Line: r.Case.Line},
			Got:       r.Err.Error(),
		})
	}

	return out
}

func trimLines(s string) string {
	return strings.TrimRight(s, "\n")
}

func joinLines[T interface{ String() string }](items []T) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.String()
	}

	return strings.Join(parts, "\n")
}
