package preview

import (
	"context"
	"log/slog"
	"os"
	"regexp"

	"github.com/ardnew/brickc/block"
	"github.com/ardnew/brickc/codegen"
	"github.com/ardnew/brickc/log"
	"github.com/ardnew/brickc/validate"
)

// Result is one rendering of the workspace document.
type Result struct {
	Text     string
	Warnings []string
	Headers  []Header
}

// Header is the first line of a subprogram in the generated text.
type Header struct {
	Name string
	Line int // 0-based
}

// Loader renders the workspace document on demand.
type Loader func(ctx context.Context) (Result, error)

// FileLoader returns a [Loader] that decodes the workspace document at path,
// applies the workspace rules when check is set, and generates it with opts.
func FileLoader(path string, check bool, logger log.Logger, opts ...codegen.Option) Loader {
	return func(ctx context.Context) (Result, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return Result{}, err
		}

		ws, err := block.Decode(data)
		if err != nil {
			return Result{}, err
		}

		var res Result

		if check {
			for _, f := range validate.New(validate.WithLogger(logger)).Check(ctx, ws) {
				res.Warnings = append(res.Warnings, f.String())
			}
		}

		prog, err := codegen.Generate(ctx, ws, opts...)
		if err != nil {
			return Result{}, err
		}

		for _, d := range prog.Diagnostics {
			res.Warnings = append(res.Warnings, d.String())
		}

		res.Text = prog.Text
		res.Headers = headers(prog.Text)

		logger.TraceContext(ctx, "preview loaded",
			slog.String("file", path),
			slog.Int("headers", len(res.Headers)),
			slog.Int("warnings", len(res.Warnings)),
		)

		return res, nil
	}
}

var headerPattern = regexp.MustCompile(`^(task|sub) ([A-Za-z_][A-Za-z0-9_]*)\(\)$`)

// headers returns the subprogram headers of text in order.
func headers(text string) []Header {
	var out []Header

	for i, line := range splitLines(text) {
		if m := headerPattern.FindStringSubmatch(line); m != nil {
			out = append(out, Header{Name: m[2], Line: i})
		}
	}

	return out
}
