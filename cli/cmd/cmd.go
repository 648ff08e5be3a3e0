package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/brickc/block"
	"github.com/ardnew/brickc/codegen"
	"github.com/ardnew/brickc/log"
	"github.com/ardnew/brickc/validate"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable name, or "" outside a kong run.
func kongVar(ctx context.Context, name string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil || ktx.Model == nil {
		return ""
	}

	return ktx.Model.Vars()[name]
}

// Codegen holds the generator settings shared by every command.
type Codegen struct {
	Indent   int    `default:"2"      help:"Spaces per nesting level."                                          placeholder:"N"`
	Header   string `                 help:"Text placed as comments above the program."`
	Reserved string `default:"reject" help:"Handling of names that collide with NQC reserved words (${enum})." enum:"reject,rename"`
}

// Group returns the help group of the generator flags.
func (Codegen) Group() kong.Group {
	return kong.Group{Key: "gen", Title: "Generator options"}
}

// Options returns the generator options selected by c.
func (c Codegen) Options(logger log.Logger) []codegen.Option {
	opts := []codegen.Option{
		codegen.WithLogger(logger),
		codegen.WithIndent(c.Indent),
		codegen.WithHeader(c.Header),
	}

	if p, ok := codegen.ParseReservedPolicy(c.Reserved); ok {
		opts = append(opts, codegen.WithReservedPolicy(p))
	}

	return opts
}

type codegenKey struct{}

// WithCodegen returns a new context.Context carrying the generator settings.
func WithCodegen(ctx context.Context, c Codegen) context.Context {
	return context.WithValue(ctx, codegenKey{}, c)
}

func codegenFrom(ctx context.Context) Codegen {
	c, ok := ctx.Value(codegenKey{}).(Codegen)
	if !ok {
		return Codegen{Indent: codegen.DefaultIndent, Reserved: "reject"}
	}

	return c
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// readWorkspace decodes the workspace document at path, or stdin for "-".
func readWorkspace(path string) (*block.Workspace, error) {
	var r io.Reader = os.Stdin

	if path != stdinSource {
		f, err := os.Open(path)
		if err != nil {
			return nil, ErrReadWorkspace.With(slog.String("file", path)).Wrap(err)
		}
		defer f.Close()

		r = f
	}

	ws, err := block.Read(r)
	if err != nil {
		return nil, ErrReadWorkspace.With(slog.String("file", path)).Wrap(err)
	}

	return ws, nil
}

// writeOutput writes text to the file at path, or to w for "-".
func writeOutput(w io.Writer, path, text string) error {
	if path == "" || path == stdinSource {
		_, err := io.WriteString(w, text)

		return err
	}

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil { //nolint:gosec
		return ErrWriteOutput.With(slog.String("file", path)).Wrap(err)
	}

	return nil
}

func stdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}

	return w
}

func stderr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}

	return w
}

// generate reads the workspace at source, optionally applies the workspace
// rules, and renders it. Findings and diagnostics are logged as warnings.
func generate(
	ctx context.Context,
	source string,
	check bool,
) (*codegen.Program, error) {
	logger := log.Unit("gen")

	ws, err := readWorkspace(source)
	if err != nil {
		return nil, err
	}

	if check {
		for _, f := range validate.New(validate.WithLogger(logger)).Check(ctx, ws) {
			logger.WarnContext(ctx, "node disabled", slog.Any("finding", f))
		}
	}

	prog, err := codegen.Generate(ctx, ws, codegenFrom(ctx).Options(logger)...)
	if err != nil {
		return nil, err
	}

	for _, d := range prog.Diagnostics {
		logger.WarnContext(ctx, "diagnostic", slog.Any("diagnostic", d))
	}

	logger.DebugContext(ctx, "generated",
		slog.String("source", source),
		slog.Int("lines", strings.Count(prog.Text, "\n")),
		slog.Int("scopes", len(prog.Scopes)),
	)

	return prog, nil
}
