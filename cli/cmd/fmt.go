package cmd

import (
	"context"
	"io"
	"log/slog"
)

// Fmt normalizes a workspace document or prints its node tree.
type Fmt struct {
	YAML YAML `cmd:"" default:"withargs" help:"Format as YAML (default)."`
	JSON JSON `cmd:""                    help:"Format as JSON."`
	Tree Tree `cmd:""                    help:"Print the node tree."`
}

// YAML re-encodes a workspace document as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output (0 for flow style)." name:"doc-indent" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`

	out io.Writer
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ws, err := readWorkspace(y.Source)
	if err != nil {
		return err
	}

	if err := ws.EncodeYAML(ctx, stdout(y.out), y.Indent); err != nil {
		return ErrYAMLMarshal.With(slog.String("source", y.Source)).Wrap(err)
	}

	return nil
}

// JSON re-encodes a workspace document as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output (0 for compact)." name:"doc-indent" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`

	out io.Writer
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ws, err := readWorkspace(j.Source)
	if err != nil {
		return err
	}

	if err := ws.EncodeJSON(stdout(j.out), j.Indent); err != nil {
		return ErrJSONMarshal.With(slog.String("source", j.Source)).Wrap(err)
	}

	return nil
}

// Tree prints the nodes of a workspace document, one per line.
type Tree struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`

	out io.Writer
}

// Run executes the tree command.
func (t *Tree) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ws, err := readWorkspace(t.Source)
	if err != nil {
		return err
	}

	return ws.Print(stdout(t.out))
}
