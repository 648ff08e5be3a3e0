package cmd

import (
	"context"
	"io"
)

// Gen renders a workspace document as an NQC program.
type Gen struct {
	Output   string `default:"-"    help:"Output file or '-' for stdout."            short:"o"   type:"path"`
	Validate bool   `default:"true" help:"Apply workspace rules before generating." negatable:""`

	Source string `arg:"" default:"-" help:"Workspace document or '-' for stdin." name:"source"`

	out io.Writer
}

// Run executes the gen command.
func (g *Gen) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := generate(ctx, g.Source, g.Validate)
	if err != nil {
		return err
	}

	return writeOutput(stdout(g.out), g.Output, prog.Text)
}
