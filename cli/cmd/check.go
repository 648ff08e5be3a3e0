package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/brickc/log"
	"github.com/ardnew/brickc/validate"
)

// Check applies the workspace rules and lists every flagged node.
type Check struct {
	Source string `arg:"" default:"-" help:"Workspace document or '-' for stdin." name:"source"`

	out io.Writer
}

// Run executes the check command. It fails with [ErrFindings] when any node
// breaks a rule.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ws, err := readWorkspace(c.Source)
	if err != nil {
		return err
	}

	found := validate.New(validate.WithLogger(log.Unit("check"))).Check(ctx, ws)

	w := stdout(c.out)
	for _, f := range found {
		if _, err := fmt.Fprintln(w, f); err != nil {
			return err
		}
	}

	if len(found) > 0 {
		return ErrFindings.With(
			slog.String("source", c.Source),
			slog.Int("count", len(found)),
		)
	}

	return nil
}
