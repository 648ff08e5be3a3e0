package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/brickc/log"
	"github.com/ardnew/brickc/scenario"
)

//nolint:gochecknoglobals
var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Verify runs Markdown golden scenarios against the generator.
type Verify struct {
	Quiet bool `help:"Only report failing scenarios." short:"q"`

	Files []string `arg:"" help:"Markdown scenario documents." name:"file" type:"existingfile"`

	out io.Writer
}

// Run executes the verify command. It fails with [ErrVerify] when any
// scenario fails.
func (v *Verify) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Unit("verify")
	runner := scenario.New(
		scenario.WithLogger(logger),
		scenario.WithGenerator(codegenFrom(ctx).Options(logger)...),
	)

	w := stdout(v.out)

	var passed, failed int

	for _, file := range v.Files {
		results, err := runner.RunFile(ctx, file)
		if err != nil {
			return err
		}

		for _, res := range results {
			if res.Passed() {
				passed++

				if !v.Quiet {
					fmt.Fprintf(w, "%s %s: %s\n", passStyle.Render("PASS"), file, res.Case.Name)
				}

				continue
			}

			failed++

			fmt.Fprintf(w, "%s %s:%d: %s\n",
				failStyle.Render("FAIL"), file, res.Case.Line, res.Case.Name)

			for _, f := range res.Failures {
				fmt.Fprintf(w, "  %s\n", hintStyle.Render(string(f.Assertion.Type)+" mismatch"))
				fmt.Fprintf(w, "    want: %s\n", quoteLines(f.Want))
				fmt.Fprintf(w, "    got:  %s\n", quoteLines(f.Got))
			}
		}
	}

	level := log.LevelDebug
	if failed > 0 {
		level = log.LevelWarn
	}

	logger.Log(ctx, level, "verify complete",
		slog.Int("passed", passed),
		slog.Int("failed", failed),
	)

	if failed > 0 {
		return ErrVerify.With(slog.Int("passed", passed), slog.Int("failed", failed))
	}

	return nil
}

func quoteLines(s string) string {
	if s == "" {
		return "(empty)"
	}

	return strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "\n          ")
}
