package cmd

import (
	"context"
	"path/filepath"

	"github.com/ardnew/brickc/cli/cmd/preview"
	"github.com/ardnew/brickc/log"
)

// Preview shows the generated program in an interactive terminal view.
type Preview struct {
	Validate bool `default:"true" help:"Apply workspace rules before generating." negatable:""`

	Source string `arg:"" help:"Workspace document." name:"source" type:"existingfile"`
}

// Run executes the preview command.
func (p *Preview) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Unit("preview")
	load := preview.FileLoader(
		p.Source, p.Validate, logger, codegenFrom(ctx).Options(logger)...,
	)

	return preview.Run(ctx, filepath.Base(p.Source), load, logger)
}
