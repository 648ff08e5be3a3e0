package cmd

import (
	"github.com/ardnew/brickc/pkg"
)

// Predefined errors (sentinel values).
var (
	ErrReadWorkspace = pkg.NewError("read workspace")
	ErrWriteOutput   = pkg.NewError("write output")
	ErrJSONMarshal   = pkg.NewError("marshal JSON")
	ErrYAMLMarshal   = pkg.NewError("marshal YAML")
	ErrWriteConfig   = pkg.NewError("write configuration file")
	ErrFileExists    = pkg.NewError("file exists (use --force to overwrite)")
	ErrFindings      = pkg.NewError("workspace has rule violations")
	ErrVerify        = pkg.NewError("scenarios failed")
	ErrDownload      = pkg.NewError("download failed")
)
