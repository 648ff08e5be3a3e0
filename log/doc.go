// Package log is the structured logger shared by every brickc component,
// built on [log/slog].
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithTimeLayout("kitchen"))
//
//	gen := codegen.New(codegen.WithLogger(logger))
//
// Components tag their records with [Logger.Unit]. Units nest, so the
// scenario runner started by the verify command logs as "verify/scenario".
// [LevelTrace] sits below debug and carries per-node generator detail.
//
// A zero [Logger] discards everything, so library packages take a Logger
// option and stay silent by default. The CLI configures the process-wide
// logger returned by [Default] with [Config].
//
// Records are written as JSON ([FormatJSON], the default) or logfmt-style
// text ([FormatText]). With pretty output enabled, keys and values are
// styled with lipgloss when the writer is a color terminal.
package log
