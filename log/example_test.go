package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/brickc/log"
)

func Example_basic() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none"), log.WithPretty(false))
	logger.Info("generated", slog.String("entry", "main"))
	// Output: {"level":"INFO","msg":"generated","entry":"main"}
}

func Example_levels() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelWarn),
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Debug("hidden")
	logger.Warn("shown", slog.Int("blocks", 3))
	// Output: level=WARN msg=shown blocks=3
}

func Example_withContext() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none"), log.WithPretty(false))
	logger = logger.Unit("check").With(slog.String("workspace", "demo.yaml"))

	logger.InfoContext(context.Background(), "loaded")
	// Output: {"level":"INFO","msg":"loaded","workspace":"demo.yaml","unit":"check"}
}
