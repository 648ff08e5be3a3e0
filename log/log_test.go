package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.Level() != LevelInfo {
		t.Errorf("expected default level info, got %v", logger.Level())
	}
	if logger.caller {
		t.Error("expected caller disabled by default")
	}
	if logger.Format() != FormatJSON {
		t.Errorf("expected default format json, got %v", logger.Format())
	}
}

func TestLogger_ZeroValue_Discards(t *testing.T) {
	var logger Logger

	// Must not panic.
	logger.Info("dropped")
	logger.TraceContext(context.Background(), "dropped")

	if logger.Level() != DefaultLevel {
		t.Errorf("expected %v, got %v", DefaultLevel, logger.Level())
	}

	same := logger.With(slog.String("k", "v")).Unit("codegen")
	if same.Logger != nil {
		t.Error("With and Unit on zero value should stay zero")
	}
}

func TestLogger_WithLevel_FiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelTrace), WithPretty(false))

	logger.Trace("trace message")
	if !strings.Contains(buf.String(), "trace message") {
		t.Error("trace message not logged at trace level")
	}
	if !strings.Contains(buf.String(), `"TRACE"`) {
		t.Errorf("expected TRACE level name, got %s", buf.String())
	}

	buf.Reset()
	logger = Make(&buf, WithLevel(LevelError))
	logger.Info("info message")
	if buf.Len() > 0 {
		t.Error("info message logged when level is error")
	}

	logger.Error("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message not logged at error level")
	}
}

func TestLogger_WithCaller_IncludesSource(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithCaller(true), WithPretty(false))
	logger.Info("test message")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("expected caller file in output, got %s", buf.String())
	}

	buf.Reset()
	logger = Make(&buf, WithCaller(false), WithPretty(false))
	logger.Info("test message")

	if strings.Contains(buf.String(), "source") {
		t.Error("caller info included when disabled")
	}
}

func TestLogger_WithFormat_SetsOutputFormat(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatJSON), WithPretty(false))
		logger.Info("test message", slog.String("key", "value"))

		var result map[string]any
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse JSON output: %v", err)
		}
		if result["msg"] != "test message" {
			t.Errorf("expected msg=test message, got %v", result["msg"])
		}
		if result["key"] != "value" {
			t.Errorf("expected key=value, got %v", result["key"])
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatText), WithPretty(false))
		logger.Info("test message", slog.String("key", "value"))

		if !strings.Contains(buf.String(), "key=value") {
			t.Errorf("expected key=value in text output, got %s", buf.String())
		}
	})

	t.Run("pretty text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatText), WithPretty(true))
		logger.Info("test message", slog.Int("n", 3))

		out := buf.String()
		for _, want := range []string{"test message", "INFO", "3"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in %q", want, out)
			}
		}
	})

	t.Run("pretty json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatJSON), WithPretty(true))
		logger.Warn("careful", slog.Bool("ok", false))

		out := buf.String()
		if !strings.HasPrefix(out, "{\n") || !strings.HasSuffix(out, "\n}\n") {
			t.Errorf("expected braced block, got %q", out)
		}
		if !strings.Contains(out, "careful") {
			t.Errorf("expected message in %q", out)
		}
	})
}

func TestLogger_WithTimeLayout_None(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithTimeLayout("none"), WithPretty(false))
	logger.Info("no time")

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}
	if _, ok := result["time"]; ok {
		t.Errorf("expected no time field, got %v", result["time"])
	}
}

func TestLogger_Unit_PersistsAttribute(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithPretty(false)).Unit("codegen")

	logger.Info("first")
	logger.Info("second")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if !strings.Contains(line, `"unit":"codegen"`) {
			t.Errorf("missing persistent attribute in %s", line)
		}
	}
}

func TestLogger_Log_RuntimeLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelWarn), WithPretty(false))

	for _, level := range []Level{LevelDebug, LevelWarn, LevelError} {
		logger.Log(context.Background(), level, "verify failed")
	}

	out := buf.String()
	if strings.Contains(out, `"DEBUG"`) {
		t.Errorf("debug record written below warn: %s", out)
	}
	if strings.Count(out, "verify failed") != 2 {
		t.Errorf("expected warn and error records, got %s", out)
	}
}

func TestLogger_Unit_Nests(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithPretty(false)).Unit("verify").Unit("scenario").Unit("codegen")

	logger.Info("generate start")

	out := buf.String()
	if !strings.Contains(out, `"unit":"verify/scenario/codegen"`) {
		t.Errorf("expected composed unit, got %s", out)
	}
	if strings.Count(out, `"unit"`) != 1 {
		t.Errorf("unit key repeated: %s", out)
	}
}

func TestLogger_Wrap_KeepsUnitDropsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithPretty(false)).
		Unit("preview").
		With(slog.String("file", "demo.yaml")).
		Wrap(WithLevel(LevelDebug))

	logger.Debug("reload")

	out := buf.String()
	if strings.Contains(out, "demo.yaml") {
		t.Errorf("wrap kept attributes: %s", out)
	}
	if !strings.Contains(out, `"unit":"preview"`) || !strings.Contains(out, "reload") {
		t.Errorf("expected debug record with unit, got %s", out)
	}
}

func TestLogger_Wrap_OverridesBase(t *testing.T) {
	var buf bytes.Buffer
	base := Make(&buf, WithLevel(LevelWarn))
	wrapped := base.Wrap(WithLevel(LevelDebug))

	if base.Level() != LevelWarn {
		t.Errorf("base level changed to %v", base.Level())
	}
	if wrapped.Level() != LevelDebug {
		t.Errorf("expected wrapped level debug, got %v", wrapped.Level())
	}
}

func TestLogger_ConcurrentUse(t *testing.T) {
	var buf safeBuffer
	logger := Make(&buf, WithPretty(false))

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("concurrent", slog.Int("i", i))
		}()
	}
	wg.Wait()

	if n := strings.Count(buf.String(), "\n"); n != 16 {
		t.Errorf("expected 16 lines, got %d", n)
	}
}

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}
