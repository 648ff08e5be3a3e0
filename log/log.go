package log

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"
)

// UnitKey is the attribute key naming the brickc component a record came
// from. Nested units are joined with [UnitSep], as in "verify/scenario".
const (
	UnitKey = "unit"
	UnitSep = "/"
)

// Logger writes leveled records through a configurable slog handler.
// It is safe for concurrent use.
//
// The zero value is valid and discards every message.
type Logger struct {
	*slog.Logger
	config
}

// Make creates a [Logger] writing to w. Unset options take the package
// defaults ([DefaultFormat], [DefaultLevel], [DefaultTimeLayout],
// [DefaultPretty], no caller).
func Make(w io.Writer, opts ...Option) Logger {
	return build(makeConfig(w, opts...), nil)
}

// build pairs cfg with a handler. A nil base gets a fresh handler from cfg.
func build(cfg config, base slog.Handler) Logger {
	if base == nil {
		base = cfg.handler()
	}

	return Logger{Logger: slog.New(base), config: cfg}
}

// snapshot copies the receiver's configuration under its read lock.
func (l Logger) snapshot(opts ...Option) config {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return l.clone(opts...)
}

// Wrap returns a [Logger] configured like the receiver with opts applied
// on top. The unit is kept; attributes added with [Logger.With] are not.
func (l Logger) Wrap(opts ...Option) Logger {
	if l.mutex == nil {
		return Make(nil, opts...)
	}

	return build(l.snapshot(opts...), nil)
}

// With returns a [Logger] that adds attrs to every record.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.Logger == nil {
		return l
	}

	return build(l.snapshot(), l.Handler().WithAttrs(attrs))
}

// Unit returns a [Logger] whose records carry name under [UnitKey]. If the
// receiver already has a unit, name is appended to it.
func (l Logger) Unit(name string) Logger {
	if l.Logger == nil {
		return l
	}

	cfg := l.snapshot()
	if cfg.unit != "" {
		name = cfg.unit + UnitSep + name
	}

	cfg.unit = name

	return build(cfg, l.Handler())
}

// Level reports the minimum level written.
func (l Logger) Level() Level {
	if l.Logger == nil {
		return DefaultLevel
	}

	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return l.level
}

// Format reports the output format.
func (l Logger) Format() Format {
	if l.Logger == nil {
		return DefaultFormat
	}

	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return l.format
}

func (l Logger) TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, LevelTrace, msg, attrs)
}

func (l Logger) DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, LevelDebug, msg, attrs)
}

func (l Logger) InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, LevelInfo, msg, attrs)
}

func (l Logger) WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, LevelWarn, msg, attrs)
}

func (l Logger) ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, LevelError, msg, attrs)
}

// The context-free variants use [DefaultContextProvider].

func (l Logger) Trace(msg string, attrs ...slog.Attr) {
	l.emit(DefaultContextProvider(), LevelTrace, msg, attrs)
}

func (l Logger) Debug(msg string, attrs ...slog.Attr) {
	l.emit(DefaultContextProvider(), LevelDebug, msg, attrs)
}

func (l Logger) Info(msg string, attrs ...slog.Attr) {
	l.emit(DefaultContextProvider(), LevelInfo, msg, attrs)
}

func (l Logger) Warn(msg string, attrs ...slog.Attr) {
	l.emit(DefaultContextProvider(), LevelWarn, msg, attrs)
}

func (l Logger) Error(msg string, attrs ...slog.Attr) {
	l.emit(DefaultContextProvider(), LevelError, msg, attrs)
}

// Log writes msg at a level chosen at run time.
func (l Logger) Log(ctx context.Context, level Level, msg string, attrs ...slog.Attr) {
	l.emit(ctx, level, msg, attrs)
}

// emit is the single sink for every method above. It must be called directly
// from an exported method so the recorded caller is the user's code.
func (l Logger) emit(ctx context.Context, level Level, msg string, attrs []slog.Attr) {
	if l.Logger == nil {
		return
	}

	l.mutex.RLock()
	defer l.mutex.RUnlock()

	if !l.Enabled(ctx, slog.Level(level)) {
		return
	}

	// Skip runtime.Callers, emit and the exported method.
	var pcs [1]uintptr

	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), slog.Level(level), msg, pcs[0])
	if l.unit != "" {
		r.AddAttrs(slog.String(UnitKey, l.unit))
	}

	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}
