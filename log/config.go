package log

import (
	"io"
	"iter"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a record. It extends [slog.Level] with
// [LevelTrace], used for per-node generator output.
type Level slog.Level

const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// DefaultLevel is used when a level name does not parse.
const DefaultLevel = LevelInfo

// levelNames lists the named levels from least to most severe.
var levelNames = []struct { //nolint:gochecknoglobals
	level Level
	name  string
}{
	{LevelTrace, "trace"},
	{LevelDebug, "debug"},
	{LevelInfo, "info"},
	{LevelWarn, "warn"},
	{LevelError, "error"},
}

func (l Level) String() string {
	for _, n := range levelNames {
		if n.level == l {
			return n.name
		}
	}

	return strings.ToLower(slog.Level(l).String())
}

// Levels yields the level names accepted by [ParseLevel], in severity order.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, n := range levelNames {
			if !yield(n.name) {
				return
			}
		}
	}
}

// ParseLevel returns the level named by s, case-insensitively. Offsets such
// as "warn+2" are accepted as by [slog.Level.UnmarshalText]. Anything else
// yields [DefaultLevel].
func ParseLevel(s string) Level {
	if strings.EqualFold(s, "trace") {
		return LevelTrace
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format selects the record encoding.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is used when a format name does not parse.
const DefaultFormat = FormatJSON

var formatNames = map[Format]string{ //nolint:gochecknoglobals
	FormatJSON: "json",
	FormatText: "text",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}

	return "unknown"
}

// Formats yields the format names accepted by [ParseFormat], default first.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, f := range []Format{FormatJSON, FormatText} {
			if !yield(f.String()) {
				return
			}
		}
	}
}

// ParseFormat returns the format named by s, ignoring case and surrounding
// space, or [DefaultFormat].
func ParseFormat(s string) Format {
	s = strings.ToLower(strings.TrimSpace(s))

	for f, name := range formatNames {
		if name == s {
			return f
		}
	}

	return DefaultFormat
}

// FormatTime renders a record timestamp. An empty result drops the field.
type FormatTime func(time.Time) string

const (
	DefaultTimeLayout = time.RFC3339
	DefaultCaller     = false
	DefaultPretty     = true
)

// config is the mutable state behind a Logger. Every Logger derived with
// Wrap, With or Unit gets its own mutex.
type config struct {
	mutex      *sync.RWMutex
	output     io.Writer
	formatTime FormatTime
	unit       string
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

// Option adjusts a logger configuration.
type Option func(config) config

func makeConfig(w io.Writer, opts ...Option) config {
	if w == nil {
		w = io.Discard
	}

	c := config{
		mutex:      &sync.RWMutex{},
		output:     w,
		formatTime: makeFormatTimeFunc(DefaultTimeLayout),
		level:      DefaultLevel,
		format:     DefaultFormat,
		caller:     DefaultCaller,
		pretty:     DefaultPretty,
	}

	return c.apply(opts)
}

// clone copies c with a fresh mutex and applies opts to the copy.
func (c config) clone(opts ...Option) config {
	c.mutex = &sync.RWMutex{}

	return c.apply(opts)
}

func (c config) apply(opts []Option) config {
	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

// set builds an Option that mutates the config under its write lock.
func set(f func(*config)) Option {
	return func(c config) config {
		if c.mutex == nil {
			c.mutex = &sync.RWMutex{}
		}

		c.mutex.Lock()
		defer c.mutex.Unlock()

		f(&c)

		return c
	}
}

// WithLevel discards records below level.
func WithLevel(level Level) Option {
	return set(func(c *config) { c.level = level })
}

func WithFormat(format Format) Option {
	return set(func(c *config) { c.format = format })
}

// WithCaller adds the source position of the logging call to each record.
func WithCaller(enable bool) Option {
	return set(func(c *config) { c.caller = enable })
}

// WithPretty styles output with lipgloss when the writer is a color
// terminal.
func WithPretty(enable bool) Option {
	return set(func(c *config) { c.pretty = enable })
}

// WithTimeLayout sets the timestamp layout. Named layouts from package time
// ("RFC3339", "Kitchen", "DateTime", ...) and the short names "ms", "us" and
// "ns" are matched ignoring case and punctuation. Other strings are used as
// a [time.Time.Format] layout. "none" or "" omits timestamps.
func WithTimeLayout(layout string) Option {
	format := makeFormatTimeFunc(layout)

	return set(func(c *config) { c.formatTime = format })
}

// handler builds the slog handler for the current settings.
func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   c.caller,
		Level:       slog.Level(c.level),
		ReplaceAttr: c.replaceAttr,
	}

	switch {
	case c.pretty && c.format == FormatText:
		return newPrettyTextHandler(c.output, opts, c.formatTime)
	case c.pretty && c.format == FormatJSON:
		return newPrettyJSONHandler(c.output, opts, c.formatTime)
	case c.format == FormatJSON:
		return slog.NewJSONHandler(c.output, opts)
	case c.format == FormatText:
		return slog.NewTextHandler(c.output, opts)
	default:
		return slog.DiscardHandler
	}
}

// replaceAttr applies the time layout and upper-cases level names, so trace
// records read "TRACE" rather than "DEBUG-4".
func (c config) replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		t, ok := a.Value.Any().(time.Time)
		if !ok {
			break
		}

		ts := c.formatTime(t)
		if ts == "" {
			return slog.Attr{}
		}

		a.Value = slog.StringValue(ts)

	case slog.LevelKey:
		if l, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(strings.ToUpper(Level(l).String()))
		}
	}

	return a
}

var namedLayouts = map[string]string{ //nolint:gochecknoglobals
	"none":        "",
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"rfc822":      time.RFC822,
	"rfc822z":     time.RFC822Z,
	"rfc850":      time.RFC850,
	"rfc1123":     time.RFC1123,
	"rfc1123z":    time.RFC1123Z,
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rubydate":    time.RubyDate,
	"kitchen":     time.Kitchen,
	"datetime":    time.DateTime,
	"dateonly":    time.DateOnly,
	"timeonly":    time.TimeOnly,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"stampmicro":  time.StampMicro,
	"stampnano":   time.StampNano,
	"ms":          time.StampMilli,
	"us":          time.StampMicro,
	"ns":          time.StampNano,
}

func makeFormatTimeFunc(layout string) FormatTime {
	key := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}

		return -1
	}, strings.ToLower(layout))

	if named, ok := namedLayouts[key]; ok {
		layout = named
	}

	if key == "" || layout == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}
