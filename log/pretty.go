package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Styles used by the pretty handlers.
var (
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stringStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	numberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	trueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	falseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	durStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	levelStyle  = map[Level]lipgloss.Style{
		LevelTrace: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

func renderLevel(l slog.Level) string {
	name := strings.ToUpper(Level(l).String())

	style, ok := levelStyle[Level(l)]
	if !ok {
		switch {
		case l >= slog.LevelError:
			style = levelStyle[LevelError]
		case l >= slog.LevelWarn:
			style = levelStyle[LevelWarn]
		case l >= slog.LevelInfo:
			style = levelStyle[LevelInfo]
		default:
			style = levelStyle[LevelDebug]
		}
	}

	return style.Render(name)
}

// renderValue styles a resolved slog value according to its kind.
func renderValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return stringStyle.Render(v.String())

	case slog.KindInt64:
		return numberStyle.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return numberStyle.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return numberStyle.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return trueStyle.Render("true")
		}

		return falseStyle.Render("false")

	case slog.KindDuration:
		return durStyle.Render(v.Duration().String())

	case slog.KindTime:
		return timeStyle.Render(v.Time().String())

	case slog.KindGroup:
		parts := make([]string, 0, len(v.Group()))
		for _, a := range v.Group() {
			parts = append(parts, keyStyle.Render(a.Key)+"="+renderValue(a.Value.Resolve()))
		}

		return "{" + strings.Join(parts, " ") + "}"

	default:
		return stringStyle.Render(fmt.Sprint(v.Any()))
	}
}

// prettyHandler holds state shared by the pretty text and JSON handlers.
type prettyHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr
	groups     []string
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// fields flattens a record into ordered key/value pairs, starting with the
// standard time, level, source and message fields.
func (h *prettyHandler) fields(r slog.Record) [][2]string {
	var out [][2]string

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			out = append(out, [2]string{slog.TimeKey, timeStyle.Render(ts)})
		}
	}

	out = append(out, [2]string{slog.LevelKey, renderLevel(r.Level)})

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			out = append(out, [2]string{
				slog.SourceKey,
				stringStyle.Render(fmt.Sprintf("%s:%d", src.File, src.Line)),
			})
		}
	}

	out = append(out, [2]string{slog.MessageKey, stringStyle.Render(r.Message)})

	prefix := strings.Join(h.groups, ".")
	if prefix != "" {
		prefix += "."
	}

	add := func(a slog.Attr) bool {
		if a.Equal(slog.Attr{}) {
			return true
		}

		out = append(out, [2]string{prefix + a.Key, renderValue(a.Value.Resolve())})

		return true
	}

	for _, a := range h.attrs {
		add(a)
	}

	r.Attrs(add)

	return out
}

func (h *prettyHandler) write(buf *bytes.Buffer) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) with(attrs []slog.Attr, group string) prettyHandler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)

	if group != "" {
		c.groups = append(h.groups[:len(h.groups):len(h.groups)], group)
	}

	return c
}

// prettyTextHandler writes one styled key=value line per record.
type prettyTextHandler struct{ prettyHandler }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyTextHandler {
	return &prettyTextHandler{prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for i, kv := range h.fields(r) {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(keyStyle.Render(kv[0]))
		buf.WriteByte('=')
		buf.WriteString(kv[1])
	}

	buf.WriteByte('\n')

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.with(attrs, "")}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.with(nil, name)}
}

// prettyJSONHandler writes one indented, styled object per record. The
// output is meant for people, so values are not quoted.
type prettyJSONHandler struct{ prettyHandler }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyJSONHandler {
	return &prettyJSONHandler{prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{\n")

	for i, kv := range h.fields(r) {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		buf.WriteString(keyStyle.Render(kv[0]))
		buf.WriteString(": ")
		buf.WriteString(kv[1])
	}

	buf.WriteString("\n}\n")

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.with(attrs, "")}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.with(nil, name)}
}
