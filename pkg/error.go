package pkg

import (
	"log/slog"
	"strings"
)

// Error is a sentinel-derived error carrying structured attributes, such as
// the node or document path a failure refers to.
//
// Sentinels are declared with [NewError] and refined with [Error.With] and
// [Error.Wrap]. A refined copy still matches its sentinel with errors.Is.
type Error struct {
	msg   string
	cause error
	attrs []slog.Attr
	root  *Error
}

// NewError declares a sentinel.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error renders "msg [k=v ...]: cause", omitting the parts that are empty.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	if len(e.attrs) > 0 {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteByte('[')

		for i, a := range e.attrs {
			if i > 0 {
				sb.WriteByte(' ')
			}

			sb.WriteString(a.String())
		}

		sb.WriteByte(']')
	}

	if e.cause != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.cause.Error())
	}

	return sb.String()
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t != nil && (t == e || t == e.root)
}

// LogValue groups the message, the cause and the attributes.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.cause != nil {
		attrs = append(attrs, slog.String("cause", e.cause.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error {
	c := e.derive()
	c.cause = err

	return c
}

// With returns a copy of e with attrs appended. e is not modified.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.derive()
	c.attrs = append(c.attrs[:len(c.attrs):len(c.attrs)], attrs...)

	return c
}

func (e *Error) derive() *Error {
	c := *e
	if c.root == nil {
		c.root = e
	}

	return &c
}
