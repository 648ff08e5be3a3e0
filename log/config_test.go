package log

import (
	"slices"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if got := ParseFormat(" Text "); got != FormatText {
		t.Errorf("expected text, got %v", got)
	}
	if got := ParseFormat("json"); got != FormatJSON {
		t.Errorf("expected json, got %v", got)
	}
	if got := ParseFormat("yaml"); got != DefaultFormat {
		t.Errorf("expected default, got %v", got)
	}
}

func TestLevelsAndFormats(t *testing.T) {
	levels := slices.Collect(Levels())
	if !slices.Equal(levels, []string{"trace", "debug", "info", "warn", "error"}) {
		t.Errorf("unexpected levels %v", levels)
	}

	formats := slices.Collect(Formats())
	if !slices.Equal(formats, []string{"json", "text"}) {
		t.Errorf("unexpected formats %v", formats)
	}
}

func TestConfig_Options(t *testing.T) {
	c := makeConfig(nil,
		WithLevel(LevelDebug),
		WithFormat(FormatText),
		WithCaller(true),
		WithPretty(false),
	)

	if c.level != LevelDebug {
		t.Errorf("expected debug, got %v", c.level)
	}
	if c.format != FormatText {
		t.Errorf("expected text, got %v", c.format)
	}
	if !c.caller {
		t.Error("expected caller enabled")
	}
	if c.pretty {
		t.Error("expected pretty disabled")
	}
	if c.output == nil {
		t.Error("nil writer should be replaced with io.Discard")
	}
}

func TestConfig_Clone_SeparateMutex(t *testing.T) {
	c := makeConfig(nil)
	d := c.clone(WithLevel(LevelError))

	if c.mutex == d.mutex {
		t.Error("clone shares the mutex")
	}
	if c.level == d.level {
		t.Error("clone option leaked into the original")
	}
}

func TestMakeFormatTimeFunc(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-09T14:05:00Z"},
		{"rfc-3339", "2024-03-09T14:05:00Z"},
		{"Kitchen", "2:05PM"},
		{"DateTime", "2024-03-09 14:05:00"},
		{"2006", "2024"},
		{"date-only", "2024-03-09"},
		{"none", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			if got := makeFormatTimeFunc(tt.layout)(ts); got != tt.want {
				t.Errorf("layout %q: got %q, want %q", tt.layout, got, tt.want)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	if got := LevelTrace.String(); got != "trace" {
		t.Errorf("trace: got %q", got)
	}
	if got := (LevelWarn + 2).String(); got != "warn+2" {
		t.Errorf("offset: got %q", got)
	}
	if got := ParseLevel("warn+2"); got != LevelWarn+2 {
		t.Errorf("parse offset: got %v", got)
	}
}

func TestOptionOnZeroConfig(t *testing.T) {
	var c config

	c = WithLevel(LevelError)(c)
	if c.mutex == nil || c.level != LevelError {
		t.Errorf("option on zero config: %+v", c)
	}
}
