package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/brickc/cli/cmd"
)

func TestScanBool(t *testing.T) {
	tests := []struct {
		name, value   string
		assigned, cur bool
		want          bool
	}{
		{"--log-pretty", "", false, false, true},
		{"--no-log-pretty", "", false, true, false},
		{"--log-caller", "false", true, true, false},
		{"--no-log-caller", "false", true, false, true},
		{"--log-caller", "maybe", true, true, true},
	}

	for _, tt := range tests {
		if got := scanBool(tt.name, tt.value, tt.assigned, tt.cur); got != tt.want {
			t.Errorf("scanBool(%q, %q, %v, %v) = %v, want %v",
				tt.name, tt.value, tt.assigned, tt.cur, got, tt.want)
		}
	}
}

func TestLogScan(t *testing.T) {
	var f logConfig

	f.scan([]string{
		"gen", "--log-level", "debug", "--log-format=json",
		"--no-log-pretty", "--log-caller", "--", "--log-level=error",
	})

	if f.Level != "debug" {
		t.Errorf("Level = %q, want debug", f.Level)
	}

	if f.Format != "json" {
		t.Errorf("Format = %q, want json", f.Format)
	}

	if f.Pretty || !f.Caller {
		t.Errorf("Pretty = %v, Caller = %v; want false, true", f.Pretty, f.Caller)
	}

	// Restore the process logger for other tests.
	(&logConfig{Level: "info", Format: "text", TimeLayout: "Kitchen", Pretty: true}).
		start(t.Context())
}

func TestLogScanValueLooksLikeFlag(t *testing.T) {
	var f logConfig

	f.scan([]string{"--log-level", "--log-format", "json"})

	if f.Level != "" {
		t.Errorf("Level = %q, want empty", f.Level)
	}

	if f.Format != "json" {
		t.Errorf("Format = %q, want json", f.Format)
	}
}

func TestBasePrefix(t *testing.T) {
	if basePrefix() == "" {
		t.Error("basePrefix() is empty")
	}
}

// TestRun drives the whole command line against private configuration and
// cache directories.
func TestRun(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	t.Setenv("HOME", root)

	exit := func(code int) { t.Logf("exit(%d)", code) }

	clean := filepath.Join(root, "clean.yaml")
	if err := os.WriteFile(clean, []byte("blocks: []\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	dup := filepath.Join(root, "dup.yaml")
	if err := os.WriteFile(dup, []byte("blocks: [{kind: task_main}, {kind: task_main}]\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Run("check_clean", func(t *testing.T) {
		if err := Run(t.Context(), exit, "check", clean); err != nil {
			t.Errorf("check: %v", err)
		}
	})

	t.Run("check_findings", func(t *testing.T) {
		err := Run(t.Context(), exit, "check", dup)
		if !errors.Is(err, cmd.ErrFindings) {
			t.Errorf("check: %v, want ErrFindings", err)
		}
	})

	t.Run("gen_to_file", func(t *testing.T) {
		out := filepath.Join(root, "out.nqc")

		if err := Run(t.Context(), exit, "--indent=4", "gen", "-o", out, clean); err != nil {
			t.Fatalf("gen: %v", err)
		}

		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}

		if string(data) != "task main()\n{\n}\n" {
			t.Errorf("gen output = %q", data)
		}
	})

	t.Run("init", func(t *testing.T) {
		if err := Run(t.Context(), exit, "--reserved=rename", "init"); err != nil {
			t.Fatalf("init: %v", err)
		}

		if _, err := os.Stat(configPath(baseConfig + ".yaml")); err != nil {
			t.Errorf("config file: %v", err)
		}

		err := Run(t.Context(), exit, "init")
		if !errors.Is(err, cmd.ErrFileExists) {
			t.Errorf("second init: %v, want ErrFileExists", err)
		}

		// The generated file feeds the next run.
		if err := Run(t.Context(), exit, "check", clean); err != nil {
			t.Errorf("check with config: %v", err)
		}
	})
}
