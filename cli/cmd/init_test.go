package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

type initCLI struct {
	Gen   Codegen       `embed:"" group:"gen"`
	Quiet bool          `help:"Quiet."`
	Delay time.Duration `default:"2s" help:"Delay."`
	Tags  []string      `help:"Tags."`
}

func initContext(t *testing.T, confPath string, args ...string) *kong.Context {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatal(err)
	}

	return ktx
}

func TestInitRun(t *testing.T) {
	tests := []struct {
		name     string
		force    bool
		existing bool
		wantErr  error
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, existing: true},
		{name: "fail_without_force", existing: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.existing {
				if err := os.WriteFile(confPath, []byte("old: true\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			ctx := WithContext(t.Context(), initContext(t, confPath, "--indent=4", "--quiet"))

			err := (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() error = %v", err)
			}

			data, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(data, &got); err != nil {
				t.Fatalf("generated config is not YAML: %v\n%s", err, data)
			}

			want := map[string]string{
				"indent":   "4",
				"reserved": "reject",
				"quiet":    "true",
				"delay":    "2s",
			}

			for k, v := range want {
				if s := fmt.Sprint(got[k]); s != v {
					t.Errorf("%s = %q, want %q", k, s, v)
				}
			}

			for _, k := range []string{"help", "header", "tags"} {
				if _, ok := got[k]; ok {
					t.Errorf("unexpected key %q in:\n%s", k, data)
				}
			}
		})
	}
}

func TestInitSettingsOrder(t *testing.T) {
	ktx := initContext(t, "unused")

	var keys []string
	for _, item := range (&Init{}).settings(ktx) {
		keys = append(keys, fmt.Sprint(item.Key))
	}

	want := []string{"indent", "reserved", "quiet", "delay"}
	if fmt.Sprint(keys) != fmt.Sprint(want) {
		t.Errorf("settings keys = %v, want %v", keys, want)
	}
}

func TestFlagValue(t *testing.T) {
	tests := []struct {
		in     any
		want   any
		wantOK bool
	}{
		{nil, nil, false},
		{true, true, true},
		{3, 3, true},
		{"", "", false},
		{"x", "x", true},
		{90 * time.Second, "1m30s", true},
		{[]string{}, []string{}, false},
		{[]string{"a"}, []string{"a"}, true},
	}

	for _, tt := range tests {
		got, ok := flagValue(tt.in)
		if ok != tt.wantOK || fmt.Sprint(got) != fmt.Sprint(tt.want) {
			t.Errorf("flagValue(%v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
