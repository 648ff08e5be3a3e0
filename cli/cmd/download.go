package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/ardnew/mung"

	"github.com/ardnew/brickc/log"
)

// Download generates a program and hands it to the external NQC tool, which
// compiles it and downloads it to the brick.
type Download struct {
	Tool     string        `default:"nqc"  help:"Compiler and download tool."                   placeholder:"PATH"`
	ToolDir  string        `               help:"Directory searched for the tool before PATH." type:"path"`
	Target   string        `default:"RCX2" help:"Target model passed to the tool with -T."`
	Port     string        `               help:"Port passed to the tool with -S."`
	Attempts int           `default:"3"    help:"Tool invocations before giving up."`
	Delay    time.Duration `default:"1s"   help:"Delay between attempts."`
	Keep     bool          `               help:"Keep the generated program file."`
	Validate bool          `default:"true" help:"Apply workspace rules before generating." negatable:""`

	Source string `arg:"" default:"-" help:"Workspace document or '-' for stdin." name:"source"`

	out, errOut io.Writer
	createTemp  func(dir, pattern string) (*os.File, error)
}

// Run executes the download command.
func (d *Download) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := generate(ctx, d.Source, d.Validate)
	if err != nil {
		return err
	}

	path, err := d.writeProgram(ctx, prog.Text)
	if err != nil {
		return err
	}

	if !d.Keep {
		defer os.Remove(path)
	}

	return d.retry(ctx, path)
}

// writeProgram stores text in a new file under the cache directory. The file
// is removed again if it cannot be written in full.
func (d *Download) writeProgram(ctx context.Context, text string) (path string, err error) {
	dir := kongVar(ctx, CacheIdentifier)
	if dir == "" {
		dir = os.TempDir()
	}

	create := d.createTemp
	if create == nil {
		create = os.CreateTemp
	}

	f, err := create(dir, "brickc-*.nqc")
	if err != nil {
		return "", ErrWriteOutput.With(slog.String("dir", dir)).Wrap(err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = ErrWriteOutput.With(slog.String("file", f.Name())).Wrap(cerr)
		}

		if err != nil {
			_ = os.Remove(f.Name())
			path = ""
		}
	}()

	if _, err := f.WriteString(text); err != nil {
		return "", ErrWriteOutput.With(slog.String("file", f.Name())).Wrap(err)
	}

	return f.Name(), nil
}

// retry invokes the tool until it succeeds, the attempts run out, or ctx is
// done.
func (d *Download) retry(ctx context.Context, path string) error {
	attempts := max(d.Attempts, 1)

	for attempt := 1; ; attempt++ {
		err := d.invoke(ctx, path)
		if err == nil {
			log.DebugContext(ctx, "download complete",
				slog.String("file", path),
				slog.Int("attempt", attempt),
			)

			return nil
		}

		if attempt >= attempts {
			return ErrDownload.With(
				slog.String("tool", d.Tool),
				slog.Int("attempts", attempt),
			).Wrap(err)
		}

		log.WarnContext(ctx, "download attempt failed",
			slog.Int("attempt", attempt),
			slog.Int("of", attempts),
			slog.Duration("retry_in", d.Delay),
			slog.Any("error", err),
		)

		select {
		case <-ctx.Done():
			return ErrDownload.With(slog.Int("attempts", attempt)).Wrap(context.Cause(ctx))
		case <-time.After(d.Delay):
		}
	}
}

// args returns the tool arguments for the program file at path.
func (d *Download) args(path string) []string {
	args := []string{"-T" + d.Target}

	if d.Port != "" {
		args = append(args, "-S"+d.Port)
	}

	return append(args, "-d", path)
}

func (d *Download) invoke(ctx context.Context, path string) error {
	tool := d.Tool

	// A bare tool name found in the tool directory wins over PATH.
	if d.ToolDir != "" && !strings.ContainsRune(tool, filepath.Separator) {
		if info, err := os.Stat(filepath.Join(d.ToolDir, tool)); err == nil && !info.IsDir() {
			tool = filepath.Join(d.ToolDir, tool)
		}
	}

	c := exec.CommandContext(ctx, tool, d.args(path)...)
	c.Env = append(os.Environ(), "PATH="+d.searchPath())
	c.Stdout = stdout(d.out)
	c.Stderr = stderr(d.errOut)

	log.TraceContext(ctx, "invoke tool",
		slog.String("tool", tool),
		slog.String("args", strings.Join(c.Args[1:], " ")),
	)

	return c.Run()
}

// searchPath returns PATH with the tool directory prefixed.
func (d *Download) searchPath() string {
	path := os.Getenv("PATH")
	if d.ToolDir == "" {
		return path
	}

	return mung.Make(
		mung.WithSubjectItems(path),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(d.ToolDir),
	).String()
}
