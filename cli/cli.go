package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/brickc/cli/cmd"
	"github.com/ardnew/brickc/pkg"
)

// CLI is the top-level command-line interface for brickc.
type CLI struct {
	Log     logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof   pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`
	Codegen cmd.Codegen `embed:"" group:"gen"`

	Gen      cmd.Gen      `cmd:"" default:"withargs" help:"Generate an NQC program (default)."`
	Check    cmd.Check    `cmd:""                    help:"List nodes that break workspace rules."`
	Fmt      cmd.Fmt      `cmd:""                    help:"Normalize a workspace document."`
	Verify   cmd.Verify   `cmd:""                    help:"Run Markdown golden scenarios."`
	Download cmd.Download `cmd:""                    help:"Compile and download a program to the brick."`
	Preview  cmd.Preview  `cmd:""                    help:"Browse the generated program interactively."`
	Init     cmd.Init     `cmd:""                    help:"Initialize configuration file."`
}

// Run executes the brickc CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig + ".yaml")

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags apply before parsing so that parse errors are reported
	// in the requested format.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), cli.Codegen.Group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithCodegen(ctx, cli.Codegen)

	cli.Log.start(ctx)

	// No-op unless built with the pprof tag and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
