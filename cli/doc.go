// Package cli contains the command line interface for brickc.
//
// # Usage
//
// Without a subcommand, brickc generates a program:
//
//	brickc robot.yaml > robot.nqc
//	brickc gen --reserved=rename -o robot.nqc robot.yaml
//
// Other subcommands check, reformat, preview or download a workspace, and
// run Markdown golden scenarios:
//
//	brickc check robot.yaml
//	brickc fmt json robot.yaml
//	brickc verify testdata/*.md
//	brickc download --port=usb robot.yaml
//
// # Configuration
//
// Flag defaults are read from config.yaml (and config.json) in the user
// configuration directory. "brickc init" writes the current flag values
// there. Keys are flag names; nested maps join their keys with "-":
//
//	log:
//	  level: debug
//	indent: 4
//	reserved: rename
//
// Command-line flags override configuration values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o brickc .
//
// Then --pprof-mode selects a profile and --pprof-dir its output directory.
package cli
