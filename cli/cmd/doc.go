// Package cmd implements the brickc subcommands.
//
// Every command reads a workspace document (YAML or JSON) from a file or
// stdin. Generator settings shared by all commands travel in the context; see
// [WithCodegen].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)
