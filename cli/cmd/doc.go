// Package cmd implements the sysconf subcommands.
//
// Commands receive their input through the [context.Context] passed to Run:
// the parsed [kong.Context] ([WithContext]), the variable [Source]
// ([WithSource]), and the output writer ([WithOutput]).
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file. Its base name is also the name of the
	// dictionary variable defined in that file.
	ConfigIdentifier = "config"
)
