// Package cli contains the command line interfaces for sysconf.
//
// # Usage
//
// [Run] parses the sysconf command line and runs the selected command from
// package [github.com/ardnew/sysconf/cli/cmd]. The default command is get:
//
//	sysconf VERSION LDVERSION
//	sysconf --source=- flags --cflags < _sysconfigdata__linux_x86_64-linux-gnu.py
//
// [RunPythonConfig] parses a python-config compatible command line:
//
//	sysconf-config --includes --ldflags
//
// # Source Options
//
//   - --source/-s: data module file, directory to search, or '-' for stdin
//   - --search: directory searched before the default installations
//   - --name: dictionary variable to read
//   - --list-key: additional key parsed as a list
//   - --env-fallback: resolve undefined placeholders from the environment
//   - --keep-missing: leave undefined placeholders unresolved
//
// # Configuration File
//
// Flag defaults are read from the file "config" in the user configuration
// directory, written in the same dictionary syntax as the data modules
// (see [resolve]), and from "config.json" beside it. The init command
// writes the current flag values to that file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag
// (go build -tags pprof):
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/sysconf/pprof)
package cli
