package locate

import (
	"runtime"
	"strings"

	"github.com/ardnew/sysconf/log"
)

const (
	// EnvPath names the environment variable holding extra directories to
	// search, separated by the OS path list separator.
	EnvPath = "SYSCONF_PATH"
	// EnvName names the environment variable that selects a configuration
	// data module by name, as understood by the Python sysconfig module.
	EnvName = "_PYTHON_SYSCONFIGDATA_NAME"
)

// DefaultRoots returns glob patterns of the installation directories
// searched after any configured directories.
func DefaultRoots() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/opt/homebrew/Frameworks/Python.framework/Versions/*/lib/python3*",
			"/usr/local/Frameworks/Python.framework/Versions/*/lib/python3*",
			"/Library/Frameworks/Python.framework/Versions/*/lib/python3*",
			"/usr/local/lib/python3*",
		}
	case "windows":
		return nil
	default:
		return []string{
			"/usr/local/lib/python3*",
			"/usr/lib/python3*",
			"/usr/lib64/python3*",
		}
	}
}

type options struct {
	logger log.Logger
	env    []string
	dirs   []string
	roots  []string
}

// Option configures the search.
type Option func(*options)

func makeOptions(opts ...Option) options {
	o := options{roots: DefaultRoots()}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithEnviron sets the environment consulted for [EnvPath] and [EnvName],
// as a list of "KEY=VALUE" strings. The process environment is never read
// unless passed here.
func WithEnviron(env []string) Option {
	return func(o *options) {
		o.env = env
	}
}

// WithDirs adds directories searched before all others.
func WithDirs(dirs ...string) Option {
	return func(o *options) {
		o.dirs = append(o.dirs, dirs...)
	}
}

// WithRoots replaces the default installation root patterns.
func WithRoots(patterns ...string) Option {
	return func(o *options) {
		o.roots = patterns
	}
}

// WithLogger sets the logger for trace-level search output.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func lookupEnv(env []string, key string) string {
	// Later entries win, as with os/exec.
	for i := len(env) - 1; i >= 0; i-- {
		if k, v, ok := strings.Cut(env[i], "="); ok && k == key {
			return v
		}
	}

	return ""
}

func without(env []string, key string) []string {
	out := make([]string, 0, len(env))

	for _, kv := range env {
		if k, _, _ := strings.Cut(kv, "="); k != key {
			out = append(out, kv)
		}
	}

	return out
}
