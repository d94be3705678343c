package conf

import (
	"strings"

	"github.com/ardnew/sysconf/log"
)

// DefaultName is the dictionary variable written by [FormatNative] when no
// other name is known.
const DefaultName = "build_time_vars"

// MissingPolicy selects how the resolver treats a placeholder naming a key
// that is neither defined nor available from a fallback.
type MissingPolicy uint8

const (
	// MissingFail aborts resolution with an [UndefinedReferenceError].
	MissingFail MissingPolicy = iota
	// MissingKeep leaves the placeholder text in place and flags the key as
	// unresolved. Getters on a flagged key fail.
	MissingKeep
)

// String returns the flag form of p.
func (p MissingPolicy) String() string {
	switch p {
	case MissingFail:
		return "fail"
	case MissingKeep:
		return "keep"
	default:
		return "unknown"
	}
}

type options struct {
	fallback map[string]string
	list     ListPolicy
	logger   log.Logger
	name     string
	maxDepth int
	missing  MissingPolicy
}

// Option configures scanning, normalization, or resolution.
type Option func(*options)

func makeOptions(opts ...Option) options {
	o := options{
		list:    DefaultListPolicy,
		missing: MissingFail,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithName restricts the scanner to the top-level assignment of the given
// variable name. By default the only top-level dictionary assignment found
// is used, whatever its name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithListPolicy replaces the policy deciding which keys normalize to lists.
// A nil policy normalizes every key to a scalar.
func WithListPolicy(policy ListPolicy) Option {
	return func(o *options) {
		if policy == nil {
			policy = func(string) bool { return false }
		}

		o.list = policy
	}
}

// WithListKeys adds keys to the current list policy.
func WithListKeys(keys ...string) Option {
	return func(o *options) {
		o.list = o.list.Or(ListKeys(keys...))
	}
}

// WithMissing sets the policy for undefined placeholder references.
func WithMissing(policy MissingPolicy) Option {
	return func(o *options) {
		o.missing = policy
	}
}

// WithFallback sets a lookup table consulted for placeholder names that are
// not defined in the data itself.
func WithFallback(vars map[string]string) Option {
	return func(o *options) {
		o.fallback = vars
	}
}

// WithProcessEnv sets the fallback table from a list of "KEY=VALUE"
// strings, typically the result of os.Environ. Entries without '=' are
// ignored.
func WithProcessEnv(env []string) Option {
	return func(o *options) {
		vars := make(map[string]string, len(env))

		for _, kv := range env {
			key, val, ok := strings.Cut(kv, "=")
			if ok && key != "" {
				vars[key] = val
			}
		}

		o.fallback = vars
	}
}

// WithMaxDepth bounds the length of a placeholder reference chain.
// By default, and for values less than 1, chains of any length resolve.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = max(depth, 0)
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
