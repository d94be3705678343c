package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/sysconf/conf"
	"github.com/ardnew/sysconf/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads configuration files
// written in the same dictionary-literal syntax as the data modules:
//
//	config = {
//	  'log_level': 'debug',
//	  'search': '/opt/python/lib/python3.12,/usr/lib/python3.12',
//	  'env_fallback': 'true',
//	}
//
// Only the dictionary assigned to name is read. Flag names with hyphens
// are written with underscores, list flags separate their elements with
// commas, and placeholders may refer to other entries or to variables of
// environ. Command-line flags override file values.
//
// A file that cannot be parsed is logged and ignored.
func resolve(
	ctx context.Context,
	name string,
	environ []string,
) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		store, err := conf.ParseReader(ctx, r,
			conf.WithName(name),
			conf.WithListPolicy(nil),
			conf.WithProcessEnv(environ),
			conf.WithMissing(conf.MissingKeep),
		)
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.String("name", name),
				slog.Any("error", err),
			)

			return config{}, nil
		}

		cfg := make(config, store.Len())

		for key, v := range store.All() {
			cfg[key] = v.Text()
		}

		return cfg, nil
	}
}

// config implements [kong.Resolver] over a flat map of flag values.
type config map[string]string

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but dictionary keys
	// conventionally use underscores. Try both forms.
	for _, name := range []string{flag.Name, strings.ReplaceAll(flag.Name, "-", "_")} {
		if value, ok := r[name]; ok {
			return value, nil
		}
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}
