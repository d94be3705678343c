package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/sysconf/cli/cmd"
	"github.com/ardnew/sysconf/conf"
	"github.com/ardnew/sysconf/pkg"
)

// PythonConfigName is the command name of the python-config compatible
// command line.
const PythonConfigName = pkg.Name + "-config"

// PythonConfig is a python-config compatible command line.
//
// Each requested value is printed on its own line, in the order the flags
// appear on the command line.
type PythonConfig struct {
	Common `embed:""`

	Prefix          bool `help:"Print the installation prefix"`
	ExecPrefix      bool `help:"Print the platform-dependent installation prefix"`
	Includes        bool `help:"Print include directory flags"`
	CFlags          bool `help:"Print compiler flags"                              name:"cflags"`
	Libs            bool `help:"Print library flags"`
	LDFlags         bool `help:"Print linker flags"                                name:"ldflags"`
	ExtensionSuffix bool `help:"Print the file name suffix of extension modules"`
	ABIFlags        bool `help:"Print the ABI flags"                               name:"abiflags"`
	ConfigDir       bool `help:"Print the directory of the build configuration"   name:"configdir"`
}

// pythonConfigQuery computes the output line of one flag.
type pythonConfigQuery func(*conf.Store, conf.BuildVars) (string, error)

func words(query func(*conf.Store) ([]string, error)) pythonConfigQuery {
	return func(s *conf.Store, _ conf.BuildVars) (string, error) {
		w, err := query(s)

		return strings.Join(w, " "), err
	}
}

func field(get func(conf.BuildVars) string) pythonConfigQuery {
	return func(_ *conf.Store, bv conf.BuildVars) (string, error) {
		return get(bv), nil
	}
}

// queries maps flag names to their output.
func (*PythonConfig) queries() map[string]pythonConfigQuery {
	return map[string]pythonConfigQuery{
		"prefix":           field(func(bv conf.BuildVars) string { return bv.Prefix }),
		"exec-prefix":      field(func(bv conf.BuildVars) string { return bv.ExecPrefix }),
		"includes":         words((*conf.Store).IncludeFlags),
		"cflags":           words((*conf.Store).CFlags),
		"libs":             words((*conf.Store).Libs),
		"ldflags":          words((*conf.Store).LinkFlags),
		"extension-suffix": field(func(bv conf.BuildVars) string { return bv.ExtSuffix }),
		"abiflags":         field(func(bv conf.BuildVars) string { return bv.ABIFlags }),
		"configdir":        field(func(bv conf.BuildVars) string { return bv.ConfigDir }),
	}
}

// requested returns the names of the output flags given on the command
// line, in order of first appearance. Flags set only by a configuration file
// or the environment follow in declaration order.
func (p *PythonConfig) requested(ktx *kong.Context) []string {
	queries := p.queries()

	var (
		names []string
		seen  = map[string]bool{}
	)

	for _, path := range ktx.Path {
		if path.Flag == nil {
			continue
		}

		name := path.Flag.Name

		if _, ok := queries[name]; ok && !seen[name] && ktx.FlagValue(path.Flag) == true {
			names = append(names, name)
			seen[name] = true
		}
	}

	for _, set := range []struct {
		on   bool
		name string
	}{
		{p.Prefix, "prefix"},
		{p.ExecPrefix, "exec-prefix"},
		{p.Includes, "includes"},
		{p.CFlags, "cflags"},
		{p.Libs, "libs"},
		{p.LDFlags, "ldflags"},
		{p.ExtensionSuffix, "extension-suffix"},
		{p.ABIFlags, "abiflags"},
		{p.ConfigDir, "configdir"},
	} {
		if set.on && !seen[set.name] {
			names = append(names, set.name)
		}
	}

	return names
}

// Run prints the requested values.
func (p *PythonConfig) Run(ctx context.Context, ktx *kong.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	names := p.requested(ktx)
	if len(names) == 0 {
		_ = ktx.PrintUsage(false)

		return cmd.ErrNoFlags
	}

	store, err := cmd.SourceFrom(ctx).Load(ctx)
	if err != nil {
		return err
	}

	bv, err := store.BuildVars()
	if err != nil {
		return err
	}

	queries := p.queries()
	w := cmd.OutputFrom(ctx)

	for _, name := range names {
		line, err := queries[name](store, bv)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return cmd.ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}

// RunPythonConfig executes the python-config compatible command line with
// the given context and arguments. Flags may also be given as environment
// variables prefixed with the upper-cased command name.
func RunPythonConfig(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli PythonConfig

	return defaultRunner(exit).run(ctx, &cli, &cli.Common,
		PythonConfigName,
		"Print build configuration of the Python runtime",
		args,
		kong.DefaultEnvars(envPrefix(PythonConfigName)),
	)
}

func envPrefix(name string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(name))
}
