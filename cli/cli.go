package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/ardnew/sysconf/cli/cmd"
	"github.com/ardnew/sysconf/conf"
	"github.com/ardnew/sysconf/log"
	"github.com/ardnew/sysconf/pkg"
)

// baseConfig is the base name of the per-user configuration file and the
// name of the dictionary it defines.
const baseConfig = "config"

// Common holds the flags shared by every command line: logging, profiling,
// and the selection and parsing of the configuration data module.
type Common struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Source      string   `help:"Data module file or directory, or '-' for stdin"      placeholder:"PATH" short:"s"`
	Search      []string `help:"Directory searched before the default installations" placeholder:"DIR"`
	Name        string   `help:"Dictionary variable to read (default: the only one)"`
	ListKey     []string `help:"Additional key parsed as a list"                      placeholder:"KEY"`
	EnvFallback bool     `help:"Resolve undefined placeholders from the environment"`
	KeepMissing bool     `help:"Leave undefined placeholders unresolved"`
}

// source returns the variable source selected by the flags of c.
func (c *Common) source(stdin io.Reader, environ, roots []string) cmd.Source {
	opts := []conf.Option{conf.WithName(c.Name)}

	if len(c.ListKey) > 0 {
		opts = append(opts, conf.WithListKeys(c.ListKey...))
	}

	if c.EnvFallback {
		opts = append(opts, conf.WithProcessEnv(environ))
	}

	if c.KeepMissing {
		opts = append(opts, conf.WithMissing(conf.MissingKeep))
	}

	return cmd.Source{
		Stdin:   stdin,
		Logger:  log.Default(),
		Path:    c.Source,
		Search:  c.Search,
		Environ: environ,
		Roots:   roots,
		Options: opts,
	}
}

// CLI is the top-level command-line interface for sysconf.
type CLI struct {
	Common `embed:""`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Get   cmd.Get   `cmd:"" default:"withargs" help:"Print variable values"`
	List  cmd.List  `cmd:""                    help:"List variable names"`
	Flags cmd.Flags `cmd:""                    help:"Print compiler and linker flags"`
	Dump  cmd.Dump  `cmd:""                    help:"Print every resolved variable"`
	Eval  cmd.Eval  `cmd:""                    help:"Evaluate an expression over the variables"`
	Which cmd.Which `cmd:""                    help:"Print the path of the data module"`
	Repl  cmd.Repl  `cmd:""                    help:"Start an interactive session"`
	Init  cmd.Init  `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the sysconf CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	return defaultRunner(exit).run(ctx, &cli, &cli.Common, pkg.Name, pkg.Description, args)
}

// runner carries the process resources a command line runs against.
type runner struct {
	stdin     io.Reader
	stdout    io.Writer
	exit      func(code int)
	configDir string
	cacheDir  string
	environ   []string
	// roots replaces the default installation roots when non-nil.
	roots []string
}

func defaultRunner(exit func(code int)) runner {
	return runner{
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		exit:      exit,
		configDir: pkg.ConfigDir(),
		cacheDir:  pkg.CacheDir(),
		environ:   os.Environ(),
	}
}

// run parses args into model, whose shared flags are common, and executes
// the selected command.
func (r runner) run(
	ctx context.Context,
	model any,
	common *Common,
	name, description string,
	args []string,
	options ...kong.Option,
) error {
	for _, dir := range []string{r.configDir, r.cacheDir} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return cmd.ErrWriteConfig.Wrap(err)
		}
	}

	configFilePath := filepath.Join(r.configDir, baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  r.cacheDir,
		"version":            pkg.Version,
	}.
		CloneWith(common.Log.vars()).
		CloneWith(common.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	common.Log.scan(args)

	parser, err := kong.New(model,
		append([]kong.Option{
			kong.Name(name),
			kong.Description(description),
			kong.UsageOnError(),
			kong.Exit(r.exit),
			kong.Writers(r.stdout, os.Stderr),
			kong.ExplicitGroups(
				[]kong.Group{common.Log.group(), common.Pprof.group()},
			),
			kong.ConfigureHelp(
				kong.HelpOptions{
					Compact:             true,
					Summary:             true,
					Tree:                true,
					NoExpandSubcommands: true,
				}),
			kong.Configuration(kong.JSON, configFilePath+".json"),
			kong.Configuration(resolve(ctx, baseConfig, r.environ), configFilePath),
			vars,
		}, options...)...,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSource(ctx, common.source(r.stdin, r.environ, r.roots))
	ctx = cmd.WithOutput(ctx, r.stdout)

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	common.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer common.Pprof.start(ctx)()

	ktx.BindTo(ctx, (*context.Context)(nil))

	return ktx.Run()
}
