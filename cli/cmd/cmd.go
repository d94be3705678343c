package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/sysconf/conf"
	"github.com/ardnew/sysconf/locate"
	"github.com/ardnew/sysconf/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// modelVar returns the kong variable named id, or "" if ctx carries no
// kong.Context or the variable is undefined.
func modelVar(ctx context.Context, id string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	return ktx.Model.Vars()[id]
}

type (
	sourceKey struct{}
	outputKey struct{}
)

// Source describes where configuration variables are read from and how they
// are parsed.
type Source struct {
	Stdin  io.Reader
	Logger log.Logger

	// Path is an explicit file, directory, or [locate.Stdin].
	// Empty selects the first module found in the search path.
	Path    string
	Search  []string
	Environ []string
	// Roots replaces the default installation roots when non-nil.
	Roots   []string
	Options []conf.Option
}

// WithSource returns a new context.Context containing src.
func WithSource(ctx context.Context, src Source) context.Context {
	return context.WithValue(ctx, sourceKey{}, src)
}

// SourceFrom retrieves the Source stored in ctx by WithSource.
func SourceFrom(ctx context.Context) Source {
	src, _ := ctx.Value(sourceKey{}).(Source)

	return src
}

// WithOutput returns a new context.Context whose commands write to w.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

// OutputFrom retrieves the writer stored in ctx by WithOutput, or os.Stdout.
func OutputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// LocateOptions returns the search options selected by s.
func (s Source) LocateOptions() []locate.Option {
	opts := []locate.Option{
		locate.WithEnviron(s.Environ),
		locate.WithDirs(s.Search...),
		locate.WithLogger(s.Logger),
	}

	if s.Roots != nil {
		opts = append(opts, locate.WithRoots(s.Roots...))
	}

	return opts
}

// Locate returns the path of the configuration data module selected by s.
func (s Source) Locate(ctx context.Context) (string, error) {
	return locate.Find(ctx, s.Path, s.LocateOptions()...)
}

// Load locates, parses, and resolves the configuration data module.
func (s Source) Load(ctx context.Context) (*conf.Store, error) {
	src, path, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	store, err := conf.Parse(ctx, src, s.parseOptions()...)
	if err != nil {
		return nil, ErrLoadSource.Wrap(err).With(slog.String("source", path))
	}

	s.Logger.DebugContext(ctx, "loaded variables",
		slog.String("source", path),
		slog.Int("count", store.Len()),
	)

	return store, nil
}

// LoadTable locates and parses the configuration data module without
// resolving placeholders.
func (s Source) LoadTable(ctx context.Context) (*conf.Table, error) {
	src, path, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	table, err := conf.ParseTable(ctx, src, s.parseOptions()...)
	if err != nil {
		return nil, ErrLoadSource.Wrap(err).With(slog.String("source", path))
	}

	return table, nil
}

func (s Source) parseOptions() []conf.Option {
	return append([]conf.Option{conf.WithLogger(s.Logger)}, s.Options...)
}

func (s Source) read(ctx context.Context) (src, path string, err error) {
	path, err = s.Locate(ctx)
	if err != nil {
		return "", "", err
	}

	var r io.Reader

	if path == locate.Stdin {
		if s.Stdin == nil {
			return "", path, ErrNoInput
		}

		r = s.Stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return "", path, ErrOpenSource.Wrap(err).With(slog.String("path", path))
		}
		defer file.Close()

		r = file
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", path, conf.ErrReadInput.Wrap(err).With(slog.String("path", path))
	}

	s.Logger.TraceContext(ctx, "read source",
		slog.String("path", path),
		slog.Int("size", len(data)),
	)

	return string(data), path, nil
}
