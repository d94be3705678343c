package locate

import (
	"context"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/sysconf/conf"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// Pattern matches the file names of configuration data modules.
const Pattern = "_sysconfigdata_*.py"

// ErrNotFound is returned when no configuration data module is found.
var ErrNotFound = conf.NewError("sysconfigdata not found")

// Find returns the path of the configuration data module to load.
//
// A non-empty path is used as given when it names a file, or searched when
// it names a directory. Otherwise, if the environment sets [EnvName], the
// module of that name is looked up in [SearchPath]. Failing both, the first
// file matching [Pattern] in the search path is returned.
func Find(ctx context.Context, path string, opts ...Option) (string, error) {
	o := makeOptions(opts...)

	if path == Stdin {
		return path, nil
	}

	if path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return "", ErrNotFound.Wrap(err).With(slog.String("path", path))
		}

		if !info.IsDir() {
			return path, nil
		}

		o.dirs = []string{path}
		o.roots = nil
		o.env = without(o.env, EnvPath)
	}

	dirs := searchPath(o)

	if name := lookupEnv(o.env, EnvName); name != "" {
		file := strings.TrimSuffix(name, ".py") + ".py"

		for _, dir := range dirs {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}

			candidate := filepath.Join(dir, file)

			o.logger.TraceContext(ctx, "locate module",
				slog.String("path", candidate))

			if isFile(candidate) {
				return candidate, nil
			}
		}

		return "", ErrNotFound.With(
			slog.String("name", name),
			slog.Any("dirs", dirs),
		)
	}

	for match, err := range candidates(ctx, o, dirs) {
		if err != nil {
			return "", err
		}

		return match, nil
	}

	return "", ErrNotFound.With(slog.Any("dirs", dirs))
}

// All returns every file matching [Pattern] in the search path, in search
// order.
func All(ctx context.Context, opts ...Option) ([]string, error) {
	o := makeOptions(opts...)

	var all []string

	for match, err := range candidates(ctx, o, searchPath(o)) {
		if err != nil {
			return all, err
		}

		all = append(all, match)
	}

	return all, nil
}

// SearchPath returns the existing directories searched for configuration
// data modules, in order: directories given by [WithDirs], entries of
// [EnvPath], then the default installation roots.
func SearchPath(opts ...Option) []string {
	return searchPath(makeOptions(opts...))
}

func searchPath(o options) []string {
	prefix := slices.Clone(o.dirs)
	prefix = append(prefix, filepath.SplitList(lookupEnv(o.env, EnvPath))...)

	var roots []string
	for _, pattern := range o.roots {
		roots = append(roots, expandRoot(pattern)...)
	}

	sep := string(os.PathListSeparator)

	// A single delimited prefix item keeps the caller's order; mung leads
	// with the last of several prefix items.
	return slices.Collect(mung.Make(
		mung.WithSubjectItems(roots...),
		mung.WithDelim(sep),
		mung.WithPrefixItems(strings.Join(prefix, sep)),
		mung.WithFilter(isDir),
	).Filtered())
}

func candidates(ctx context.Context, o options, dirs []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, dir := range dirs {
			if err := ctx.Err(); err != nil {
				yield("", err)

				return
			}

			matches, err := filepath.Glob(filepath.Join(dir, Pattern))
			if err != nil {
				yield("", ErrNotFound.Wrap(err).With(slog.String("dir", dir)))

				return
			}

			o.logger.TraceContext(ctx, "locate search",
				slog.String("dir", dir),
				slog.Int("matches", len(matches)))

			slices.Sort(matches)

			for _, match := range matches {
				if isFile(match) && !yield(match, nil) {
					return
				}
			}
		}
	}
}

// expandRoot expands a glob of installation directories, newest Python
// version first.
func expandRoot(pattern string) []string {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil
	}

	slices.SortStableFunc(matches, func(a, b string) int {
		return slices.Compare(versionOf(b), versionOf(a))
	})

	return matches
}

// versionOf extracts the dotted numeric suffix of a "pythonX.Y" path
// element, or nil.
func versionOf(path string) []int {
	base := filepath.Base(path)

	i := strings.LastIndex(base, "python")
	if i < 0 {
		return nil
	}

	var v []int

	for _, part := range strings.Split(base[i+len("python"):], ".") {
		n, err := strconv.Atoi(strings.TrimRightFunc(part, func(r rune) bool {
			return r < '0' || r > '9'
		}))
		if err != nil {
			break
		}

		v = append(v, n)
	}

	return v
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}
