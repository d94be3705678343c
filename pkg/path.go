package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Prefix returns the base name used to construct the configuration and cache
// directory paths.
//
// Prefix is the base name of the executable file without extension, except:
//   - "__debug_bin<N>" (dlv output) and "<pkg>.test" (go test) become [Name]
//   - leading dots are removed
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		id = filepath.Base(id)

		for _, sub := range []struct {
			rex *regexp.Regexp
			rep string
		}{
			{regexp.MustCompile(`^__debug_bin\d*$`), Name},
			{regexp.MustCompile(`^[\w-]+\.test(\.exe)?$`), Name},
			{regexp.MustCompile(`^\.+`), ""},
		} {
			id = sub.rex.ReplaceAllString(id, sub.rep)
		}

		id = strings.TrimSuffix(id, filepath.Ext(id))
		if id == "" {
			return Name
		}

		return id
	},
)

// ConfigDir returns the configuration directory path.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string {
		return filepath.Join(userDir(os.UserConfigDir, ".config"), Prefix())
	},
)

// CacheDir returns the cache directory path used for transient files.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string {
		return filepath.Join(userDir(os.UserCacheDir, ".cache"), Prefix())
	},
)

// userDir returns the result of dir, falling back to a subdirectory of the
// home directory and then the working directory.
func userDir(dir func() (string, error), home string) string {
	if d, err := dir(); err == nil {
		return d
	}

	if d, err := os.UserHomeDir(); err == nil {
		return filepath.Join(d, home)
	}

	if d, err := os.Getwd(); err == nil {
		return d
	}

	return "."
}
