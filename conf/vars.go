package conf

import (
	"errors"
	"slices"
)

// BuildVars is a typed snapshot of the well-known variables of a CPython
// build configuration. Fields of absent keys hold zero values.
type BuildVars struct {
	ABIFlags     string   // ABIFLAGS
	ConfigDir    string   // LIBPL
	ExecPrefix   string   // exec_prefix
	ExtSuffix    string   // EXT_SUFFIX
	IncludeDir   string   // INCLUDEDIR
	LDVersion    string   // LDVERSION
	LibDir       string   // LIBDIR
	Prefix       string   // prefix
	ShlibSuffix  string   // SHLIB_SUFFIX
	SOABI        string   // SOABI
	Version      string   // VERSION
	CFlags       []string // CFLAGS
	LDFlags      []string // LDFLAGS
	Libs         []string // LIBS
	SizeOfVoidP  int      // SIZEOF_VOID_P
	CountAllocs  bool     // COUNT_ALLOCS
	Debug        bool     // Py_DEBUG
	EnableShared bool     // Py_ENABLE_SHARED
	RefDebug     bool     // Py_REF_DEBUG
	TraceRefs    bool     // Py_TRACE_REFS
	WithThread   bool     // WITH_THREAD
}

// BuildVars extracts the well-known variables from s. It fails with
// [ErrTypeMismatch] if a numeric or boolean variable holds other text, or
// with an [*UndefinedReferenceError] if a variable it reads is unresolved.
func (s *Store) BuildVars() (BuildVars, error) {
	var (
		bv  BuildVars
		err error
	)

	text := func(dst *string, key string) {
		if err == nil {
			*dst, err = optional(s.text(key))
		}
	}

	words := func(dst *[]string, key string) {
		if err == nil {
			*dst, err = optional(s.words(key))
		}
	}

	flag := func(dst *bool, key string) {
		if err == nil {
			*dst, err = optional(s.Bool(key))
		}
	}

	text(&bv.ABIFlags, "ABIFLAGS")
	text(&bv.ConfigDir, "LIBPL")
	text(&bv.ExecPrefix, "exec_prefix")
	text(&bv.ExtSuffix, "EXT_SUFFIX")
	text(&bv.IncludeDir, "INCLUDEDIR")
	text(&bv.LDVersion, "LDVERSION")
	text(&bv.LibDir, "LIBDIR")
	text(&bv.Prefix, "prefix")
	text(&bv.ShlibSuffix, "SHLIB_SUFFIX")
	text(&bv.SOABI, "SOABI")
	text(&bv.Version, "VERSION")
	words(&bv.CFlags, "CFLAGS")
	words(&bv.LDFlags, "LDFLAGS")
	words(&bv.Libs, "LIBS")
	flag(&bv.CountAllocs, "COUNT_ALLOCS")
	flag(&bv.Debug, "Py_DEBUG")
	flag(&bv.EnableShared, "Py_ENABLE_SHARED")
	flag(&bv.RefDebug, "Py_REF_DEBUG")
	flag(&bv.TraceRefs, "Py_TRACE_REFS")
	flag(&bv.WithThread, "WITH_THREAD")

	if err == nil {
		bv.SizeOfVoidP, err = optional(s.Int("SIZEOF_VOID_P"))
	}

	if err != nil {
		return BuildVars{}, err
	}

	return bv, nil
}

// IncludeFlags returns the compiler flags naming the runtime's header
// directories: -I$(INCLUDEPY) and -I$(CONFINCLUDEPY), without duplicates.
func (s *Store) IncludeFlags() ([]string, error) {
	var flags []string

	for _, key := range []string{"INCLUDEPY", "CONFINCLUDEPY"} {
		dir, err := optional(s.text(key))
		if err != nil {
			return nil, err
		}

		flags = appendUnique(flags, prefixed("-I", dir)...)
	}

	return flags, nil
}

// CFlags returns [Store.IncludeFlags] followed by the words of CFLAGS.
func (s *Store) CFlags() ([]string, error) {
	flags, err := s.IncludeFlags()
	if err != nil {
		return nil, err
	}

	cflags, err := optional(s.words("CFLAGS"))
	if err != nil {
		return nil, err
	}

	return append(flags, cflags...), nil
}

// Libs returns the libraries needed to link against the runtime:
// -lpython$(LDVERSION) followed by the words of LIBS and SYSLIBS.
// Without LDVERSION the library name is built from VERSION and ABIFLAGS.
func (s *Store) Libs() ([]string, error) {
	ldver, err := optional(s.text("LDVERSION"))
	if err != nil {
		return nil, err
	}

	if ldver == "" {
		ver, err := optional(s.text("VERSION"))
		if err != nil {
			return nil, err
		}

		abi, err := optional(s.text("ABIFLAGS"))
		if err != nil {
			return nil, err
		}

		if ver != "" {
			ldver = ver + abi
		}
	}

	libs := prefixed("-lpython", ldver)

	for _, key := range []string{"LIBS", "SYSLIBS"} {
		words, err := optional(s.words(key))
		if err != nil {
			return nil, err
		}

		libs = append(libs, words...)
	}

	return libs, nil
}

// LinkFlags returns the linker flags needed to embed the runtime:
// -L$(LIBPL) for static builds, -L$(LIBDIR), [Store.Libs], and the words
// of LINKFORSHARED unless the runtime is a framework build.
func (s *Store) LinkFlags() ([]string, error) {
	shared, err := optional(s.Bool("Py_ENABLE_SHARED"))
	if err != nil {
		return nil, err
	}

	var flags []string

	if !shared {
		dir, err := optional(s.text("LIBPL"))
		if err != nil {
			return nil, err
		}

		flags = appendUnique(flags, prefixed("-L", dir)...)
	}

	dir, err := optional(s.text("LIBDIR"))
	if err != nil {
		return nil, err
	}

	flags = appendUnique(flags, prefixed("-L", dir)...)

	libs, err := s.Libs()
	if err != nil {
		return nil, err
	}

	flags = append(flags, libs...)

	framework, err := optional(s.text("PYTHONFRAMEWORK"))
	if err != nil {
		return nil, err
	}

	if framework == "" {
		words, err := optional(s.words("LINKFORSHARED"))
		if err != nil {
			return nil, err
		}

		flags = append(flags, words...)
	}

	return flags, nil
}

// text returns the text of key, whatever its kind.
func (s *Store) text(key string) (string, error) {
	v, err := s.Lookup(key)
	if err != nil {
		return "", err
	}

	return v.Text(), nil
}

// optional treats an absent key as its zero value.
func optional[T any](v T, err error) (T, error) {
	if errors.Is(err, ErrKeyNotFound) {
		var zero T

		return zero, nil
	}

	return v, err
}

func prefixed(prefix, s string) []string {
	if s == "" {
		return nil
	}

	return []string{prefix + s}
}

func appendUnique(dst []string, elems ...string) []string {
	for _, e := range elems {
		if !slices.Contains(dst, e) {
			dst = append(dst, e)
		}
	}

	return dst
}
