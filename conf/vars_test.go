package conf

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// sysconfigdata is an abridged _sysconfigdata_ module of a Linux build.
const sysconfigdata = `# system configuration generated and used by the sysconfig module
build_time_vars = {'ABIFLAGS': '',
 'CFLAGS': '-Wsign-compare -DNDEBUG -g -fwrapv -O3 -Wall',
 'CONFINCLUDEDIR': '$(prefix)/include',
 'CONFINCLUDEPY': '$(CONFINCLUDEDIR)/python$(LDVERSION)',
 'EXT_SUFFIX': '.cpython-312-x86_64-linux-gnu.so',
 'INCLUDEDIR': '$(prefix)/include',
 'INCLUDEPY': '$(INCLUDEDIR)/python$(LDVERSION)',
 'LDFLAGS': '',
 'LDVERSION': '$(VERSION)$(ABIFLAGS)',
 'LIBDIR': '$(exec_prefix)/lib',
 'LIBPL': '$(prefix)/lib/python3.12/config-$(VERSION)$(ABIFLAGS)-x86_64-linux-gnu',
 'LIBS': '-ldl ',
 'LINKFORSHARED': '-Xlinker -export-dynamic',
 'Py_DEBUG': 0,
 'Py_ENABLE_SHARED': 1,
 'SIZEOF_VOID_P': 8,
 'SOABI': 'cpython-312-x86_64-linux-gnu',
 'SYSLIBS': '-lm',
 'VERSION': '3.12',
 'WITH_THREAD': 1,
 'exec_prefix': '$(prefix)',
 'prefix': '/usr'}
`

func TestBuildVars(t *testing.T) {
	s := mustParse(t, sysconfigdata)

	got, err := s.BuildVars()
	if err != nil {
		t.Fatalf("BuildVars() error = %v", err)
	}

	want := BuildVars{
		ConfigDir:    "/usr/lib/python3.12/config-3.12-x86_64-linux-gnu",
		ExecPrefix:   "/usr",
		ExtSuffix:    ".cpython-312-x86_64-linux-gnu.so",
		IncludeDir:   "/usr/include",
		LDVersion:    "3.12",
		LibDir:       "/usr/lib",
		Prefix:       "/usr",
		SOABI:        "cpython-312-x86_64-linux-gnu",
		Version:      "3.12",
		CFlags:       []string{"-Wsign-compare", "-DNDEBUG", "-g", "-fwrapv", "-O3", "-Wall"},
		Libs:         []string{"-ldl"},
		SizeOfVoidP:  8,
		EnableShared: true,
		WithThread:   true,
	}

	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("BuildVars() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildVarsEmpty(t *testing.T) {
	got, err := mustParse(t, "build_time_vars = {}").BuildVars()
	if err != nil {
		t.Fatalf("BuildVars() error = %v", err)
	}

	if diff := cmp.Diff(BuildVars{}, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("BuildVars() of empty data mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildVarsTypeMismatch(t *testing.T) {
	for _, src := range []string{
		"build_time_vars = {'SIZEOF_VOID_P': 'eight'}",
		"build_time_vars = {'Py_DEBUG': 'sometimes'}",
	} {
		if _, err := mustParse(t, src).BuildVars(); !errors.Is(err, ErrTypeMismatch) {
			t.Errorf("BuildVars() of %q error = %v, want ErrTypeMismatch", src, err)
		}
	}
}

func TestDerivedFlags(t *testing.T) {
	static := strings.Replace(sysconfigdata,
		"'Py_ENABLE_SHARED': 1", "'Py_ENABLE_SHARED': 0", 1)

	tests := []struct {
		name  string
		src   string
		query func(*Store) ([]string, error)
		want  []string
	}{
		{
			name:  "includes",
			src:   sysconfigdata,
			query: (*Store).IncludeFlags,
			want:  []string{"-I/usr/include/python3.12"},
		},
		{
			name:  "cflags",
			src:   sysconfigdata,
			query: (*Store).CFlags,
			want: []string{
				"-I/usr/include/python3.12",
				"-Wsign-compare", "-DNDEBUG", "-g", "-fwrapv", "-O3", "-Wall",
			},
		},
		{
			name:  "libs",
			src:   sysconfigdata,
			query: (*Store).Libs,
			want:  []string{"-lpython3.12", "-ldl", "-lm"},
		},
		{
			name:  "ldflags_shared",
			src:   sysconfigdata,
			query: (*Store).LinkFlags,
			want: []string{
				"-L/usr/lib", "-lpython3.12", "-ldl", "-lm",
				"-Xlinker", "-export-dynamic",
			},
		},
		{
			name:  "ldflags_static",
			src:   static,
			query: (*Store).LinkFlags,
			want: []string{
				"-L/usr/lib/python3.12/config-3.12-x86_64-linux-gnu", "-L/usr/lib",
				"-lpython3.12", "-ldl", "-lm",
				"-Xlinker", "-export-dynamic",
			},
		},
		{
			name:  "libs_without_ldversion",
			src:   "build_time_vars = {'VERSION': '3.9', 'ABIFLAGS': 'd'}",
			query: (*Store).Libs,
			want:  []string{"-lpython3.9d"},
		},
		{
			name:  "includes_absent",
			src:   "build_time_vars = {}",
			query: (*Store).IncludeFlags,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.query(mustParse(t, tt.src))
			if err != nil {
				t.Fatalf("query error = %v", err)
			}

			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("query mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDerivedFlagsUnresolved(t *testing.T) {
	s := mustParse(t,
		"build_time_vars = {'INCLUDEPY': '$(NOWHERE)/include'}",
		WithMissing(MissingKeep))

	if _, err := s.IncludeFlags(); !errors.Is(err, ErrUndefinedReference) {
		t.Errorf("IncludeFlags() error = %v, want ErrUndefinedReference", err)
	}
}
