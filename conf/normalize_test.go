package conf

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind Kind
		want Value
	}{
		{"list_quoted", `'-I/a -I/b'`, KindList, List("-I/a", "-I/b")},
		{"list_unquoted", `-I/a -I/b`, KindList, List("-I/a", "-I/b")},
		{"list_whitespace_runs", "'  -a \\t -b\\n-c '", KindList, List("-a", "-b", "-c")},
		{"list_empty", `''`, KindList, List()},
		{"list_none", `None`, KindList, List()},
		{"scalar_keeps_spaces", `'  x  '`, KindScalar, Scalar("  x  ")},
		{"scalar_number", `8`, KindScalar, Scalar("8")},
		{"scalar_concat", `'gcc ' '-pthread'`, KindScalar, Scalar("gcc -pthread")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeValue(tt.raw, tt.kind)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NormalizeValue(%q) mismatch (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}

func TestNormalizeValueEmptyListIsNotAbsent(t *testing.T) {
	v := NormalizeValue(`''`, KindList)

	if !v.IsList() {
		t.Fatalf("kind = %v, want list", v.Kind())
	}

	if elems := v.Elems(); elems == nil || len(elems) != 0 {
		t.Errorf("Elems() = %#v, want empty non-nil slice", elems)
	}
}

func TestDefaultListPolicy(t *testing.T) {
	for key, want := range map[string]bool{
		"CFLAGS":        true,
		"LDFLAGS":       true,
		"PY_CFLAGS":     true,
		"LIBS":          true,
		"SYSLIBS":       true,
		"LINKFORSHARED": true,
		"CC":            false,
		"LIBDIR":        false,
		"prefix":        false,
		"FLAGS_EXTRA":   false,
	} {
		if got := DefaultListPolicy(key); got != want {
			t.Errorf("DefaultListPolicy(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestNormalize(t *testing.T) {
	src := "CFG = {'A': '1', 'CC': 'gcc -O2', 'CFLAGS': '-g -O2', 'A': '3'}"

	tests := []struct {
		name string
		opts []Option
		want *Table
	}{
		{
			name: "default_policy",
			want: new(Builder).
				Scalar("A", "3").
				Scalar("CC", "gcc -O2").
				List("CFLAGS", "-g", "-O2").
				Table(),
		},
		{
			name: "extra_list_keys",
			opts: []Option{WithListKeys("CC")},
			want: new(Builder).
				Scalar("A", "3").
				List("CC", "gcc", "-O2").
				List("CFLAGS", "-g", "-O2").
				Table(),
		},
		{
			name: "no_lists",
			opts: []Option{WithListPolicy(nil)},
			want: new(Builder).
				Scalar("A", "3").
				Scalar("CC", "gcc -O2").
				Scalar("CFLAGS", "-g -O2").
				Table(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(context.Background(), Scan(src), tt.opts...)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeDuplicateKeepsFirstPosition(t *testing.T) {
	got, err := Normalize(context.Background(),
		Scan("CFG = {'A': '1',\n'B': '2',\n'A': '3'}"))
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	if diff := cmp.Diff([]string{"A", "B"}, got.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}

	if pos, _ := got.Position("A"); pos.Line != 1 {
		t.Errorf("Position(A).Line = %d, want 1", pos.Line)
	}

	if v, _ := got.Get("A"); v.Text() != "3" {
		t.Errorf("Get(A) = %q, want %q", v.Text(), "3")
	}
}

func TestNormalizePropagatesScanError(t *testing.T) {
	_, err := Normalize(context.Background(), Scan("CFG = {'A': 'x"))
	if !errors.Is(err, ErrUnterminatedString) {
		t.Fatalf("Normalize() error = %v, want ErrUnterminatedString", err)
	}
}
