package conf

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func collect(src string, opts ...Option) ([]RawEntry, error) {
	var got []RawEntry

	for e, err := range Scan(src, opts...) {
		if err != nil {
			return got, err
		}

		got = append(got, e)
	}

	return got, nil
}

func TestScanEntries(t *testing.T) {
	src := `# system configuration generated and used by the sysconfig module
build_time_vars = {'ABIFLAGS': '',
 'CC': 'gcc ' '-pthread',
 "CFLAGS": ('-Wsign-compare '
            '-DNDEBUG'),
 'SIZEOF_VOID_P': 8,
 Py_DEBUG: 0,  # bare key
 'TZPATH': 'a:b',
}
`

	got, err := collect(src)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	want := []RawEntry{
		{Key: "ABIFLAGS", Raw: `''`, Pos: Position{Offset: 85, Line: 2, Column: 20}},
		{Key: "CC", Raw: `'gcc ' '-pthread'`, Pos: Position{Line: 3}},
		{Key: "CFLAGS", Raw: "('-Wsign-compare '\n            '-DNDEBUG')", Pos: Position{Line: 4}},
		{Key: "SIZEOF_VOID_P", Raw: "8", Pos: Position{Line: 6}},
		{Key: "Py_DEBUG", Raw: "0", Pos: Position{Line: 7}},
		{Key: "TZPATH", Raw: `'a:b'`, Pos: Position{Line: 8}},
	}

	if len(got) != len(want) {
		t.Fatalf("Scan() yielded %d entries, want %d: %+v", len(got), len(want), got)
	}

	if diff := cmp.Diff(want[0], got[0]); diff != "" {
		t.Errorf("first entry mismatch (-want +got):\n%s", diff)
	}

	for i, w := range want {
		if got[i].Key != w.Key || got[i].Raw != w.Raw {
			t.Errorf("entry %d = {%q, %q}, want {%q, %q}",
				i, got[i].Key, got[i].Raw, w.Key, w.Raw)
		}

		if got[i].Pos.Line != w.Pos.Line {
			t.Errorf("entry %d line = %d, want %d", i, got[i].Pos.Line, w.Pos.Line)
		}
	}
}

func TestScanSkipsOtherStatements(t *testing.T) {
	src := `"""Docstring mentioning build_time_vars = {'X': 1}."""
import os
other = [1, {'a': 2}]
if os.name == 'posix': pass
build_time_vars = {'K': 'v'}
trailer = 'done'
`

	got, err := collect(src)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(got) != 1 || got[0].Key != "K" {
		t.Fatalf("Scan() = %+v, want single entry K", got)
	}
}

func TestScanTopLevelOnly(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "function_body",
			src:  "def f():\n    x = {'a': 'b'}\nCFG = {'A': '1'}\n",
			want: []string{"A"},
		},
		{
			name: "conditional_blocks",
			src: "if True:\n\ty = {'a': 'b'}\nelse:\n  y = {'c': 'd'}\n" +
				"CFG = {'A': '1', 'B': '2'}\n",
			want: []string{"A", "B"},
		},
		{
			name: "class_body_after_literal",
			src:  "CFG = {'A': '1'}\nclass C:\n    z = {'a': 'b'}; w = {}\n",
			want: []string{"A"},
		},
		{
			name: "single_line_block",
			src:  "else: y = {'a': 'b'}\nCFG = {'A': '1'}\n",
			want: []string{"A"},
		},
		{
			name: "annotated",
			src:  "from typing import Any\nbuild_time_vars: dict[str, Any] = {'A': '1'}\n",
			want: []string{"A"},
		},
		{
			name: "annotation_without_value",
			src:  "x: dict\nCFG = {'A': '1'}\n",
			want: []string{"A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := collect(tt.src)
			if err != nil {
				t.Fatalf("Scan() error = %v", err)
			}

			keys := make([]string, len(got))
			for i, e := range got {
				keys[i] = e.Key
			}

			if diff := cmp.Diff(tt.want, keys); diff != "" {
				t.Errorf("Scan() keys mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScanWithName(t *testing.T) {
	src := "cfg = {'a': 'b'}\nbuild_time_vars = {'K': 'v', 'L': 'w'}\n"

	if _, err := collect(src); !errors.Is(err, ErrMalformedSource) {
		t.Fatalf("Scan() without name: error = %v, want ErrMalformedSource", err)
	}

	got, err := collect(src, WithName("build_time_vars"))
	if err != nil {
		t.Fatalf("Scan(WithName) error = %v", err)
	}

	if len(got) != 2 || got[0].Key != "K" || got[1].Key != "L" {
		t.Errorf("Scan(WithName) = %+v, want entries K, L", got)
	}

	if _, err := collect(src, WithName("missing")); !errors.Is(err, ErrMalformedSource) {
		t.Errorf("Scan(WithName(missing)) error = %v, want ErrMalformedSource", err)
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"empty", "", ErrMalformedSource},
		{"no_literal", "x = 1\ny = [2]\n", ErrMalformedSource},
		{"multiple_literals", "A = {'k': 'v'}\nB = {'j': 'w'}\n", ErrMalformedSource},
		{"unclosed_literal", "CFG = {'A': 'x', 'B': 'y'", ErrMalformedSource},
		{"unclosed_after_colon", "CFG = {'A': ", ErrMalformedSource},
		{"unterminated_eof", "CFG = {'A': 'x", ErrUnterminatedString},
		{"unterminated_eol", "CFG = {'A': 'x\n'}", ErrUnterminatedString},
		{"unterminated_triple", "CFG = {'A': '''x'}", ErrUnterminatedString},
		{"unterminated_key", "CFG = {'A: 'x'}", ErrUnexpectedToken},
		{"missing_colon", "CFG = {'A' 'x'}", ErrUnexpectedToken},
		{"missing_comma", "CFG = {'A': 'x' 'B': 'y'}", ErrUnexpectedToken},
		{"bare_word_value", "CFG = {'A': foo}", ErrUnexpectedToken},
		{"missing_value", "CFG = {'A': }", ErrUnexpectedToken},
		{"missing_key", "CFG = {: 'x'}", ErrUnexpectedToken},
		{"unclosed_paren", "CFG = {'A': ('x'}", ErrUnexpectedToken},
		{"unterminated_outside", "CFG = {'A': 'x'}\ny = 'oops", ErrUnterminatedString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := collect(tt.src)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Scan(%q) error = %v, want %v", tt.src, err, tt.want)
			}
		})
	}
}

func TestScanErrorPosition(t *testing.T) {
	_, err := collect("CFG = {\n  'A': 'x',\n  'B' 'y'}")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("Scan() error = %T %v, want *Error", err, err)
	}

	attrs := map[string]any{}
	for _, a := range e.Attrs() {
		attrs[a.Key] = a.Value.Any()
	}

	if attrs["line"] != int64(3) || attrs["column"] != int64(7) {
		t.Errorf("error position = %v:%v, want 3:7", attrs["line"], attrs["column"])
	}
}

func TestScanStopsEarly(t *testing.T) {
	n := 0

	for range Scan("CFG = {'A': '1', 'B': '2', 'C': '3'}") {
		n++
		if n == 2 {
			break
		}
	}

	if n != 2 {
		t.Errorf("iterated %d entries, want 2", n)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`'plain'`, "plain"},
		{`"double"`, "double"},
		{`'a\\b'`, `a\b`},
		{`'it\'s'`, "it's"},
		{`"say \"hi\""`, `say "hi"`},
		{`'x\ny'`, "x\ny"},
		{`'a\tb'`, "a\tb"},
		{`'\d+'`, `\d+`},
		{"'con\\\ntinued'", "continued"},
		{"'''multi\nline'''", "multi\nline"},
		{`"""it's"""`, "it's"},
		{`'a' "b" 'c'`, "abc"},
		{"('a '\n # comment\n 'b')", "a b"},
		{`''`, ""},
		{`None`, ""},
		{`True`, "1"},
		{`False`, "0"},
		{`8`, "8"},
		{`-1`, "-1"},
		{`0x10`, "16"},
		{`1.5`, "1.5"},
		{`plain text`, "plain text"},
		{`-I/a -I/b`, "-I/a -I/b"},
		{``, ""},
		{`'unterminated`, `'unterminated`},
	}

	for _, tt := range tests {
		if got := Decode(tt.raw); got != tt.want {
			t.Errorf("Decode(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
