package conf

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func formatTable() *Table {
	return new(Builder).
		Scalar("A", "x").
		List("L", "a", "b").
		List("E").
		Table()
}

func TestFormatNativeRoundTrip(t *testing.T) {
	ctx := context.Background()
	orig := mustParse(t, sysconfigdata)

	for _, indent := range []int{0, 1, 4} {
		var buf bytes.Buffer

		if err := orig.Format(ctx, &buf, FormatNative, indent); err != nil {
			t.Fatalf("Format(native, %d) error = %v", indent, err)
		}

		if !strings.HasPrefix(buf.String(), "build_time_vars = {") {
			t.Errorf("Format(native, %d) = %q, want build_time_vars assignment", indent, buf.String())
		}

		again := mustParse(t, buf.String())
		if diff := cmp.Diff(orig.Table(), again.Table()); diff != "" {
			t.Errorf("native round trip (indent %d) mismatch (-want +got):\n%s", indent, diff)
		}
	}
}

func TestFormatNativeLayout(t *testing.T) {
	var buf bytes.Buffer

	tab := new(Builder).Name("config").Scalar("log_level", "debug").Scalar("q", "it's").Table()

	if err := tab.Format(context.Background(), &buf, FormatNative, 2); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := "config = {\n  'log_level': 'debug',\n  'q': 'it\\'s',\n}\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("Format(native) mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatJSON(t *testing.T) {
	tests := []struct {
		indent int
		want   string
	}{
		{0, `{"A":"x","L":["a","b"],"E":[]}` + "\n"},
		{2, "{\n  \"A\": \"x\",\n  \"L\": [\n    \"a\",\n    \"b\"\n  ],\n  \"E\": []\n}\n"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer

		if err := formatTable().Format(context.Background(), &buf, FormatJSON, tt.indent); err != nil {
			t.Fatalf("Format(json, %d) error = %v", tt.indent, err)
		}

		if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
			t.Errorf("Format(json, %d) mismatch (-want +got):\n%s", tt.indent, diff)
		}
	}
}

func TestFormatYAML(t *testing.T) {
	var buf bytes.Buffer

	if err := formatTable().Format(context.Background(), &buf, FormatYAML, 2); err != nil {
		t.Fatalf("Format(yaml) error = %v", err)
	}

	out := buf.String()

	a, l, e := strings.Index(out, "A: x"), strings.Index(out, "L:"), strings.Index(out, "E:")
	if a < 0 || l < 0 || e < 0 || !(a < l && l < e) {
		t.Errorf("Format(yaml) = %q, want keys A, L, E in order", out)
	}

	if !strings.Contains(out, "- a") || !strings.Contains(out, "- b") {
		t.Errorf("Format(yaml) = %q, want list items", out)
	}
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{
		"native": FormatNative,
		"JSON":   FormatJSON,
		" yml ":  FormatYAML,
	} {
		got, err := ParseFormat(name)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v, want %v", name, got, err, want)
		}
	}

	if _, err := ParseFormat("toml"); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("ParseFormat(toml) error = %v, want ErrInvalidFormat", err)
	}
}

func TestQuoteDecode(t *testing.T) {
	for _, s := range []string{"", "plain", "it's", `back\slash`, "tab\there", "line\nbreak", `"dq"`, "$(KEY)"} {
		if got := Decode(Quote(s)); got != s {
			t.Errorf("Decode(Quote(%q)) = %q", s, got)
		}
	}
}
