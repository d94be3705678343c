package repl

import (
	"testing"

	"github.com/sahilm/fuzzy"
)

func TestWordBounds_ExprOperators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"dot_separated", "path.jo", 7, "jo", 5, 7},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_minus", "SIZE-fo", 7, "fo", 5, 7},
		{"after_paren", "flag(Py_", 8, "Py_", 5, 8},
		{"after_quote", `get("LIB`, 8, "LIB", 5, 8},
		{"after_comma", "add(a, fo", 9, "fo", 7, 9},
		{"in_ternary", "x ? fo", 6, "fo", 4, 6},
		{"after_comparison", "a > fo", 6, "fo", 4, 6},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"cursor_past_end", "abc", 10, "abc", 0, 3},
		{"empty_after_dot", "path.", 5, "", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "fo", 0, ""},
		{"member", "path.jo", 5, "path"},
		{"after_operator", "x + path.", 9, "path"},
		{"after_paren", "(path.", 6, "path"},
		{"no_chain", "a + ", 4, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parentName(tt.input, tt.wordStart); got != tt.want {
				t.Errorf("parentName(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestRenderCandidateBar(t *testing.T) {
	matches := fuzzy.Matches{
		{Str: "CFLAGS"},
		{Str: "CONFIGURE_CFLAGS"},
		{Str: "PY_CFLAGS"},
	}

	if got := renderCandidateBar(nil, -1, false, 80); got != "" {
		t.Errorf("renderCandidateBar(nil) = %q, want empty", got)
	}

	if got := renderCandidateBar(matches, -1, false, 0); got != "" {
		t.Errorf("renderCandidateBar(width 0) = %q, want empty", got)
	}

	wide := renderCandidateBar(matches, 0, true, 80)
	if w := len([]rune(stripANSI(wide))); w > 80 {
		t.Errorf("renderCandidateBar(80) width = %d", w)
	}

	narrow := stripANSI(renderCandidateBar(matches, -1, false, 12))
	if narrow != "CFLAGS  ..." {
		t.Errorf("renderCandidateBar(12) = %q, want %q", narrow, "CFLAGS  ...")
	}
}

// stripANSI removes SGR escape sequences.
func stripANSI(s string) string {
	var out []rune

	esc := false

	for _, r := range s {
		switch {
		case r == '\x1b':
			esc = true
		case esc && r == 'm':
			esc = false
		case !esc:
			out = append(out, r)
		}
	}

	return string(out)
}
