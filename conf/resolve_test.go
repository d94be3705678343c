package conf

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustTable(t *testing.T, src string, opts ...Option) *Table {
	t.Helper()

	tab, err := ParseTable(context.Background(), src, opts...)
	if err != nil {
		t.Fatalf("ParseTable(%q) error = %v", src, err)
	}

	return tab
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want map[string]string
	}{
		{
			name: "no_placeholders",
			src:  "CFG = {'A': 'x', 'B': 'y z'}",
			want: map[string]string{"A": "x", "B": "y z"},
		},
		{
			name: "forward_reference",
			src:  "CFG = {'A': '$(B)/bin', 'B': '/usr/local'}",
			want: map[string]string{"A": "/usr/local/bin", "B": "/usr/local"},
		},
		{
			name: "surrounding_text",
			src:  "CFG = {'A': 'pre-$(B)-post', 'B': 'mid'}",
			want: map[string]string{"A": "pre-mid-post", "B": "mid"},
		},
		{
			name: "brace_form",
			src:  "CFG = {'A': '${B}${B}', 'B': 'x'}",
			want: map[string]string{"A": "xx", "B": "x"},
		},
		{
			name: "transitive",
			src:  "CFG = {'A': '$(B)/a', 'B': '$(C)/b', 'C': '/c'}",
			want: map[string]string{"A": "/c/b/a", "B": "/c/b", "C": "/c"},
		},
		{
			name: "shared_referent",
			src:  "CFG = {'A': '$(C)', 'B': '$(C)', 'C': 'c'}",
			want: map[string]string{"A": "c", "B": "c", "C": "c"},
		},
		{
			name: "literal_dollar",
			src:  "CFG = {'A': 'cost $5 $( $(B', 'B': 'b'}",
			want: map[string]string{"A": "cost $5 $( $(B", "B": "b"},
		},
		{
			name: "doubled_dollar",
			src:  "CFG = {'A': '$$(B)', 'B': 'b'}",
			want: map[string]string{"A": "$b", "B": "b"},
		},
		{
			name: "mismatched_brackets",
			src:  "CFG = {'A': '$(B} ${B)', 'B': 'b'}",
			want: map[string]string{"A": "$(B} ${B)", "B": "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(context.Background(), mustTable(t, tt.src))
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}

			texts := make(map[string]string, got.Len())
			for key, v := range got.All() {
				texts[key] = v.Text()
			}

			if diff := cmp.Diff(tt.want, texts); diff != "" {
				t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
			}

			if !got.Resolved() {
				t.Error("Resolved() = false, want true")
			}
		})
	}
}

func TestResolveCircularReference(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"self", "CFG = {'A': '$(A)'}", []string{"A"}},
		{"pair", "CFG = {'A': '$(B)', 'B': '$(A)'}", []string{"A", "B"}},
		{"triple", "CFG = {'A': 'x$(B)', 'B': '$(C)y', 'C': '${A}'}", []string{"A", "B", "C"}},
		{"tail", "CFG = {'A': '$(B)', 'B': '$(C)', 'C': '$(B)'}", []string{"B", "C"}},
		{"later_key", "CFG = {'A': 'ok', 'B': '$(B)'}", []string{"B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(context.Background(), mustTable(t, tt.src))

			if !errors.Is(err, ErrCircularReference) {
				t.Fatalf("Resolve() error = %v, want ErrCircularReference", err)
			}

			var cre *CircularReferenceError
			if !errors.As(err, &cre) {
				t.Fatalf("Resolve() error = %T, want *CircularReferenceError", err)
			}

			if diff := cmp.Diff(tt.want, cre.Cycle); diff != "" {
				t.Errorf("Cycle mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveUndefinedReference(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want UndefinedReferenceError
	}{
		{"direct", "CFG = {'A': '$(MISSING)'}", UndefinedReferenceError{"MISSING", "A"}},
		{"nested", "CFG = {'A': '$(B)', 'B': '$(X)'}", UndefinedReferenceError{"X", "B"}},
		{"first_in_order", "CFG = {'A': '$(X)', 'B': '$(Y)'}", UndefinedReferenceError{"X", "A"}},
		{"first_in_order_reversed", "CFG = {'B': '$(Y)', 'A': '$(X)'}", UndefinedReferenceError{"Y", "B"}},
		{"case_sensitive", "CFG = {'a': '1', 'B': '$(A)'}", UndefinedReferenceError{"A", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(context.Background(), mustTable(t, tt.src))

			var ure *UndefinedReferenceError
			if !errors.As(err, &ure) {
				t.Fatalf("Resolve() error = %v, want *UndefinedReferenceError", err)
			}

			if diff := cmp.Diff(tt.want, *ure); diff != "" {
				t.Errorf("UndefinedReferenceError mismatch (-want +got):\n%s", diff)
			}

			if !errors.Is(err, ErrUndefinedReference) {
				t.Errorf("errors.Is(%v, ErrUndefinedReference) = false", err)
			}
		})
	}
}

func TestResolveLists(t *testing.T) {
	tab := new(Builder).
		Scalar("LIBDIR", "/usr/lib").
		List("LIBS", "-L$(LIBDIR)", "-lm").
		Scalar("LINK", "cc $(LIBS)").
		List("MIXED", "$(LIBS)", "-x").
		List("EMPTY").
		Table()

	got, err := Resolve(context.Background(), tab)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := new(Builder).
		Scalar("LIBDIR", "/usr/lib").
		List("LIBS", "-L/usr/lib", "-lm").
		Scalar("LINK", "cc -L/usr/lib -lm").
		List("MIXED", "-L/usr/lib -lm", "-x").
		List("EMPTY").
		Table()

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveIdempotent(t *testing.T) {
	src := "CFG = {'A': '$(B)/bin', 'B': '$(C)/local', 'C': '/usr', 'CFLAGS': '-I$(A) -g'}"
	tab := mustTable(t, src)
	ctx := context.Background()

	once, err := Resolve(ctx, tab)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	twice, err := Resolve(ctx, once)
	if err != nil {
		t.Fatalf("Resolve(Resolve()) error = %v", err)
	}

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second Resolve() changed the table (-once +twice):\n%s", diff)
	}

	if v, _ := tab.Get("A"); v.Text() != "$(B)/bin" {
		t.Errorf("input table modified: A = %q", v.Text())
	}
}

func TestResolveMissingKeep(t *testing.T) {
	tab := mustTable(t, "CFG = {'A': '$(MISSING)/x', 'B': '$(A)', 'C': 'ok', 'D': '$(C)'}")

	got, err := Resolve(context.Background(), tab, WithMissing(MissingKeep))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if v, _ := got.Get("A"); v.Text() != "$(MISSING)/x" {
		t.Errorf("A = %q, want placeholder kept", v.Text())
	}

	store, err := Load(context.Background(), got)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	for _, key := range []string{"A", "B"} {
		_, err := store.Scalar(key)

		var ure *UndefinedReferenceError
		if !errors.As(err, &ure) {
			t.Fatalf("Scalar(%q) error = %v, want *UndefinedReferenceError", key, err)
		}

		if ure.Key != "MISSING" || ure.ReferencedBy != key {
			t.Errorf("Scalar(%q) error = %+v", key, *ure)
		}

		if diff := cmp.Diff([]string{"MISSING"}, store.Unresolved(key)); diff != "" {
			t.Errorf("Unresolved(%q) mismatch (-want +got):\n%s", key, diff)
		}
	}

	if v, err := store.Scalar("D"); err != nil || v != "ok" {
		t.Errorf("Scalar(D) = %q, %v, want %q", v, err, "ok")
	}

	if u := store.Unresolved("D"); u != nil {
		t.Errorf("Unresolved(D) = %v, want nil", u)
	}
}

func TestResolveFallback(t *testing.T) {
	tab := mustTable(t, "CFG = {'A': '$(HOME)/x', 'B': '$(USER)', 'USER': 'table'}")

	got, err := Resolve(context.Background(), tab,
		WithProcessEnv([]string{"HOME=/home/u", "USER=env", "BROKEN"}))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := map[string]string{"A": "/home/u/x", "B": "table", "USER": "table"}
	for key, text := range want {
		if v, _ := got.Get(key); v.Text() != text {
			t.Errorf("%s = %q, want %q", key, v.Text(), text)
		}
	}
}

func TestResolveMaxDepth(t *testing.T) {
	// chain returns K0 -> K1 -> ... -> Kn = "end".
	chain := func(n int) *Table {
		b := new(Builder)
		for i := range n {
			b.Scalar("K"+strconv.Itoa(i), "$(K"+strconv.Itoa(i+1)+")")
		}

		return b.Scalar("K"+strconv.Itoa(n), "end").Table()
	}

	ctx := context.Background()

	if _, err := Resolve(ctx, chain(10), WithMaxDepth(3)); !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("Resolve(WithMaxDepth(3)) error = %v, want ErrMaxDepthExceeded", err)
	}

	tests := []struct {
		name string
		n    int
		opts []Option
	}{
		{"unbounded", 300, nil},
		{"zero_is_unbounded", 300, []Option{WithMaxDepth(0)}},
		{"within_bound", 10, []Option{WithMaxDepth(11)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(ctx, chain(tt.n), tt.opts...)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}

			if v, _ := got.Get("K0"); v.Text() != "end" {
				t.Errorf("K0 = %q, want %q", v.Text(), "end")
			}
		})
	}
}

func TestParseLongChain(t *testing.T) {
	var src strings.Builder

	src.WriteString("build_time_vars = {")

	for i := range 300 {
		fmt.Fprintf(&src, "'K%d': '$(K%d)',\n", i, i+1)
	}

	src.WriteString("'K300': 'end'}\n")

	store, err := Parse(context.Background(), src.String())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got, _ := store.Scalar("K0"); got != "end" {
		t.Errorf("Scalar(K0) = %q, want %q", got, "end")
	}
}

func TestResolveCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Resolve(ctx, mustTable(t, "CFG = {'A': 'x'}"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Resolve() error = %v, want context.Canceled", err)
	}
}

func TestHasPlaceholder(t *testing.T) {
	for s, want := range map[string]bool{
		"":           false,
		"plain":      false,
		"$":          false,
		"$5 $(":      false,
		"$(A)":       true,
		"x ${B_1} y": true,
		"$$ $(C)":    true,
		"$()":        false,
	} {
		if got := HasPlaceholder(s); got != want {
			t.Errorf("HasPlaceholder(%q) = %v, want %v", s, got, want)
		}
	}
}
