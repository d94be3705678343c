package conf

import (
	"context"
	"log/slog"
	"slices"
	"strings"
)

// Resolve substitutes every $(NAME) and ${NAME} placeholder in every string
// of t with the resolved text of NAME, and returns the result as a new
// resolved table. t itself is not modified.
//
// Each key is resolved at most once. A list value is resolved element by
// element; a placeholder naming a list is replaced by its elements joined
// with single spaces and never splits the element that contains it. A '$'
// that does not begin a well-formed placeholder is literal text.
//
// Keys are visited in source order, so when resolution fails the error
// describes the first failure reachable from the earliest key. Failures are
// [*CircularReferenceError], [*UndefinedReferenceError] (under
// [MissingFail]), [ErrMaxDepthExceeded], or the context's error.
func Resolve(ctx context.Context, t *Table, opts ...Option) (*Table, error) {
	o := makeOptions(opts...)

	r := &resolver{
		src:    t,
		opts:   &o,
		done:   make(map[string]Value, t.Len()),
		active: make(map[string]int),
	}

	out := newTable(t.name, t.Len())

	for key := range t.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		v, err := r.resolve(key)
		if err != nil {
			return nil, err
		}

		out.set(key, v, t.pos[key])
	}

	out.resolved = true
	if len(r.missing) > 0 {
		out.missing = r.missing
	}

	o.logger.TraceContext(ctx, "resolve complete",
		slog.Int("key_count", out.Len()),
		slog.Int("substitutions", r.subs),
		slog.Int("unresolved", len(r.missing)),
	)

	return out, nil
}

// resolver holds the state of one resolution pass.
type resolver struct {
	src     *Table
	opts    *options
	done    map[string]Value    // memoized results
	active  map[string]int      // keys on the recursion path, by index
	missing map[string][]string // flagged keys and the names they lack
	path    []string
	subs    int
}

func (r *resolver) resolve(key string) (Value, error) {
	if v, ok := r.done[key]; ok {
		return v, nil
	}

	if i, ok := r.active[key]; ok {
		return Value{}, &CircularReferenceError{Cycle: slices.Clone(r.path[i:])}
	}

	if r.opts.maxDepth > 0 && len(r.path) >= r.opts.maxDepth {
		return Value{}, ErrMaxDepthExceeded.With(
			slog.Int("max_depth", r.opts.maxDepth),
			slog.String("key", key),
			slog.Any("chain", slices.Clone(r.path)),
		)
	}

	r.active[key] = len(r.path)
	r.path = append(r.path, key)

	defer func() {
		r.path = r.path[:len(r.path)-1]
		delete(r.active, key)
	}()

	v := r.src.vals[key]

	if v.kind == KindList {
		elems := make([]string, len(v.elems))

		for i, elem := range v.elems {
			text, err := r.expand(key, elem)
			if err != nil {
				return Value{}, err
			}

			elems[i] = text
		}

		v = Value{kind: KindList, elems: elems}
	} else {
		text, err := r.expand(key, v.text)
		if err != nil {
			return Value{}, err
		}

		v = Scalar(text)
	}

	r.done[key] = v

	return v, nil
}

// expand substitutes the placeholders in s, which belongs to owner.
func (r *resolver) expand(owner, s string) (string, error) {
	i := strings.IndexByte(s, '$')
	if i < 0 {
		return s, nil
	}

	var b strings.Builder

	b.Grow(len(s))

	for i >= 0 {
		b.WriteString(s[:i])
		s = s[i:]

		name, n := placeholder(s)
		if n == 0 {
			b.WriteByte('$')
			s = s[1:]
		} else {
			text, err := r.lookup(owner, name, s[:n])
			if err != nil {
				return "", err
			}

			b.WriteString(text)
			s = s[n:]
			r.subs++
		}

		i = strings.IndexByte(s, '$')
	}

	b.WriteString(s)

	return b.String(), nil
}

// lookup returns the replacement text for the placeholder literal ref
// naming name.
func (r *resolver) lookup(owner, name, ref string) (string, error) {
	if _, ok := r.src.vals[name]; ok {
		v, err := r.resolve(name)
		if err != nil {
			return "", err
		}

		if lacking, ok := r.missing[name]; ok {
			r.flag(owner, lacking...)
		}

		return v.Text(), nil
	}

	if text, ok := r.opts.fallback[name]; ok {
		return text, nil
	}

	if r.opts.missing == MissingKeep {
		r.flag(owner, name)

		return ref, nil
	}

	return "", &UndefinedReferenceError{Key: name, ReferencedBy: owner}
}

// flag records that key could not be fully resolved.
func (r *resolver) flag(key string, names ...string) {
	if r.missing == nil {
		r.missing = make(map[string][]string)
	}

	for _, name := range names {
		if !slices.Contains(r.missing[key], name) {
			r.missing[key] = append(r.missing[key], name)
		}
	}
}

// placeholder reports the name and byte length of the placeholder at the
// start of s, or a zero length if s does not start with one.
func placeholder(s string) (string, int) {
	if len(s) < 4 || s[0] != '$' {
		return "", 0
	}

	var closing byte

	switch s[1] {
	case '(':
		closing = ')'
	case '{':
		closing = '}'
	default:
		return "", 0
	}

	j := 2
	for j < len(s) && isNameByte(s[j]) {
		j++
	}

	if j == 2 || j == len(s) || s[j] != closing {
		return "", 0
	}

	return s[2:j], j + 1
}

func isNameByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// HasPlaceholder reports whether s contains a well-formed placeholder.
func HasPlaceholder(s string) bool {
	for i := strings.IndexByte(s, '$'); i >= 0; {
		if _, n := placeholder(s[i:]); n > 0 {
			return true
		}

		next := strings.IndexByte(s[i+1:], '$')
		if next < 0 {
			return false
		}

		i += next + 1
	}

	return false
}
