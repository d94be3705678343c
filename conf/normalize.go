package conf

import (
	"context"
	"iter"
	"log/slog"
	"strings"
)

// ListPolicy reports whether the value of key should normalize to a list.
type ListPolicy func(key string) bool

// defaultListKeys are the link-line variables of a CPython build whose
// values are word lists without a FLAGS suffix.
var defaultListKeys = ListKeys(
	"LIBS",
	"SYSLIBS",
	"SHLIBS",
	"MODLIBS",
	"LOCALMODLIBS",
	"BASEMODLIBS",
	"LINKFORSHARED",
	"LIBC",
	"LIBM",
)

// DefaultListPolicy selects keys ending in "FLAGS" and the library list
// variables (LIBS, SYSLIBS, LINKFORSHARED, ...).
func DefaultListPolicy(key string) bool {
	return strings.HasSuffix(key, "FLAGS") || defaultListKeys(key)
}

// ListKeys returns a policy selecting exactly the given keys.
func ListKeys(keys ...string) ListPolicy {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}

	return func(key string) bool {
		_, ok := set[key]

		return ok
	}
}

// Or returns a policy selecting keys selected by either p or q.
func (p ListPolicy) Or(q ListPolicy) ListPolicy {
	switch {
	case p == nil:
		return q
	case q == nil:
		return p
	}

	return func(key string) bool { return p(key) || q(key) }
}

// NormalizeValue converts a raw value literal into a [Value] of the given
// kind. Lists split the decoded text on runs of whitespace; empty text is an
// empty list. NormalizeValue accepts any input.
func NormalizeValue(raw string, kind Kind) Value {
	text := Decode(raw)

	if kind == KindList {
		return Value{kind: KindList, elems: append([]string{}, strings.Fields(text)...)}
	}

	return Scalar(text)
}

// Normalize drains a sequence of raw entries into an unresolved [Table],
// choosing each value's kind with the configured [ListPolicy]. If a key
// occurs more than once, the last value wins.
//
// The first error in entries is returned as-is.
func Normalize(
	ctx context.Context,
	entries iter.Seq2[RawEntry, error],
	opts ...Option,
) (*Table, error) {
	o := makeOptions(opts...)
	t := newTable(o.name, 0)

	for e, err := range entries {
		if err != nil {
			return nil, err
		}

		kind := KindScalar
		if o.list(e.Key) {
			kind = KindList
		}

		t.set(e.Key, NormalizeValue(e.Raw, kind), e.Pos)
	}

	o.logger.TraceContext(ctx, "normalize complete",
		slog.Int("entry_count", t.Len()))

	return t, nil
}
