package conf

import (
	"iter"
	"maps"
	"slices"
	"strings"
)

// Kind identifies the shape of a [Value].
type Kind uint8

const (
	KindScalar Kind = iota // scalar
	KindList               // list
)

// String returns the name of k.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is either a single string (scalar) or an ordered sequence of
// strings (list). The zero Value is the empty scalar.
type Value struct {
	text  string
	elems []string
	kind  Kind
}

// Scalar returns a scalar Value.
func Scalar(text string) Value {
	return Value{kind: KindScalar, text: text}
}

// List returns a list Value. A list with no elements is distinct from an
// absent value.
func List(elems ...string) Value {
	return Value{kind: KindList, elems: append([]string{}, elems...)}
}

// Kind returns the shape of v.
func (v Value) Kind() Kind { return v.kind }

// IsList reports whether v is a list.
func (v Value) IsList() bool { return v.kind == KindList }

// Text returns the scalar text of v, or the elements of a list joined by
// single spaces.
func (v Value) Text() string {
	if v.kind == KindList {
		return strings.Join(v.elems, " ")
	}

	return v.text
}

// Elems returns a copy of the elements of a list, or nil for a scalar.
func (v Value) Elems() []string {
	if v.kind != KindList {
		return nil
	}

	return append([]string{}, v.elems...)
}

// String implements fmt.Stringer.
func (v Value) String() string { return v.Text() }

// Equal reports whether v and o have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	if v.kind == KindList {
		return slices.Equal(v.elems, o.elems)
	}

	return v.text == o.text
}

// Table is an ordered mapping of unique, case-sensitive keys to values.
//
// A Table returned by [Normalize] is unresolved; one held by a [Store] is
// resolved. Neither is modified after construction.
type Table struct {
	vals     map[string]Value
	pos      map[string]Position
	missing  map[string][]string
	name     string
	keys     []string
	resolved bool
}

func newTable(name string, size int) *Table {
	return &Table{
		name: name,
		keys: make([]string, 0, size),
		vals: make(map[string]Value, size),
		pos:  make(map[string]Position, size),
	}
}

// set stores v under key. A repeated key keeps its original position and
// order but takes the new value.
func (t *Table) set(key string, v Value, pos Position) {
	if _, ok := t.vals[key]; !ok {
		t.keys = append(t.keys, key)
		t.pos[key] = pos
	}

	t.vals[key] = v
}

// Name returns the dictionary variable name the table was read from or
// will be written as.
func (t *Table) Name() string {
	if t.name == "" {
		return DefaultName
	}

	return t.name
}

// Resolved reports whether placeholder resolution produced t.
func (t *Table) Resolved() bool { return t.resolved }

// Len returns the number of keys.
func (t *Table) Len() int { return len(t.keys) }

// Keys returns the keys in source order.
func (t *Table) Keys() []string { return slices.Clone(t.keys) }

// Get returns the value stored under key.
func (t *Table) Get(key string) (Value, bool) {
	v, ok := t.vals[key]

	return v, ok
}

// Position returns the source position of key, if it was read from source.
func (t *Table) Position(key string) (Position, bool) {
	p, ok := t.pos[key]

	return p, ok
}

// All returns an iterator over the entries in source order.
func (t *Table) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, key := range t.keys {
			if !yield(key, t.vals[key]) {
				return
			}
		}
	}
}

// Equal reports whether t and o hold the same entries in the same order.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}

	if !slices.Equal(t.keys, o.keys) {
		return false
	}

	return maps.EqualFunc(t.vals, o.vals, Value.Equal)
}

// Builder assembles a [Table] programmatically.
// The zero Builder is ready to use.
type Builder struct {
	t *Table
}

func (b *Builder) table() *Table {
	if b.t == nil {
		b.t = newTable("", 0)
	}

	return b.t
}

// Name sets the dictionary variable name of the table.
func (b *Builder) Name(name string) *Builder {
	b.table().name = name

	return b
}

// Set stores a value under key, replacing any existing value.
func (b *Builder) Set(key string, v Value) *Builder {
	b.table().set(key, v, Position{})

	return b
}

// Scalar stores a scalar value under key.
func (b *Builder) Scalar(key, text string) *Builder {
	return b.Set(key, Scalar(text))
}

// List stores a list value under key.
func (b *Builder) List(key string, elems ...string) *Builder {
	return b.Set(key, List(elems...))
}

// Table returns a snapshot of the entries set so far. Later calls on b do
// not affect the returned table.
func (b *Builder) Table() *Table {
	src := b.table()
	t := newTable(src.name, len(src.keys))

	for key, v := range src.All() {
		t.set(key, v, src.pos[key])
	}

	return t
}
