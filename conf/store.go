package conf

import (
	"context"
	"iter"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Store is an immutable accessor over a resolved [Table].
// It is safe for concurrent use without locking.
type Store struct {
	table *Table
}

// Load resolves t and wraps the result in a Store.
func Load(ctx context.Context, t *Table, opts ...Option) (*Store, error) {
	if t.resolved {
		return &Store{table: t}, nil
	}

	resolved, err := Resolve(ctx, t, opts...)
	if err != nil {
		return nil, err
	}

	return &Store{table: resolved}, nil
}

// Table returns the resolved table behind s.
func (s *Store) Table() *Table { return s.table }

// Len returns the number of keys.
func (s *Store) Len() int { return s.table.Len() }

// Keys returns the keys in source order.
func (s *Store) Keys() []string { return s.table.Keys() }

// All returns an iterator over the resolved entries in source order,
// including any flagged as unresolved.
func (s *Store) All() iter.Seq2[string, Value] { return s.table.All() }

// Has reports whether key is defined.
func (s *Store) Has(key string) bool {
	_, ok := s.table.vals[key]

	return ok
}

// Unresolved returns the undefined names that kept key from being fully
// resolved, or nil if key resolved completely. Only [MissingKeep] produces
// unresolved keys.
func (s *Store) Unresolved(key string) []string {
	return slices.Clone(s.table.missing[key])
}

// Lookup returns the value of key, whatever its kind.
func (s *Store) Lookup(key string) (Value, error) {
	v, ok := s.table.vals[key]
	if !ok {
		return Value{}, ErrKeyNotFound.With(slog.String("key", key))
	}

	if lacking := s.table.missing[key]; len(lacking) > 0 {
		return Value{}, &UndefinedReferenceError{Key: lacking[0], ReferencedBy: key}
	}

	return v, nil
}

// Scalar returns the value of a scalar key.
func (s *Store) Scalar(key string) (string, error) {
	v, err := s.Lookup(key)
	if err != nil {
		return "", err
	}

	if v.kind != KindScalar {
		return "", mismatch(key, KindScalar, v.kind)
	}

	return v.text, nil
}

// List returns a copy of the elements of a list key.
func (s *Store) List(key string) ([]string, error) {
	v, err := s.Lookup(key)
	if err != nil {
		return nil, err
	}

	if v.kind != KindList {
		return nil, mismatch(key, KindList, v.kind)
	}

	return v.Elems(), nil
}

// Bool interprets a scalar key as a boolean. "1", "true", "yes", and "on"
// are true; "0", "false", "no", "off", and the empty string are false.
// Case is ignored.
func (s *Store) Bool(key string) (bool, error) {
	text, err := s.Scalar(key)
	if err != nil {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(text)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "", "0", "false", "no", "off":
		return false, nil
	}

	return false, ErrTypeMismatch.With(
		slog.String("key", key),
		slog.String("want", "bool"),
		slog.String("value", text),
	)
}

// Int interprets a scalar key as a base-10 integer.
func (s *Store) Int(key string) (int, error) {
	text, err := s.Scalar(key)
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, ErrTypeMismatch.With(
			slog.String("key", key),
			slog.String("want", "int"),
			slog.String("value", text),
		)
	}

	return n, nil
}

// words returns the whitespace-separated words of key, whatever its kind.
func (s *Store) words(key string) ([]string, error) {
	v, err := s.Lookup(key)
	if err != nil {
		return nil, err
	}

	if v.kind == KindList {
		return v.Elems(), nil
	}

	return strings.Fields(v.text), nil
}

func mismatch(key string, want, got Kind) error {
	return ErrTypeMismatch.With(
		slog.String("key", key),
		slog.String("want", want.String()),
		slog.String("got", got.String()),
	)
}
