package conf

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
//
// Every error returned by this package satisfies errors.Is for exactly one
// of these, regardless of how many attributes or causes were attached.
var (
	ErrMalformedSource    = NewError("malformed source")
	ErrUnterminatedString = NewError("unterminated string")
	ErrUnexpectedToken    = NewError("unexpected token")
	ErrCircularReference  = NewError("circular reference")
	ErrUndefinedReference = NewError("undefined reference")
	ErrKeyNotFound        = NewError("key not found")
	ErrTypeMismatch       = NewError("type mismatch")
	ErrMaxDepthExceeded   = NewError("maximum reference depth exceeded")
	ErrReadInput          = NewError("failed to read input")
	ErrInvalidFormat      = NewError("invalid format")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	base  *Error // sentinel this error was derived from
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether e and target derive from the same sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}

	return e.root() == t.root()
}

// Attrs returns a copy of the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr {
	return append([]slog.Attr(nil), e.attrs...)
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.Any("cause", e.err))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		base:  e.root(),
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		base:  e.root(),
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// WithPosition adds the source position to the error attributes.
func (e *Error) WithPosition(pos Position) *Error {
	return e.With(
		slog.Int("line", pos.Line),
		slog.Int("column", pos.Column),
	)
}

func (e *Error) root() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}

// CircularReferenceError reports a placeholder chain that refers back to
// itself. Cycle lists the keys on the cycle in the order they were entered,
// starting with the key that was revisited.
type CircularReferenceError struct {
	Cycle []string
}

// Error implements the error interface.
func (e *CircularReferenceError) Error() string {
	if len(e.Cycle) == 0 {
		return ErrCircularReference.msg
	}

	return ErrCircularReference.msg + ": " +
		strings.Join(e.Cycle, " -> ") + " -> " + e.Cycle[0]
}

// Unwrap returns [ErrCircularReference].
func (e *CircularReferenceError) Unwrap() error { return ErrCircularReference }

// LogValue implements slog.LogValuer.
func (e *CircularReferenceError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrCircularReference.msg),
		slog.Any("cycle", e.Cycle),
	)
}

// UndefinedReferenceError reports a placeholder naming a key that is not
// defined anywhere.
type UndefinedReferenceError struct {
	Key          string // the missing key named by the placeholder
	ReferencedBy string // the key whose value contains the placeholder
}

// Error implements the error interface.
func (e *UndefinedReferenceError) Error() string {
	return ErrUndefinedReference.msg + ": $(" + e.Key + ")" +
		" referenced by " + e.ReferencedBy
}

// Unwrap returns [ErrUndefinedReference].
func (e *UndefinedReferenceError) Unwrap() error { return ErrUndefinedReference }

// LogValue implements slog.LogValuer.
func (e *UndefinedReferenceError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrUndefinedReference.msg),
		slog.String("key", e.Key),
		slog.String("referenced_by", e.ReferencedBy),
	)
}
