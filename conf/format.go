package conf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format selects the output encoding of [Table.Format].
type Format uint8

const (
	FormatNative Format = iota // native
	FormatJSON                 // json
	FormatYAML                 // yaml
)

// String returns the name of f.
func (f Format) String() string {
	switch f {
	case FormatNative:
		return "native"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Formats returns an iterator over the names of all output formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, f := range []Format{FormatNative, FormatJSON, FormatYAML} {
			if !yield(f.String()) {
				return
			}
		}
	}
}

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "native", "py", "python":
		return FormatNative, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}

	return 0, ErrInvalidFormat.With(slog.String("format", s))
}

// Format writes t to w in the given format. Native output is a dictionary
// literal assignment that scans back to an equal table under the same list
// policy. Lists are written as JSON and YAML sequences.
//
// An indent less than 1 selects compact output where the format has one.
func (t *Table) Format(
	ctx context.Context,
	w io.Writer,
	f Format,
	indent int,
) error {
	switch f {
	case FormatNative:
		return t.formatNative(w, indent)
	case FormatJSON:
		return t.formatJSON(w, indent)
	case FormatYAML:
		return t.formatYAML(ctx, w, indent)
	}

	return ErrInvalidFormat.With(slog.String("format", f.String()))
}

// Format writes the resolved table to w. See [Table.Format].
func (s *Store) Format(
	ctx context.Context,
	w io.Writer,
	f Format,
	indent int,
) error {
	return s.table.Format(ctx, w, f, indent)
}

func (t *Table) formatNative(w io.Writer, indent int) error {
	var buf bytes.Buffer

	buf.WriteString(t.Name())
	buf.WriteString(" = {")

	pad, sep := "", " "
	if indent > 0 {
		pad, sep = strings.Repeat(" ", indent), "\n"
	}

	for i, key := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteString(sep)
		buf.WriteString(pad)
		buf.WriteString(Quote(key))
		buf.WriteString(": ")
		buf.WriteString(Quote(t.vals[key].Text()))
	}

	if len(t.keys) > 0 {
		if indent > 0 {
			buf.WriteByte(',')
		}

		buf.WriteString(sep)
	}

	buf.WriteString("}\n")

	_, err := w.Write(buf.Bytes())

	return err
}

func (t *Table) formatJSON(w io.Writer, indent int) error {
	data, err := t.MarshalJSON()
	if err != nil {
		return err
	}

	var buf bytes.Buffer

	if indent > 0 {
		err = json.Indent(&buf, data, "", strings.Repeat(" ", indent))
		if err != nil {
			return err
		}
	} else {
		buf.Write(data)
	}

	buf.WriteByte('\n')

	_, err = w.Write(buf.Bytes())

	return err
}

func (t *Table) formatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, t.mapSlice(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// MarshalJSON encodes t as a JSON object with keys in source order.
// Scalars are strings and lists are arrays of strings.
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, key := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}

		v, err := json.Marshal(t.vals[key].native())
		if err != nil {
			return nil, err
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML encodes t as an ordered YAML mapping.
func (t *Table) MarshalYAML() (any, error) {
	return t.mapSlice(), nil
}

func (t *Table) mapSlice() yaml.MapSlice {
	ms := make(yaml.MapSlice, 0, len(t.keys))

	for _, key := range t.keys {
		ms = append(ms, yaml.MapItem{Key: key, Value: t.vals[key].native()})
	}

	return ms
}

// native returns v as a string or []string.
func (v Value) native() any {
	if v.kind == KindList {
		return v.Elems()
	}

	return v.text
}

// Quote returns s as a single-quoted string literal that [Decode] maps back
// to s.
func Quote(s string) string {
	var b strings.Builder

	b.Grow(len(s) + 2)
	b.WriteByte('\'')

	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}

	b.WriteByte('\'')

	return b.String()
}
