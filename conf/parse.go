package conf

import (
	"context"
	"io"
	"log/slog"
)

// ParseReader reads all of r and parses it with [Parse].
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return Parse(ctx, string(data), opts...)
}

// Parse scans, normalizes, and resolves the dictionary literal in src and
// returns a [Store] over the result.
func Parse(ctx context.Context, src string, opts ...Option) (*Store, error) {
	t, err := ParseTable(ctx, src, opts...)
	if err != nil {
		return nil, err
	}

	s, err := Load(ctx, t, opts...)
	if err != nil {
		return nil, err
	}

	makeOptions(opts...).logger.TraceContext(ctx, "parse complete",
		slog.Int("key_count", s.Len()))

	return s, nil
}

// ParseTable scans and normalizes the dictionary literal in src without
// resolving placeholders.
func ParseTable(ctx context.Context, src string, opts ...Option) (*Table, error) {
	return Normalize(ctx, Scan(src, opts...), opts...)
}
