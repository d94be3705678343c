package cmd

import (
	"context"
	"fmt"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/sysconf/conf"
)

// List prints the names of configuration variables.
type List struct {
	Pattern string `arg:"" help:"Fuzzy pattern selecting variable names" optional:""`
	Values  bool   `help:"Print each value after its name"              short:"v"`
}

// Run executes the list command.
func (l *List) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	store, err := SourceFrom(ctx).Load(ctx)
	if err != nil {
		return err
	}

	w := OutputFrom(ctx)

	for _, key := range l.keys(store) {
		line := key

		if l.Values {
			v, _ := store.Table().Get(key)
			line += " = " + conf.Quote(v.Text())
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}

// keys returns all keys in source order, or the keys matching the pattern
// ranked best first.
func (l *List) keys(store *conf.Store) []string {
	if l.Pattern == "" {
		return store.Keys()
	}

	matches := fuzzy.Find(l.Pattern, store.Keys())
	keys := make([]string, len(matches))

	for i, m := range matches {
		keys[i] = m.Str
	}

	return keys
}
