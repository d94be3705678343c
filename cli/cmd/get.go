package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/sysconf/conf"
)

// maxSuggestions limits the "did you mean" candidates of an unknown key.
const maxSuggestions = 3

// Get prints the values of configuration variables.
type Get struct {
	Keys []string `arg:"" help:"Variable names to print" name:"key"`
	Type string   `default:"auto" enum:"auto,string,list,bool,int" help:"Interpret values as ${enum}" short:"t"`
	List bool     `help:"Print values one word per line (same as --type=list)" short:"l"`
}

// Run executes the get command.
func (g *Get) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	store, err := SourceFrom(ctx).Load(ctx)
	if err != nil {
		return err
	}

	typ := g.Type
	if g.List {
		typ = "list"
	}

	w := OutputFrom(ctx)

	for _, key := range g.Keys {
		if err := g.print(w, store, key, typ); err != nil {
			return err
		}
	}

	return nil
}

func (g *Get) print(w io.Writer, store *conf.Store, key, typ string) error {
	if !store.Has(key) {
		return unknownKey(store, key)
	}

	var (
		lines []string
		err   error
	)

	switch typ {
	case "string":
		var s string
		s, err = store.Scalar(key)
		lines = []string{s}

	case "list":
		lines, err = store.List(key)
		if errors.Is(err, conf.ErrTypeMismatch) {
			// Scalars print as their words.
			var v conf.Value
			if v, err = store.Lookup(key); err == nil {
				lines = strings.Fields(v.Text())
			}
		}

	case "bool":
		var b bool
		b, err = store.Bool(key)
		lines = []string{strconv.FormatBool(b)}

	case "int":
		var n int
		n, err = store.Int(key)
		lines = []string{strconv.Itoa(n)}

	default:
		var v conf.Value
		v, err = store.Lookup(key)
		lines = []string{v.Text()}
	}

	if err != nil {
		return err
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}

// unknownKey returns an error for a key not defined in store, with the
// closest defined keys attached as suggestions.
func unknownKey(store *conf.Store, key string) error {
	err := ErrUnknownKey.Wrap(
		conf.ErrKeyNotFound.With(slog.String("key", key)),
	)

	if s := suggest(key, store.Keys()); len(s) > 0 {
		return err.With(slog.Any("did_you_mean", s))
	}

	return err
}

// suggest returns up to maxSuggestions keys fuzzy-matching key, best first.
func suggest(key string, keys []string) []string {
	matches := fuzzy.Find(key, keys)

	out := make([]string, 0, min(len(matches), maxSuggestions))

	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}

		out = append(out, m.Str)
	}

	return out
}
