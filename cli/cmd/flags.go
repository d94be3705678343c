package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/ardnew/sysconf/conf"
)

// Flags prints compiler and linker flags for embedding or extending Python.
//
// Each selected flag set is printed on its own line, in the order includes,
// cflags, libs, ldflags.
type Flags struct {
	Includes bool `help:"Print include directory flags"`
	CFlags   bool `help:"Print compiler flags"          name:"cflags"`
	Libs     bool `help:"Print library flags"`
	LDFlags  bool `help:"Print linker flags"            name:"ldflags"`
}

// Run executes the flags command.
func (f *Flags) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	selected := []struct {
		on    bool
		query func(*conf.Store) ([]string, error)
	}{
		{f.Includes, (*conf.Store).IncludeFlags},
		{f.CFlags, (*conf.Store).CFlags},
		{f.Libs, (*conf.Store).Libs},
		{f.LDFlags, (*conf.Store).LinkFlags},
	}

	if !f.Includes && !f.CFlags && !f.Libs && !f.LDFlags {
		return ErrNoFlags
	}

	store, err := SourceFrom(ctx).Load(ctx)
	if err != nil {
		return err
	}

	w := OutputFrom(ctx)

	for _, sel := range selected {
		if !sel.on {
			continue
		}

		flags, err := sel.query(store)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintln(w, strings.Join(flags, " ")); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}
