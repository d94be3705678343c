package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/sysconf/conf"
)

// Dump prints every configuration variable in the chosen format.
type Dump struct {
	Format string `arg:"" default:"native" enum:"native,json,yaml,yml" help:"Output format (${enum})"`
	Indent int    `default:"2" help:"Indent width, 0 for compact JSON"  short:"i"`
	Raw    bool   `help:"Print values before placeholder resolution" short:"r"`
}

// Run executes the dump command.
func (d *Dump) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	format, err := conf.ParseFormat(d.Format)
	if err != nil {
		return err
	}

	src := SourceFrom(ctx)

	var table *conf.Table

	if d.Raw {
		table, err = src.LoadTable(ctx)
	} else {
		var store *conf.Store
		if store, err = src.Load(ctx); err == nil {
			table = store.Table()
		}
	}

	if err != nil {
		return err
	}

	if err := table.Format(ctx, OutputFrom(ctx), format, d.Indent); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", format.String()))
	}

	return nil
}
