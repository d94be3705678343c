package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/sysconf/query"
)

// Eval evaluates an expression over the configuration variables.
type Eval struct {
	Expr []string `arg:"" help:"Expression to evaluate; arguments are joined by spaces" name:"expr"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src := SourceFrom(ctx)

	store, err := src.Load(ctx)
	if err != nil {
		return err
	}

	expr := strings.Join(e.Expr, " ")

	result, err := query.Eval(ctx, store, expr)
	if err != nil {
		return err
	}

	src.Logger.DebugContext(ctx, "evaluated expression",
		slog.String("expr", expr),
		slog.String("type", fmt.Sprintf("%T", result)),
	)

	if _, err := fmt.Fprintln(OutputFrom(ctx), query.Format(result)); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
