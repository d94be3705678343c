package cmd

import (
	"context"

	"github.com/ardnew/sysconf/cli/cmd/repl"
	"github.com/ardnew/sysconf/locate"
)

// Repl starts an interactive session for inspecting and querying the
// configuration variables.
type Repl struct{}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src := SourceFrom(ctx)

	store, err := src.Load(ctx)
	if err != nil {
		return err
	}

	path, _ := src.Locate(ctx)

	return repl.Run(ctx, store, repl.Config{
		Source:   path,
		CacheDir: modelVar(ctx, CacheIdentifier),
		Logger:   src.Logger,
		InputTTY: path == locate.Stdin,
	})
}
