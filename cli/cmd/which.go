package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/sysconf/locate"
)

// Which prints the path of the configuration data module that would be
// loaded.
type Which struct {
	All        bool `help:"Print every module found in the search path" short:"a"`
	SearchPath bool `help:"Print the directories searched"`
}

// Run executes the which command.
func (c *Which) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src := SourceFrom(ctx)

	var paths []string

	switch {
	case c.SearchPath:
		paths = locate.SearchPath(src.LocateOptions()...)

	case c.All:
		paths, err = locate.All(ctx, src.LocateOptions()...)
		if err == nil && len(paths) == 0 {
			err = locate.ErrNotFound
		}

	default:
		var path string
		if path, err = src.Locate(ctx); err == nil {
			paths = []string{path}
		}
	}

	if err != nil {
		return err
	}

	w := OutputFrom(ctx)

	for _, path := range paths {
		if _, err := fmt.Fprintln(w, path); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}
