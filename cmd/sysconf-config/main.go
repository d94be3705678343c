// Command sysconf-config prints the compiler and linker settings of a Python
// installation, like python-config, read from its build configuration data
// module instead of a running interpreter.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/sysconf/cli"
	"github.com/ardnew/sysconf/log"
)

func main() {
	err := cli.RunPythonConfig(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		log.Error(
			"run failed",
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
