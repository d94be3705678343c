package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/sysconf/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelWarn),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Info("not shown")
	logger.Warn("fallback used", slog.String("key", "HOME"))

	// Output:
	// level=WARN msg="fallback used" key=HOME
}

func Example_jSON() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatJSON),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.With(slog.String("source", "_sysconfigdata__linux_x86_64-linux-gnu.py")).
		Error("parse failed", slog.Int("line", 3))

	// Output:
	// {"level":"ERROR","msg":"parse failed","source":"_sysconfigdata__linux_x86_64-linux-gnu.py","line":3}
}
