// Package log provides a leveled structured logger built on [log/slog].
//
// A [Logger] is configured once at creation with functional options and is
// safe for concurrent use. Its zero value discards all output, so libraries
// can accept a Logger option and log unconditionally:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
//	logger.Info("loaded", slog.Int("keys", n))
//
// # Levels
//
// In addition to the four [slog] levels, [LevelTrace] sits below
// [LevelDebug] for per-step detail. Level names are printed in upper case.
//
// # Output Formats
//
// [FormatText] and [FormatJSON] are supported. With pretty printing enabled
// (the default), text output is colorized when written to a terminal and
// JSON output is indented.
//
// # Package Logger
//
// The package-level functions ([Info], [ErrorContext], ...) write through a
// default logger that starts on standard error and is reconfigured with
// [Config].
package log
