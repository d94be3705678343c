// Package profile provides optional runtime profiling.
//
// Profiling is compiled in only with the "pprof" build tag and is backed by
// [github.com/pkg/profile]. Without the tag, [Modes] is empty and
// [Profiler.Start] returns a no-op [Stopper], so callers never need build
// tags of their own:
//
//	stop := profile.Make(
//		profile.WithMode("cpu"),
//		profile.WithDir("/tmp/sysconf"),
//	).Start()
//	defer stop.Stop()
//
// With the tag, importing the package also registers the [net/http/pprof]
// handlers on [net/http.DefaultServeMux].
//
// Resolving a large configuration table is allocation-bound, so "allocs" and
// "heap" are usually the informative modes:
//
//	go build -tags pprof ./cmd/sysconf
//	sysconf --pprof-mode=allocs dump >/dev/null
//	go tool pprof -http=: ~/.cache/sysconf/pprof/mem.pprof
package profile
