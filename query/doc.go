// Package query evaluates expr-lang expressions over resolved configuration
// variables.
//
//	ok, err := query.Eval(ctx, store, `flag("Py_ENABLE_SHARED") && "-g" in CFLAGS`)
//
// See [Env] for the identifiers and helper functions available.
package query
