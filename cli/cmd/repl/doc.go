// Package repl implements an interactive terminal session for evaluating
// expressions over configuration variables.
//
// The session has two input modes toggled with Esc: expressions, evaluated
// with the query package, and control commands (help, list, which, clear,
// quit). Input history is kept in the cache directory with each line
// prefixed by its mode.
package repl
