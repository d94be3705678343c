// Package locate finds the Python configuration data module
// (_sysconfigdata_*.py) of an installed interpreter.
//
// The search path is composed from caller-supplied directories, the
// [EnvPath] environment variable, and the platform's default installation
// roots, newest interpreter first. Nonexistent and duplicate directories are
// dropped. [EnvName] selects one module by name, mirroring the variable of
// the same name honored by the Python sysconfig module.
//
// The process environment is only consulted when passed with [WithEnviron].
package locate
