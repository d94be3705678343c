// Package conf parses and resolves the build configuration data of a CPython
// installation.
//
// The data is a Python module (_sysconfigdata_*.py) whose only interesting
// statement assigns a dictionary literal:
//
//	build_time_vars = {'BINDIR': '/usr/bin',
//	 'CC': 'gcc -pthread',
//	 'INCLUDEPY': '$(prefix)/include/python3.12',
//	 'SIZEOF_VOID_P': 8,
//	 'prefix': '/usr'}
//
// Values refer to other keys with $(NAME) or ${NAME} placeholders. Parsing
// runs in three stages, each usable on its own:
//
//   - [Scan] locates the literal and yields its entries as [RawEntry]
//     values, keeping each value's verbatim text.
//   - [Normalize] decodes each raw value into a [Value], either a scalar
//     string or a whitespace-separated list as chosen by a [ListPolicy].
//   - [Resolve] substitutes placeholders, detecting cycles and undefined
//     references, and produces a resolved [Table].
//
// [Parse] runs all three and returns a [Store], an immutable accessor with
// typed getters ([Store.Scalar], [Store.List], [Store.Bool], [Store.Int])
// and derived queries such as [Store.IncludeFlags] and [Store.LinkFlags].
//
// # Grammar
//
// Outside the literal, comments, strings, and bracketed expressions are
// skipped. Inside it:
//
//	Dict   = '{' [ Entry { ',' Entry } [ ',' ] ] '}'
//	Entry  = Key ':' Value
//	Key    = String | Bare
//	Value  = '(' Value ')' | String { String } | Bare
//	String = "'" chars "'" | '"' chars '"' | triple-quoted forms
//
// Bare values are None, True, False, and numbers. Escapes \\ \' \" \n \t
// and backslash-newline are decoded; other escapes are kept verbatim.
//
// # Errors
//
// All errors satisfy errors.Is for one of the sentinels ([ErrMalformedSource],
// [ErrUnterminatedString], [ErrUnexpectedToken], [ErrCircularReference],
// [ErrUndefinedReference], [ErrKeyNotFound], [ErrTypeMismatch], ...).
// Reference errors are also available as [*CircularReferenceError] and
// [*UndefinedReferenceError] through errors.As. The package never logs
// errors; a logger set with [WithLogger] receives trace records only.
//
// The package performs no I/O beyond reading a caller-supplied io.Reader
// and consults no environment variables.
package conf
