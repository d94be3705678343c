package query

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/builtin"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/sysconf/conf"
)

var (
	// ErrCompile is returned when an expression fails to compile.
	ErrCompile = conf.NewError("compile expression")
	// ErrEvaluate is returned when a compiled expression fails at run time.
	ErrEvaluate = conf.NewError("evaluate expression")
)

// VarsName is the identifier of the map holding every configuration
// variable, including those whose names are not valid identifiers.
const VarsName = "vars"

// reserved cannot be used as bare identifiers in expressions.
var reserved = []string{
	"and", "or", "not", "in", "matches", "contains", "startsWith", "endsWith",
	"let", "if", "else", "nil", "true", "false",
}

// Env returns the expression environment over the variables of s.
//
// Each variable whose name is a valid identifier is bound directly, as a
// string or a []string. All variables are also reachable through
// the map named [VarsName]. Helper functions are bound last and cannot be
// shadowed:
//
//	get(key)     scalar text, or "" when undefined
//	has(key)     whether key is defined and resolved
//	list(key)    whitespace-separated words of key
//	flag(key)    boolean value of key, false when undefined or not boolean
//	num(key)     integer value of key, 0 when undefined or not numeric
//	words(s)     whitespace-separated words of s
//	path.join(elem...), path.base(p), path.dir(p), path.exists(p)
func Env(s *conf.Store) map[string]any {
	env := make(map[string]any, s.Len()+len(builtins(s))+1)
	vars := make(map[string]any, s.Len())

	for key, v := range s.All() {
		vars[key] = native(v)

		if IsIdent(key) {
			env[key] = vars[key]
		}
	}

	env[VarsName] = vars

	maps.Copy(env, builtins(s))

	return env
}

func builtins(s *conf.Store) map[string]any {
	return map[string]any{
		"get": func(key string) string {
			v, err := s.Scalar(key)
			if err != nil {
				if l, err := s.List(key); err == nil {
					return strings.Join(l, " ")
				}
			}

			return v
		},
		"has": func(key string) bool {
			return s.Has(key) && s.Unresolved(key) == nil
		},
		"list": func(key string) []string {
			v, err := s.Lookup(key)
			if err != nil {
				return []string{}
			}

			return strings.Fields(v.Text())
		},
		"flag": func(key string) bool {
			b, _ := s.Bool(key)

			return b
		},
		"num": func(key string) int {
			n, _ := s.Int(key)

			return n
		},
		"words": strings.Fields,
		"path": map[string]any{
			"join":   filepath.Join,
			"base":   filepath.Base,
			"dir":    filepath.Dir,
			"exists": pathExists,
		},
	}
}

// Names returns the top-level identifiers available in expressions over s,
// followed by the expr-lang builtin function names.
func Names(s *conf.Store) []string {
	names := make([]string, 0, s.Len()+len(builtin.Builtins)+8)

	for _, key := range s.Keys() {
		if IsIdent(key) {
			names = append(names, key)
		}
	}

	names = append(names, VarsName)
	names = append(names, slices.Sorted(maps.Keys(builtins(s)))...)

	for _, fn := range builtin.Builtins {
		names = append(names, fn.Name)
	}

	return names
}

// IsFunction reports whether name is a helper or expr-lang builtin function.
func IsFunction(name string) bool {
	if _, ok := builtin.Index[name]; ok {
		return true
	}

	switch name {
	case "get", "has", "list", "flag", "num", "words":
		return true
	}

	return false
}

// Compile checks src against the environment of s.
func Compile(src string, s *conf.Store) (*vm.Program, error) {
	program, err := expr.Compile(src, expr.Env(Env(s)))
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(slog.String("expr", src))
	}

	return program, nil
}

// Eval compiles and runs src against the variables of s.
func Eval(ctx context.Context, s *conf.Store, src string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	program, err := Compile(src, s)
	if err != nil {
		return nil, err
	}

	result, err := vm.Run(program, Env(s))
	if err != nil {
		return nil, ErrEvaluate.Wrap(err).With(slog.String("expr", src))
	}

	return result, nil
}

// Format renders an evaluation result as shell-friendly text: lists are
// space-separated, maps are sorted "key=value" pairs, and nil is empty.
func Format(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []string:
		return strings.Join(val, " ")
	case []any:
		parts := make([]string, len(val))
		for i, e := range val {
			parts[i] = Format(e)
		}

		return strings.Join(parts, " ")
	case map[string]any:
		parts := make([]string, 0, len(val))
		for _, k := range slices.Sorted(maps.Keys(val)) {
			parts = append(parts, k+"="+Format(val[k]))
		}

		return strings.Join(parts, " ")
	default:
		return fmt.Sprint(val)
	}
}

// IsIdent reports whether key can be used as a bare identifier.
func IsIdent(key string) bool {
	if key == "" || slices.Contains(reserved, key) {
		return false
	}

	for i, r := range key {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}

	return true
}

func native(v conf.Value) any {
	if v.IsList() {
		return v.Elems()
	}

	return v.Text()
}

func pathExists(p string) bool {
	_, err := os.Stat(p)

	return err == nil
}
