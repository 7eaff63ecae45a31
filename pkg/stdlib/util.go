// Package stdlib implements the engine's standard library: the builders
// for every core function name the compiler resolves function calls
// against (pipe, get, the collection transforms, arithmetic, comparison,
// boolean logic, regex, and conditional forms), plus the canonical
// operator table the parser desugars infix syntax into.
//
// Every builder here compiles its AST arguments exactly once (via
// compiler.Compile) and closes over the resulting sub-Evaluators, so a
// compiled query does no name lookups at evaluation time — only the
// closures built at compile time run.
package stdlib

import (
	"strconv"
	"strings"

	"github.com/seijihariki/jsonquery/pkg/jsonerr"
	"github.com/seijihariki/jsonquery/pkg/value"
)

// stringify implements the `string` conversion function's semantics, also
// reused internally by join/groupBy/keyBy for turning a path result into a
// map key.
func stringify(v value.Value) string {
	switch v.Kind() {
	case value.Null:
		return "null"
	case value.Bool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case value.Number:
		return strconv.FormatFloat(v.Num(), 'g', -1, 64)
	case value.String:
		return v.Str()
	default:
		b, err := v.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// checkArity validates that a builder received exactly the arity it needs.
func checkArity(name string, got, want int) error {
	if got != want {
		return &jsonerr.ArityError{Name: name, Expected: want, Actual: got}
	}
	return nil
}

// checkArityRange validates got is within [min,max] (max<0 means unbounded).
func checkArityRange(name string, got, min, max int) error {
	if got < min || (max >= 0 && got > max) {
		want := min
		if max >= 0 && max != min {
			want = max
		}
		return &jsonerr.ArityError{Name: name, Expected: want, Actual: got}
	}
	return nil
}

func trimAndSplitWhitespace(s string) []string {
	return strings.Fields(s)
}
