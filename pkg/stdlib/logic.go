package stdlib

import (
	"github.com/seijihariki/jsonquery/pkg/ast"
	"github.com/seijihariki/jsonquery/pkg/compiler"
	"github.com/seijihariki/jsonquery/pkg/value"
)

func binaryBool(name string, op func(a, b value.Value) bool) compiler.Builder {
	return func(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
		if err := checkArity(name, len(args), 2); err != nil {
			return nil, err
		}
		l, err := compiler.Compile(args[0], ctx)
		if err != nil {
			return nil, err
		}
		r, err := compiler.Compile(args[1], ctx)
		if err != nil {
			return nil, err
		}
		return func(in value.Value) (value.Value, error) {
			a, err := l(in)
			if err != nil {
				return value.NullValue, err
			}
			b, err := r(in)
			if err != nil {
				return value.NullValue, err
			}
			return value.NewBool(op(a, b)), nil
		}, nil
	}
}

var (
	buildEq  = binaryBool("eq", func(a, b value.Value) bool { return a.Equal(b) })
	buildNe  = binaryBool("ne", func(a, b value.Value) bool { return !a.Equal(b) })
	buildGt  = binaryBool("gt", func(a, b value.Value) bool { return a.Compare(b) == value.Greater })
	buildGte = binaryBool("gte", func(a, b value.Value) bool {
		o := a.Compare(b)
		return o == value.Greater || o == value.Equal
	})
	buildLt = binaryBool("lt", func(a, b value.Value) bool { return a.Compare(b) == value.Less })
	buildLte = binaryBool("lte", func(a, b value.Value) bool {
		o := a.Compare(b)
		return o == value.Less || o == value.Equal
	})
	// and/or are eager, unary-lifted binary functions: both sides always
	// evaluate, and the result is the truthiness of the conjunction/
	// disjunction, not either operand's raw value.
	buildAnd = binaryBool("and", func(a, b value.Value) bool { return a.Truthy() && b.Truthy() })
	buildOr  = binaryBool("or", func(a, b value.Value) bool { return a.Truthy() || b.Truthy() })
)

// buildNot implements unary `not`.
func buildNot(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("not", len(args), 1); err != nil {
		return nil, err
	}
	x, err := compiler.Compile(args[0], ctx)
	if err != nil {
		return nil, err
	}
	return func(in value.Value) (value.Value, error) {
		v, err := x(in)
		if err != nil {
			return value.NullValue, err
		}
		return value.NewBool(!v.Truthy()), nil
	}, nil
}
