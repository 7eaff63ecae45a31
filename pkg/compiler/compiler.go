// Package compiler lowers the abstract form (pkg/ast) plus a compile
// context's function/operator tables into an Evaluator: a pure function
// from input Value to output Value. Builders compile their AST arguments
// exactly once and close over the resulting sub-Evaluators, so a compiled
// query never re-walks its AST or re-resolves a function name at run time.
package compiler

import (
	"github.com/seijihariki/jsonquery/pkg/ast"
	"github.com/seijihariki/jsonquery/pkg/jsonerr"
	"github.com/seijihariki/jsonquery/pkg/value"
)

// Evaluator is a compiled query: a pure function from an input Value to an
// output Value. It is total except for the documented runtime TypeError
// case (see pkg/jsonerr) — it never panics and never diverges.
type Evaluator func(value.Value) (value.Value, error)

// Builder compiles a function call's argument ASTs into an Evaluator,
// given the compile context the call appears in. Builders that accept
// sub-queries (map, filter, pipe, if, ...) re-enter Compile with the same
// ctx so nested compiles see the same function/operator tables.
type Builder func(args []*ast.Node, ctx *CompileCtx) (Evaluator, error)

// Compile lowers a single AST node into an Evaluator under ctx.
func Compile(n *ast.Node, ctx *CompileCtx) (Evaluator, error) {
	if n == nil {
		return func(v value.Value) (value.Value, error) { return v, nil }, nil
	}
	switch n.Kind {
	case ast.KindLiteral:
		lit := n.Literal
		return func(value.Value) (value.Value, error) { return lit, nil }, nil

	case ast.KindArray:
		evaluators, err := compileAll(n.Args, ctx)
		if err != nil {
			return nil, err
		}
		return func(in value.Value) (value.Value, error) {
			items := make([]value.Value, len(evaluators))
			for i, ev := range evaluators {
				out, err := ev(in)
				if err != nil {
					return value.NullValue, err
				}
				items[i] = out
			}
			return value.NewArray(items), nil
		}, nil

	case ast.KindObject:
		evaluators, err := compileAll(n.Args, ctx)
		if err != nil {
			return nil, err
		}
		keys := n.Keys
		return func(in value.Value) (value.Value, error) {
			members := make([]value.Member, len(evaluators))
			for i, ev := range evaluators {
				out, err := ev(in)
				if err != nil {
					return value.NullValue, err
				}
				members[i] = value.Member{Key: keys[i], Val: out}
			}
			return value.NewObjectDedup(members), nil
		}, nil

	case ast.KindFunction:
		builder, ok := ctx.Function(n.Name)
		if !ok {
			return nil, &jsonerr.UnknownFunction{Name: n.Name}
		}
		return builder(n.Args, ctx)

	default:
		return nil, &jsonerr.UnknownFunction{Name: "<invalid ast node>"}
	}
}

// compileAll compiles each node in order, stopping at the first error.
func compileAll(nodes []*ast.Node, ctx *CompileCtx) ([]Evaluator, error) {
	out := make([]Evaluator, len(nodes))
	for i, n := range nodes {
		ev, err := Compile(n, ctx)
		if err != nil {
			return nil, err
		}
		out[i] = ev
	}
	return out, nil
}
