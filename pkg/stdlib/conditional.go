package stdlib

import (
	"github.com/seijihariki/jsonquery/pkg/ast"
	"github.com/seijihariki/jsonquery/pkg/compiler"
	"github.com/seijihariki/jsonquery/pkg/jsonerr"
	"github.com/seijihariki/jsonquery/pkg/value"
)

// buildIf implements `if(cond, thenExpr, elseExpr)`.
func buildIf(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("if", len(args), 3); err != nil {
		return nil, err
	}
	cond, err := compiler.Compile(args[0], ctx)
	if err != nil {
		return nil, err
	}
	thenEv, err := compiler.Compile(args[1], ctx)
	if err != nil {
		return nil, err
	}
	elseEv, err := compiler.Compile(args[2], ctx)
	if err != nil {
		return nil, err
	}
	return func(in value.Value) (value.Value, error) {
		c, err := cond(in)
		if err != nil {
			return value.NullValue, err
		}
		if c.Truthy() {
			return thenEv(in)
		}
		return elseEv(in)
	}, nil
}

// buildExists implements `exists(getExpr)`: true iff the final key of a
// get(...) path is present on its parent object.
func buildExists(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("exists", len(args), 1); err != nil {
		return nil, err
	}
	getNode := args[0]
	if getNode.Kind != ast.KindFunction || getNode.Name != "get" || len(getNode.Args) == 0 {
		return nil, &jsonerr.ArityError{Name: "exists", Expected: 1, Actual: 1}
	}
	parentPath := getNode.Args[:len(getNode.Args)-1]
	lastKeyNode := getNode.Args[len(getNode.Args)-1]

	parentEval, err := buildGet(parentPath, ctx)
	if err != nil {
		return nil, err
	}
	lastKeyEval, err := compiler.Compile(lastKeyNode, ctx)
	if err != nil {
		return nil, err
	}
	return func(in value.Value) (value.Value, error) {
		parent, err := parentEval(in)
		if err != nil {
			return value.NullValue, err
		}
		if !parent.IsObject() {
			return value.False, nil
		}
		key, err := lastKeyEval(in)
		if err != nil {
			return value.NullValue, err
		}
		if !key.IsString() {
			return value.False, nil
		}
		_, ok := parent.Get(key.Str())
		return value.NewBool(ok), nil
	}, nil
}

// buildIn and buildNotIn implement `in(path, values)` / `not in(path,
// values)`: value-equality membership test against an evaluated array.
// A non-Array values result propagates Null rather than erroring.
func buildIn(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	return buildMembership("in", false, args, ctx)
}

func buildNotIn(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	return buildMembership("notIn", true, args, ctx)
}

func buildMembership(name string, negate bool, args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity(name, len(args), 2); err != nil {
		return nil, err
	}
	path, err := compiler.Compile(args[0], ctx)
	if err != nil {
		return nil, err
	}
	values, err := compiler.Compile(args[1], ctx)
	if err != nil {
		return nil, err
	}
	return func(in value.Value) (value.Value, error) {
		pv, err := path(in)
		if err != nil {
			return value.NullValue, err
		}
		arr, err := values(in)
		if err != nil {
			return value.NullValue, err
		}
		if !arr.IsArray() {
			return value.NullValue, nil
		}
		found := false
		for _, it := range arr.Items() {
			if pv.Equal(it) {
				found = true
				break
			}
		}
		if negate {
			found = !found
		}
		return value.NewBool(found), nil
	}, nil
}
