package stdlib

import (
	"strconv"

	"github.com/seijihariki/jsonquery/pkg/ast"
	"github.com/seijihariki/jsonquery/pkg/compiler"
	"github.com/seijihariki/jsonquery/pkg/value"
)

// buildPipe implements `pipe(e1, ..., en)`: applies e1 to the input, feeds
// its result to e2, and so on; an empty pipe is the identity evaluator.
func buildPipe(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	stages, err := compileEach(args, ctx)
	if err != nil {
		return nil, err
	}
	return func(in value.Value) (value.Value, error) {
		cur := in
		for _, stage := range stages {
			out, err := stage(cur)
			if err != nil {
				return value.NullValue, err
			}
			cur = out
		}
		return cur, nil
	}, nil
}

// buildGet implements `get(k1, k2, ...)`: navigates the literal path,
// propagating Null once a step can't be resolved. With zero keys it is the
// identity evaluator.
func buildGet(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	keyEvals, err := compileEach(args, ctx)
	if err != nil {
		return nil, err
	}
	if len(keyEvals) == 0 {
		return func(in value.Value) (value.Value, error) { return in, nil }, nil
	}
	return func(in value.Value) (value.Value, error) {
		cur := in
		for _, keyEval := range keyEvals {
			if cur.IsNull() {
				return value.NullValue, nil
			}
			key, err := keyEval(in)
			if err != nil {
				return value.NullValue, err
			}
			cur = navigate(cur, key)
		}
		return cur, nil
	}, nil
}

// navigate performs one `get` step: Object lookup, Array indexing (when
// key is an integer or integer-valued string), or Null otherwise.
func navigate(cur value.Value, key value.Value) value.Value {
	switch cur.Kind() {
	case value.Object:
		if key.IsString() {
			if v, ok := cur.Get(key.Str()); ok {
				return v
			}
		}
		return value.NullValue
	case value.Array:
		idx, ok := asIndex(key)
		if !ok {
			return value.NullValue
		}
		items := cur.Items()
		if idx < 0 || idx >= len(items) {
			return value.NullValue
		}
		return items[idx]
	default:
		return value.NullValue
	}
}

// asIndex converts a key Value (integer-valued Number or integer-looking
// String) to an array index. Negative results are returned as-is; navigate
// treats them as out of range.
func asIndex(key value.Value) (int, bool) {
	switch key.Kind() {
	case value.Number:
		n := key.Num()
		idx := int(n)
		if float64(idx) != n {
			return 0, false
		}
		return idx, true
	case value.String:
		n, err := strconv.Atoi(key.Str())
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// compileEach compiles a slice of AST nodes against ctx, stopping at the
// first error.
func compileEach(nodes []*ast.Node, ctx *compiler.CompileCtx) ([]compiler.Evaluator, error) {
	out := make([]compiler.Evaluator, len(nodes))
	for i, n := range nodes {
		ev, err := compiler.Compile(n, ctx)
		if err != nil {
			return nil, err
		}
		out[i] = ev
	}
	return out, nil
}
