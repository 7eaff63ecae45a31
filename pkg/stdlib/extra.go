package stdlib

import (
	"github.com/seijihariki/jsonquery/pkg/ast"
	"github.com/seijihariki/jsonquery/pkg/compiler"
	"github.com/seijihariki/jsonquery/pkg/value"
)

// buildFirst implements `first()`: the first array element, or Null on an
// empty or non-array input.
func buildFirst(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("first", len(args), 0); err != nil {
		return nil, err
	}
	return func(in value.Value) (value.Value, error) {
		if !in.IsArray() {
			return value.NullValue, nil
		}
		items := in.Items()
		if len(items) == 0 {
			return value.NullValue, nil
		}
		return items[0], nil
	}, nil
}

// buildLast implements `last()`: the last array element, or Null on an
// empty or non-array input.
func buildLast(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("last", len(args), 0); err != nil {
		return nil, err
	}
	return func(in value.Value) (value.Value, error) {
		if !in.IsArray() {
			return value.NullValue, nil
		}
		items := in.Items()
		if len(items) == 0 {
			return value.NullValue, nil
		}
		return items[len(items)-1], nil
	}, nil
}

// buildMerge implements `merge(e1, ..., en)`: a shallow, right-biased
// merge of object results — later arguments' keys overwrite earlier ones,
// otherwise preserving first-seen key order. Any argument that doesn't
// evaluate to an Object propagates Null for the whole merge.
func buildMerge(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArityRange("merge", len(args), 1, -1); err != nil {
		return nil, err
	}
	evals, err := compileEach(args, ctx)
	if err != nil {
		return nil, err
	}
	return func(in value.Value) (value.Value, error) {
		var order []string
		values := make(map[string]value.Value)
		for _, ev := range evals {
			obj, err := ev(in)
			if err != nil {
				return value.NullValue, err
			}
			if !obj.IsObject() {
				return value.NullValue, nil
			}
			for _, m := range obj.Members() {
				if _, ok := values[m.Key]; !ok {
					order = append(order, m.Key)
				}
				values[m.Key] = m.Val
			}
		}
		members := make([]value.Member, len(order))
		for i, k := range order {
			members[i] = value.Member{Key: k, Val: values[k]}
		}
		return value.NewObject(members), nil
	}, nil
}
