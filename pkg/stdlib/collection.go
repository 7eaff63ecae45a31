package stdlib

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/seijihariki/jsonquery/pkg/ast"
	"github.com/seijihariki/jsonquery/pkg/compiler"
	"github.com/seijihariki/jsonquery/pkg/jsonerr"
	"github.com/seijihariki/jsonquery/pkg/value"
)

func typeErr(op string, v value.Value) error {
	return &jsonerr.TypeError{Op: op, Observed: v.Kind().String()}
}

// Every collection builder below propagates Null when its input isn't
// the container shape it expects (an Array, or an Object for keys/values),
// rather than erroring — the same default get() uses for a missing path.
// typeErr stays reserved for operations with no reasonable default at all.

// buildMap implements `map(cb)`: applies cb to each array element.
func buildMap(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("map", len(args), 1); err != nil {
		return nil, err
	}
	cb, err := compiler.Compile(args[0], ctx)
	if err != nil {
		return nil, err
	}
	return func(in value.Value) (value.Value, error) {
		if !in.IsArray() {
			return value.NullValue, nil
		}
		items := in.Items()
		out := make([]value.Value, len(items))
		for i, it := range items {
			r, err := cb(it)
			if err != nil {
				return value.NullValue, err
			}
			out[i] = r
		}
		return value.NewArray(out), nil
	}, nil
}

// buildFilter implements `filter(cb)`: keeps elements whose cb result is
// truthy, preserving order (a subsequence of the input).
func buildFilter(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("filter", len(args), 1); err != nil {
		return nil, err
	}
	cb, err := compiler.Compile(args[0], ctx)
	if err != nil {
		return nil, err
	}
	return func(in value.Value) (value.Value, error) {
		if !in.IsArray() {
			return value.NullValue, nil
		}
		var out []value.Value
		for _, it := range in.Items() {
			r, err := cb(it)
			if err != nil {
				return value.NullValue, err
			}
			if r.Truthy() {
				out = append(out, it)
			}
		}
		return value.NewArray(out), nil
	}, nil
}

// buildSort implements `sort(path=get(), dir="asc")`: a stable sort by the
// comparator in pkg/value, using path's per-element result as the key.
func buildSort(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArityRange("sort", len(args), 0, 2); err != nil {
		return nil, err
	}
	var pathEval compiler.Evaluator
	if len(args) >= 1 {
		ev, err := compiler.Compile(args[0], ctx)
		if err != nil {
			return nil, err
		}
		pathEval = ev
	} else {
		pathEval = func(v value.Value) (value.Value, error) { return v, nil }
	}
	var dirEval compiler.Evaluator
	if len(args) >= 2 {
		ev, err := compiler.Compile(args[1], ctx)
		if err != nil {
			return nil, err
		}
		dirEval = ev
	}
	return func(in value.Value) (value.Value, error) {
		if !in.IsArray() {
			return value.NullValue, nil
		}
		descending := false
		if dirEval != nil {
			d, err := dirEval(in)
			if err != nil {
				return value.NullValue, err
			}
			if d.IsString() && d.Str() == "desc" {
				descending = true
			}
		}
		items := append([]value.Value(nil), in.Items()...)
		keys := make([]value.Value, len(items))
		for i, it := range items {
			k, err := pathEval(it)
			if err != nil {
				return value.NullValue, err
			}
			keys[i] = k
		}
		idx := make([]int, len(items))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(i, j int) bool {
			a, b := idx[i], idx[j]
			switch keys[a].Compare(keys[b]) {
			case value.Less:
				return !descending
			case value.Greater:
				return descending
			default:
				return false
			}
		})
		out := make([]value.Value, len(items))
		for i, j := range idx {
			out[i] = items[j]
		}
		return value.NewArray(out), nil
	}, nil
}

// buildReverse implements `reverse()`.
func buildReverse(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("reverse", len(args), 0); err != nil {
		return nil, err
	}
	return func(in value.Value) (value.Value, error) {
		if !in.IsArray() {
			return value.NullValue, nil
		}
		items := in.Items()
		out := make([]value.Value, len(items))
		for i, it := range items {
			out[len(items)-1-i] = it
		}
		return value.NewArray(out), nil
	}, nil
}

// lastPathKey extracts the final literal key segment from a `get(...)`
// path node, for use as an output key name (pick/groupBy-style builders).
func lastPathKey(n *ast.Node) (string, bool) {
	if n == nil || n.Kind != ast.KindFunction || n.Name != "get" || len(n.Args) == 0 {
		return "", false
	}
	last := n.Args[len(n.Args)-1]
	if last.Kind != ast.KindLiteral || !last.Literal.IsString() {
		return "", false
	}
	return last.Literal.Str(), true
}

// buildPick implements `pick(path1, ..., pathn)`.
func buildPick(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArityRange("pick", len(args), 1, -1); err != nil {
		return nil, err
	}
	names := make([]string, len(args))
	evals := make([]compiler.Evaluator, len(args))
	for i, a := range args {
		name, ok := lastPathKey(a)
		if !ok {
			return nil, fmt.Errorf("pick: argument %d is not a get(...) path ending in a literal key", i+1)
		}
		names[i] = name
		ev, err := compiler.Compile(a, ctx)
		if err != nil {
			return nil, err
		}
		evals[i] = ev
	}
	var pickOne compiler.Evaluator
	pickOne = func(in value.Value) (value.Value, error) {
		members := make([]value.Member, len(evals))
		for i, ev := range evals {
			v, err := ev(in)
			if err != nil {
				return value.NullValue, err
			}
			members[i] = value.Member{Key: names[i], Val: v}
		}
		return value.NewObjectDedup(members), nil
	}
	return func(in value.Value) (value.Value, error) {
		if in.IsArray() {
			items := in.Items()
			out := make([]value.Value, len(items))
			for i, it := range items {
				r, err := pickOne(it)
				if err != nil {
					return value.NullValue, err
				}
				out[i] = r
			}
			return value.NewArray(out), nil
		}
		return pickOne(in)
	}, nil
}

// buildGroupBy implements `groupBy(path)`.
func buildGroupBy(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("groupBy", len(args), 1); err != nil {
		return nil, err
	}
	path, err := compiler.Compile(args[0], ctx)
	if err != nil {
		return nil, err
	}
	return func(in value.Value) (value.Value, error) {
		if !in.IsArray() {
			return value.NullValue, nil
		}
		order := make([]string, 0)
		groups := make(map[string][]value.Value)
		for _, it := range in.Items() {
			k, err := path(it)
			if err != nil {
				return value.NullValue, err
			}
			key := stringify(k)
			if _, ok := groups[key]; !ok {
				order = append(order, key)
			}
			groups[key] = append(groups[key], it)
		}
		members := make([]value.Member, len(order))
		for i, k := range order {
			members[i] = value.Member{Key: k, Val: value.NewArray(groups[k])}
		}
		return value.NewObject(members), nil
	}, nil
}

// buildKeyBy implements `keyBy(path)`.
func buildKeyBy(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("keyBy", len(args), 1); err != nil {
		return nil, err
	}
	path, err := compiler.Compile(args[0], ctx)
	if err != nil {
		return nil, err
	}
	return func(in value.Value) (value.Value, error) {
		if !in.IsArray() {
			return value.NullValue, nil
		}
		order := make([]string, 0)
		seen := make(map[string]value.Value)
		for _, it := range in.Items() {
			k, err := path(it)
			if err != nil {
				return value.NullValue, err
			}
			key := stringify(k)
			if _, ok := seen[key]; ok {
				continue // later collisions ignored
			}
			seen[key] = it
			order = append(order, key)
		}
		members := make([]value.Member, len(order))
		for i, k := range order {
			members[i] = value.Member{Key: k, Val: seen[k]}
		}
		return value.NewObject(members), nil
	}, nil
}

// buildFlatten implements `flatten()`: shallow, one level.
func buildFlatten(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("flatten", len(args), 0); err != nil {
		return nil, err
	}
	return func(in value.Value) (value.Value, error) {
		if !in.IsArray() {
			return value.NullValue, nil
		}
		var out []value.Value
		for _, it := range in.Items() {
			if it.IsArray() {
				out = append(out, it.Items()...)
			} else {
				out = append(out, it)
			}
		}
		return value.NewArray(out), nil
	}, nil
}

// buildJoin implements `join(sep="")`.
func buildJoin(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArityRange("join", len(args), 0, 1); err != nil {
		return nil, err
	}
	var sepEval compiler.Evaluator
	if len(args) == 1 {
		ev, err := compiler.Compile(args[0], ctx)
		if err != nil {
			return nil, err
		}
		sepEval = ev
	}
	return func(in value.Value) (value.Value, error) {
		if !in.IsArray() {
			return value.NullValue, nil
		}
		sep := ""
		if sepEval != nil {
			s, err := sepEval(in)
			if err != nil {
				return value.NullValue, err
			}
			if s.IsString() {
				sep = s.Str()
			}
		}
		parts := make([]string, len(in.Items()))
		for i, it := range in.Items() {
			parts[i] = stringify(it)
		}
		return value.NewString(strings.Join(parts, sep)), nil
	}, nil
}

// buildUniq implements `uniq()`: first-occurrence dedup by value equality.
func buildUniq(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("uniq", len(args), 0); err != nil {
		return nil, err
	}
	return func(in value.Value) (value.Value, error) {
		if !in.IsArray() {
			return value.NullValue, nil
		}
		var out []value.Value
		for _, it := range in.Items() {
			dup := false
			for _, seen := range out {
				if seen.Equal(it) {
					dup = true
					break
				}
			}
			if !dup {
				out = append(out, it)
			}
		}
		return value.NewArray(out), nil
	}, nil
}

// buildUniqBy implements `uniqBy(path)`: first-occurrence dedup by
// computed key.
func buildUniqBy(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("uniqBy", len(args), 1); err != nil {
		return nil, err
	}
	path, err := compiler.Compile(args[0], ctx)
	if err != nil {
		return nil, err
	}
	return func(in value.Value) (value.Value, error) {
		if !in.IsArray() {
			return value.NullValue, nil
		}
		seen := make(map[string]bool)
		var out []value.Value
		for _, it := range in.Items() {
			k, err := path(it)
			if err != nil {
				return value.NullValue, err
			}
			key := stringify(k)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, it)
		}
		return value.NewArray(out), nil
	}, nil
}

// buildLimit implements `limit(n)`: first max(n,0) elements.
func buildLimit(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("limit", len(args), 1); err != nil {
		return nil, err
	}
	nEval, err := compiler.Compile(args[0], ctx)
	if err != nil {
		return nil, err
	}
	return func(in value.Value) (value.Value, error) {
		if !in.IsArray() {
			return value.NullValue, nil
		}
		nv, err := nEval(in)
		if err != nil {
			return value.NullValue, err
		}
		n := int(nv.Num())
		if n < 0 {
			n = 0
		}
		items := in.Items()
		if n > len(items) {
			n = len(items)
		}
		out := make([]value.Value, n)
		copy(out, items[:n])
		return value.NewArray(out), nil
	}, nil
}

// buildSize implements `size()`.
func buildSize(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("size", len(args), 0); err != nil {
		return nil, err
	}
	return func(in value.Value) (value.Value, error) {
		switch in.Kind() {
		case value.Array:
			return value.NewNumber(float64(len(in.Items()))), nil
		case value.Object:
			return value.NewNumber(float64(len(in.Members()))), nil
		case value.String:
			return value.NewNumber(float64(utf8.RuneCountInString(in.Str()))), nil
		default:
			return value.NullValue, nil
		}
	}, nil
}

// buildKeys implements `keys()`.
func buildKeys(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("keys", len(args), 0); err != nil {
		return nil, err
	}
	return func(in value.Value) (value.Value, error) {
		if !in.IsObject() {
			return value.NullValue, nil
		}
		members := in.Members()
		out := make([]value.Value, len(members))
		for i, m := range members {
			out[i] = value.NewString(m.Key)
		}
		return value.NewArray(out), nil
	}, nil
}

// buildValues implements `values()`.
func buildValues(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("values", len(args), 0); err != nil {
		return nil, err
	}
	return func(in value.Value) (value.Value, error) {
		if !in.IsObject() {
			return value.NullValue, nil
		}
		members := in.Members()
		out := make([]value.Value, len(members))
		for i, m := range members {
			out[i] = m.Val
		}
		return value.NewArray(out), nil
	}, nil
}
