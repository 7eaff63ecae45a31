package stdlib

import (
	"github.com/seijihariki/jsonquery/pkg/ast"
	"github.com/seijihariki/jsonquery/pkg/compiler"
	"github.com/seijihariki/jsonquery/pkg/value"
)

// buildSum/buildProd/buildAverage/buildMin/buildMax implement the numeric
// folds over an Array input. A non-Array input propagates Null, like the
// rest of the collection stdlib; empty-array behavior: sum=0, prod=1,
// average/min/max=Null. A non-Number *element* of an array that is
// present has no reasonable numeric default, so that stays a TypeError.

func buildSum(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("sum", len(args), 0); err != nil {
		return nil, err
	}
	return func(in value.Value) (value.Value, error) {
		if !in.IsArray() {
			return value.NullValue, nil
		}
		total := 0.0
		for _, it := range in.Items() {
			if !it.IsNumber() {
				return value.NullValue, typeErr("sum", it)
			}
			total += it.Num()
		}
		return value.NewNumber(total), nil
	}, nil
}

func buildProd(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("prod", len(args), 0); err != nil {
		return nil, err
	}
	return func(in value.Value) (value.Value, error) {
		if !in.IsArray() {
			return value.NullValue, nil
		}
		total := 1.0
		for _, it := range in.Items() {
			if !it.IsNumber() {
				return value.NullValue, typeErr("prod", it)
			}
			total *= it.Num()
		}
		return value.NewNumber(total), nil
	}, nil
}

func buildAverage(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("average", len(args), 0); err != nil {
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
		total := 0.0
		for _, it := range items {
			if !it.IsNumber() {
				return value.NullValue, typeErr("average", it)
			}
			total += it.Num()
		}
		return value.NewNumber(total / float64(len(items))), nil
	}, nil
}

func buildMin(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("min", len(args), 0); err != nil {
		return nil, err
	}
	return foldExtreme("min", value.Less)
}

func buildMax(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("max", len(args), 0); err != nil {
		return nil, err
	}
	return foldExtreme("max", value.Greater)
}

// foldExtreme builds min/max: want is value.Less for min (keep the smaller
// running value) or value.Greater for max.
func foldExtreme(op string, want value.Ordering) (compiler.Evaluator, error) {
	return func(in value.Value) (value.Value, error) {
		if !in.IsArray() {
			return value.NullValue, nil
		}
		items := in.Items()
		if len(items) == 0 {
			return value.NullValue, nil
		}
		best := items[0]
		if !best.IsNumber() {
			return value.NullValue, typeErr(op, best)
		}
		for _, it := range items[1:] {
			if !it.IsNumber() {
				return value.NullValue, typeErr(op, it)
			}
			if it.Compare(best) == want {
				best = it
			}
		}
		return best, nil
	}, nil
}
