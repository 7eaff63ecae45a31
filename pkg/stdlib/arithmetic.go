package stdlib

import (
	"math"

	"github.com/seijihariki/jsonquery/pkg/ast"
	"github.com/seijihariki/jsonquery/pkg/compiler"
	"github.com/seijihariki/jsonquery/pkg/value"
)

// binaryNumeric builds a two-argument arithmetic function; both operands
// must evaluate to Number (anything else is a TypeError).
func binaryNumeric(name string, op func(a, b float64) float64) compiler.Builder {
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
			if !a.IsNumber() {
				return value.NullValue, typeErr(name, a)
			}
			b, err := r(in)
			if err != nil {
				return value.NullValue, err
			}
			if !b.IsNumber() {
				return value.NullValue, typeErr(name, b)
			}
			return value.NewNumber(op(a.Num(), b.Num())), nil
		}, nil
	}
}

var (
	buildAdd      = binaryNumeric("add", func(a, b float64) float64 { return a + b })
	buildSubtract = binaryNumeric("subtract", func(a, b float64) float64 { return a - b })
	buildMultiply = binaryNumeric("multiply", func(a, b float64) float64 { return a * b })
	buildDivide   = binaryNumeric("divide", func(a, b float64) float64 { return a / b })
	buildPow      = binaryNumeric("pow", math.Pow)
	buildMod      = binaryNumeric("mod", math.Mod)
)

// buildAbs implements `abs(x)`.
func buildAbs(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("abs", len(args), 1); err != nil {
		return nil, err
	}
	xEval, err := compiler.Compile(args[0], ctx)
	if err != nil {
		return nil, err
	}
	return func(in value.Value) (value.Value, error) {
		x, err := xEval(in)
		if err != nil {
			return value.NullValue, err
		}
		if !x.IsNumber() {
			return value.NullValue, typeErr("abs", x)
		}
		return value.NewNumber(math.Abs(x.Num())), nil
	}, nil
}

// buildRound implements `round(value, digits=0)`: half-away-from-zero
// rounding at the given decimal digit.
func buildRound(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArityRange("round", len(args), 1, 2); err != nil {
		return nil, err
	}
	valEval, err := compiler.Compile(args[0], ctx)
	if err != nil {
		return nil, err
	}
	var digitsEval compiler.Evaluator
	if len(args) == 2 {
		digitsEval, err = compiler.Compile(args[1], ctx)
		if err != nil {
			return nil, err
		}
	}
	return func(in value.Value) (value.Value, error) {
		v, err := valEval(in)
		if err != nil {
			return value.NullValue, err
		}
		if !v.IsNumber() {
			return value.NullValue, typeErr("round", v)
		}
		digits := 0.0
		if digitsEval != nil {
			d, err := digitsEval(in)
			if err != nil {
				return value.NullValue, err
			}
			if !d.IsNumber() {
				return value.NullValue, typeErr("round", d)
			}
			digits = d.Num()
		}
		scale := math.Pow(10, digits)
		return value.NewNumber(math.Round(v.Num()*scale) / scale), nil
	}, nil
}
