package stdlib

import (
	"github.com/seijihariki/jsonquery/pkg/ast"
	"github.com/seijihariki/jsonquery/pkg/compiler"
	"github.com/seijihariki/jsonquery/pkg/value"
)

// Core returns the core function table: every builtin name the compiler
// can resolve a KindFunction call against out of the box. User-supplied
// tables (Options.Functions) are merged on top of this one, shadowing by
// name, via CompileCtx.Push.
func Core() compiler.FunctionTable {
	return compiler.FunctionTable{
		// Structural
		"pipe": buildPipe,
		"get":  buildGet,

		// Collection
		"map":     buildMap,
		"filter":  buildFilter,
		"sort":    buildSort,
		"reverse": buildReverse,
		"pick":    buildPick,
		"groupBy": buildGroupBy,
		"keyBy":   buildKeyBy,
		"flatten": buildFlatten,
		"join":    buildJoin,
		"uniq":    buildUniq,
		"uniqBy":  buildUniqBy,
		"limit":   buildLimit,
		"size":    buildSize,
		"keys":    buildKeys,
		"values":  buildValues,

		// Numeric folds
		"sum":     buildSum,
		"prod":    buildProd,
		"average": buildAverage,
		"min":     buildMin,
		"max":     buildMax,

		// String
		"split":     buildSplit,
		"substring": buildSubstring,
		"number":    buildNumber,
		"string":    buildString,

		// Arithmetic
		"add":      buildAdd,
		"subtract": buildSubtract,
		"multiply": buildMultiply,
		"divide":   buildDivide,
		"pow":      buildPow,
		"mod":      buildMod,
		"abs":      buildAbs,
		"round":    buildRound,

		// Comparison / logic
		"eq":  buildEq,
		"ne":  buildNe,
		"gt":  buildGt,
		"gte": buildGte,
		"lt":  buildLt,
		"lte": buildLte,
		"and": buildAnd,
		"or":  buildOr,
		"not": buildNot,

		// Conditional / membership / regex
		"if":     buildIf,
		"exists": buildExists,
		"in":     buildIn,
		"notIn":  buildNotIn,
		"regex":  buildRegex,

		// Extra collection helpers (see DESIGN.md)
		"first": buildFirst,
		"last":  buildLast,
		"merge": buildMerge,
	}
}

// Tier constants for the canonical operator table, matching the parser's
// precedence levels (see pkg/parser): higher binds tighter.
const (
	TierPipe = iota + 1
	TierOr
	TierAnd
	TierComparison
	TierAdditive
	TierMultiplicative
	TierPower
	TierUnary
)

// CoreOperators returns the canonical operator→function-name/precedence
// table the parser uses to desugar infix syntax into Function nodes.
func CoreOperators() compiler.OperatorTable {
	return compiler.OperatorTable{
		"|":      {Name: "pipe", Tier: TierPipe},
		"or":     {Name: "or", Tier: TierOr},
		"and":    {Name: "and", Tier: TierAnd},
		"==":     {Name: "eq", Tier: TierComparison},
		"!=":     {Name: "ne", Tier: TierComparison},
		"<":      {Name: "lt", Tier: TierComparison},
		"<=":     {Name: "lte", Tier: TierComparison},
		">":      {Name: "gt", Tier: TierComparison},
		">=":     {Name: "gte", Tier: TierComparison},
		"in":     {Name: "in", Tier: TierComparison},
		"not in": {Name: "notIn", Tier: TierComparison},
		"+":      {Name: "add", Tier: TierAdditive},
		"-":      {Name: "subtract", Tier: TierAdditive},
		"*":      {Name: "multiply", Tier: TierMultiplicative},
		"/":      {Name: "divide", Tier: TierMultiplicative},
		"%":      {Name: "mod", Tier: TierMultiplicative},
		"^":      {Name: "pow", Tier: TierPower, RightAssoc: true},
	}
}

// BuildFunction wraps a plain N-ary value-level function into a
// compiler.Builder that auto-compiles its AST arguments: every argument is
// compiled once and evaluated against the same input each call, and their
// results are passed to fn in order. This is the mechanism behind the
// façade's exported BuildFunction helper (see the root package), letting a
// caller register `func(args ...value.Value) (value.Value, error)` as a
// query function without hand-writing a Builder.
func BuildFunction(fn func(args ...value.Value) (value.Value, error)) compiler.Builder {
	return func(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
		evals, err := compileEach(args, ctx)
		if err != nil {
			return nil, err
		}
		return func(in value.Value) (value.Value, error) {
			vals := make([]value.Value, len(evals))
			for i, ev := range evals {
				v, err := ev(in)
				if err != nil {
					return value.NullValue, err
				}
				vals[i] = v
			}
			return fn(vals...)
		}, nil
	}
}
