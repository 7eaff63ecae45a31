// Package jsonquery is a small, embeddable query language for navigating
// and transforming tree-structured JSON-like data.
//
// A query is either text (parsed with a small, extensible grammar) or an
// already-built AST; both compile down to a pure Evaluator — a function
// from an input Value to an output Value — that never mutates its input
// and performs no I/O.
//
// # Quick Start
//
//	// Parse, compile, and run in one call.
//	result, err := jsonquery.Query(data, ".items | filter(.price > 100)")
//
//	// Compile once, evaluate many times.
//	ast, err := jsonquery.Parse(".items | sort(.price)")
//	eval, err := jsonquery.Compile(ast)
//	out1, _ := eval(data1)
//	out2, _ := eval(data2)
//
//	// Register a user function.
//	result, err := jsonquery.Query(data, `customFn()`, jsonquery.Options{
//		Functions: compiler.FunctionTable{
//			"customFn": jsonquery.BuildFunction(func(args ...value.Value) (value.Value, error) {
//				return value.NewNumber(42), nil
//			}),
//		},
//	})
//
// # More Information
//
// For the underlying packages, see:
//   - Parser: github.com/seijihariki/jsonquery/pkg/parser
//   - Compiler: github.com/seijihariki/jsonquery/pkg/compiler
//   - Standard library: github.com/seijihariki/jsonquery/pkg/stdlib
//   - Value model: github.com/seijihariki/jsonquery/pkg/value
package jsonquery

import (
	"fmt"
	"sort"
	"strings"

	"github.com/seijihariki/jsonquery/pkg/ast"
	"github.com/seijihariki/jsonquery/pkg/cache"
	"github.com/seijihariki/jsonquery/pkg/compiler"
	"github.com/seijihariki/jsonquery/pkg/parser"
	"github.com/seijihariki/jsonquery/pkg/stdlib"
	"github.com/seijihariki/jsonquery/pkg/value"
)

// queryCache is the default compile cache backing Query: parsing and
// compiling are both pure functions of the query (text or AST) plus the
// active options, so repeat queries skip straight to evaluation. Parse
// and Compile, called directly, remain cache-free.
var queryCache = cache.New(1024)

// Version returns the current version of this module.
func Version() string {
	return "v0.1.0-dev"
}

// Options is the extension bundle accepted by Query, Parse, and Compile:
// user functions and operators, merged on top of the core tables and
// shadowing them by name. Multiple Options values may be passed; later
// ones shadow earlier ones.
type Options struct {
	Functions compiler.FunctionTable
	Operators compiler.OperatorTable
}

func mergeOptions(opts []Options) Options {
	merged := Options{
		Functions: make(compiler.FunctionTable),
		Operators: make(compiler.OperatorTable),
	}
	for _, o := range opts {
		for name, b := range o.Functions {
			merged.Functions[name] = b
		}
		for sym, def := range o.Operators {
			merged.Operators[sym] = def
		}
	}
	return merged
}

// Query parses (if q is text) or accepts (if q is an *ast.Node) the
// query, compiles it, and evaluates it against data in one call. data may
// be a value.Value or any Go value accepted by value.FromInterface
// (decoded JSON, maps, slices, primitives). The parse+compile step is
// memoized in the package-level compile cache, keyed on the query (text,
// or an AST's canonical stringification) and a fingerprint of opts; use
// Cached for an isolated or differently sized cache.
func Query(data interface{}, q interface{}, opts ...Options) (value.Value, error) {
	return queryWith(queryCache, data, q, opts...)
}

// QueryFunc is the shape of Query and of the functions returned by Cached.
type QueryFunc func(data interface{}, q interface{}, opts ...Options) (value.Value, error)

// Cached returns a Query-shaped function backed by its own LRU compile
// cache of the given capacity, for a caller that wants an isolated cache
// (e.g. per-tenant) or a size other than the package default.
func Cached(capacity int) QueryFunc {
	c := cache.New(capacity)
	return func(data interface{}, q interface{}, opts ...Options) (value.Value, error) {
		return queryWith(c, data, q, opts...)
	}
}

func queryWith(c *cache.Cache, data interface{}, q interface{}, opts ...Options) (value.Value, error) {
	in, err := toValue(data)
	if err != nil {
		return value.NullValue, err
	}
	merged := mergeOptions(opts)
	key, err := cacheKey(q, merged)
	if err != nil {
		return value.NullValue, err
	}
	compiled, err := c.GetOrCompile(key, func() (*cache.Compiled, error) {
		n, err := toAST(q, merged)
		if err != nil {
			return nil, err
		}
		eval, err := compileMerged(n, merged)
		if err != nil {
			return nil, err
		}
		return &cache.Compiled{AST: n, Eval: eval}, nil
	})
	if err != nil {
		return value.NullValue, err
	}
	return compiled.Eval(in)
}

// cacheKey derives a compile-cache key for q under merged: the query text
// itself, or an already-built AST's canonical stringification, plus a
// fingerprint of the active function/operator names. Two Options values
// registering different closures under the same names aren't
// distinguishable this way — see fingerprintOptions.
func cacheKey(q interface{}, merged Options) (string, error) {
	var text string
	switch v := q.(type) {
	case string:
		text = v
	case *ast.Node:
		text = ast.Stringify(v)
	default:
		return "", fmt.Errorf("jsonquery: query must be a string or *ast.Node, got %T", q)
	}
	return text + "\x00" + fingerprintOptions(merged), nil
}

// fingerprintOptions summarizes an Options bundle by the names it binds,
// not the closures behind them: a function or operator re-registered
// under the same name with different behavior is indistinguishable to the
// cache, the same tradeoff the teacher's own key made for *types.Expression.
func fingerprintOptions(o Options) string {
	names := make([]string, 0, len(o.Functions))
	for name := range o.Functions {
		names = append(names, name)
	}
	sort.Strings(names)

	ops := make([]string, 0, len(o.Operators))
	for sym, def := range o.Operators {
		ops = append(ops, fmt.Sprintf("%s=%s:%d:%v", sym, def.Name, def.Tier, def.RightAssoc))
	}
	sort.Strings(ops)

	var b strings.Builder
	b.WriteString(strings.Join(names, ","))
	b.WriteByte(';')
	b.WriteString(strings.Join(ops, ","))
	return b.String()
}

// Parse converts query text into an AST using the core grammar plus any
// operators registered in opts.
func Parse(text string, opts ...Options) (*ast.Node, error) {
	return parseMerged(text, mergeOptions(opts))
}

func parseMerged(text string, merged Options) (*ast.Node, error) {
	ops := make(compiler.OperatorTable, len(stdlib.CoreOperators())+len(merged.Operators))
	for sym, def := range stdlib.CoreOperators() {
		ops[sym] = def
	}
	for sym, def := range merged.Operators {
		ops[sym] = def
	}
	return parser.Parse(text, ops)
}

// Stringify renders an AST back into canonical query text: the inverse
// of Parse, with minimal whitespace and parentheses only where required
// by precedence.
func Stringify(n *ast.Node) string {
	return ast.Stringify(n)
}

// Compile lowers an AST into an Evaluator using the core function table
// plus any functions/operators registered in opts.
func Compile(n *ast.Node, opts ...Options) (compiler.Evaluator, error) {
	return compileMerged(n, mergeOptions(opts))
}

func compileMerged(n *ast.Node, merged Options) (compiler.Evaluator, error) {
	ctx := compiler.NewCompileCtx(stdlib.Core(), stdlib.CoreOperators())
	ctx.Push(merged.Functions, merged.Operators)
	defer ctx.Pop()
	return compiler.Compile(n, ctx)
}

// MustCompile is like Compile but panics if the AST cannot be compiled.
// It simplifies safe initialization of global variables.
func MustCompile(n *ast.Node, opts ...Options) compiler.Evaluator {
	eval, err := Compile(n, opts...)
	if err != nil {
		panic(fmt.Sprintf("jsonquery: Compile: %v", err))
	}
	return eval
}

// BuildFunction wraps a plain N-ary value-level function into a
// compiler.Builder that auto-compiles its AST arguments against the same
// input, for registration under Options.Functions.
func BuildFunction(fn func(args ...value.Value) (value.Value, error)) compiler.Builder {
	return stdlib.BuildFunction(fn)
}

func toValue(data interface{}) (value.Value, error) {
	if v, ok := data.(value.Value); ok {
		return v, nil
	}
	return value.FromInterface(data)
}

func toAST(q interface{}, merged Options) (*ast.Node, error) {
	switch v := q.(type) {
	case string:
		return parseMerged(v, merged)
	case *ast.Node:
		return v, nil
	default:
		return nil, fmt.Errorf("jsonquery: query must be a string or *ast.Node, got %T", q)
	}
}
