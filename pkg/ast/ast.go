// Package ast defines the abstract form of a query: a small tagged tree
// that both the parser (from text) and a caller (by hand) can produce, and
// that the compiler consumes.
package ast

import "github.com/seijihariki/jsonquery/pkg/value"

// Kind identifies which case of Node is populated.
type Kind int

const (
	// KindLiteral holds a constant value.Value.
	KindLiteral Kind = iota
	// KindFunction is a call: Name plus Args. Infix operators and property
	// access (`get`) desugar to this case, and Pipe is a Function node
	// named "pipe"; Object and Array have cases of their own (see the doc
	// on Node).
	KindFunction
	// KindObject is literal object construction with dynamic values;
	// Keys holds the literal key order, Args the per-key value expressions.
	KindObject
	// KindArray is literal array construction with dynamic elements.
	KindArray
)

// Node is a single abstract-form tree node.
//
// Object and Array could be modeled purely as KindFunction nodes named
// "object"/"array" (the spec notes this is an internal choice); this
// implementation keeps them as distinct cases because object construction
// needs a parallel Keys slice that doesn't fit the plain Name/Args shape,
// and giving Array its own case keeps that symmetric. Pipe has no case of
// its own: `pipe(a, b, c)` is simply `KindFunction{Name: "pipe", Args: [a,
// b, c]}`, matching the spec's "Pipe([AST]) — shorthand for
// Function("pipe", …)" framing exactly.
type Node struct {
	Kind Kind

	// KindLiteral
	Literal value.Value

	// KindFunction
	Name string
	Args []*Node

	// KindObject: len(Keys) == len(Args); Keys[i] is the literal key,
	// Args[i] is the expression for that key's value.
	Keys []string
}

// Lit builds a KindLiteral node.
func Lit(v value.Value) *Node { return &Node{Kind: KindLiteral, Literal: v} }

// Call builds a KindFunction node.
func Call(name string, args ...*Node) *Node {
	return &Node{Kind: KindFunction, Name: name, Args: args}
}

// Pipe builds the `pipe` Function node shorthand.
func Pipe(stages ...*Node) *Node { return Call("pipe", stages...) }

// Get builds a `get(k1, k2, ...)` property-access Function node from
// literal string keys.
func Get(keys ...string) *Node {
	args := make([]*Node, len(keys))
	for i, k := range keys {
		args[i] = Lit(value.NewString(k))
	}
	return Call("get", args...)
}

// Obj builds a KindObject node. keys[i] pairs with exprs[i].
func Obj(keys []string, exprs []*Node) *Node {
	return &Node{Kind: KindObject, Keys: keys, Args: exprs}
}

// Arr builds a KindArray node.
func Arr(elems ...*Node) *Node {
	return &Node{Kind: KindArray, Args: elems}
}
