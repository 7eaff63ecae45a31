package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/seijihariki/jsonquery/pkg/value"
)

// opInfo describes how a canonical function name renders as an infix
// operator, and its precedence tier (higher binds tighter). Tiers mirror
// the parser's grammar (see pkg/parser): pipe < or < and < comparison/in <
// additive < multiplicative < power.
type opInfo struct {
	symbol string
	tier   int
}

var binaryOps = map[string]opInfo{
	"pipe":     {"|", 1},
	"or":       {"or", 2},
	"and":      {"and", 3},
	"eq":       {"==", 4},
	"ne":       {"!=", 4},
	"lt":       {"<", 4},
	"lte":      {"<=", 4},
	"gt":       {">", 4},
	"gte":      {">=", 4},
	"add":      {"+", 5},
	"subtract": {"-", 5},
	"multiply": {"*", 6},
	"divide":   {"/", 6},
	"mod":      {"%", 6},
	"pow":      {"^", 7},
}

const maxTier = 8

// Stringify renders ast into the canonical compact textual form: the
// inverse of the parser, with minimal whitespace and parentheses only
// where precedence requires disambiguation.
func Stringify(n *Node) string {
	var b strings.Builder
	writeNode(&b, n, 0)
	return b.String()
}

func writeNode(b *strings.Builder, n *Node, minTier int) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindLiteral:
		writeLiteral(b, n)
	case KindArray:
		b.WriteByte('[')
		for i, e := range n.Args {
			if i > 0 {
				b.WriteByte(',')
			}
			writeNode(b, e, 0)
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('{')
		for i, k := range n.Keys {
			if i > 0 {
				b.WriteByte(',')
			}
			writeKey(b, k)
			b.WriteByte(':')
			writeNode(b, n.Args[i], 0)
		}
		b.WriteByte('}')
	case KindFunction:
		writeFunction(b, n, minTier)
	}
}

func writeFunction(b *strings.Builder, n *Node, minTier int) {
	if n.Name == "get" && len(n.Args) == 0 {
		b.WriteByte('.')
		return
	}
	if n.Name == "get" && isPlainPath(n.Args) {
		writePath(b, n.Args)
		return
	}
	if n.Name == "pipe" {
		writeVariadicInfix(b, "|", 1, n.Args, minTier)
		return
	}
	if op, ok := binaryOps[n.Name]; ok && len(n.Args) == 2 {
		open := op.tier < minTier
		if open {
			b.WriteByte('(')
		}
		writeNode(b, n.Args[0], op.tier)
		b.WriteByte(' ')
		b.WriteString(op.symbol)
		b.WriteByte(' ')
		// Right side: for left-associative ops, a same-tier node on the
		// right needs parens; `^` is right-associative so it doesn't.
		rightMin := op.tier + 1
		if n.Name == "pow" {
			rightMin = op.tier
		}
		writeNode(b, n.Args[1], rightMin)
		if open {
			b.WriteByte(')')
		}
		return
	}
	if n.Name == "not" && len(n.Args) == 1 {
		b.WriteString("not ")
		writeNode(b, n.Args[0], maxTier)
		return
	}
	// generic call
	b.WriteString(n.Name)
	b.WriteByte('(')
	for i, a := range n.Args {
		if i > 0 {
			b.WriteByte(',')
		}
		writeNode(b, a, 0)
	}
	b.WriteByte(')')
}

func writeVariadicInfix(b *strings.Builder, sym string, tier int, args []*Node, minTier int) {
	open := tier < minTier
	if open {
		b.WriteByte('(')
	}
	for i, a := range args {
		if i > 0 {
			b.WriteByte(' ')
			b.WriteString(sym)
			b.WriteByte(' ')
		}
		writeNode(b, a, tier+1)
	}
	if open {
		b.WriteByte(')')
	}
}

// isPlainPath reports whether a get(...) node's args are all literal
// strings, so it can render as a `.a.b` path instead of `get("a","b")`.
func isPlainPath(args []*Node) bool {
	if len(args) == 0 {
		return false
	}
	for _, a := range args {
		if a.Kind != KindLiteral || !a.Literal.IsString() {
			return false
		}
	}
	return true
}

func writePath(b *strings.Builder, keys []*Node) {
	for _, k := range keys {
		b.WriteByte('.')
		writeKey(b, k.Literal.Str())
	}
}

func writeKey(b *strings.Builder, key string) {
	if isPlainIdent(key) {
		b.WriteString(key)
		return
	}
	b.WriteString(strconv.Quote(key))
}

func isPlainIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r == '$'
		isDigit := r >= '0' && r <= '9'
		if i == 0 && !isAlpha {
			return false
		}
		if i > 0 && !isAlpha && !isDigit {
			return false
		}
	}
	return true
}

func writeLiteral(b *strings.Builder, n *Node) {
	v := n.Literal
	switch {
	case v.IsNull():
		b.WriteString("null")
	case v.IsBool():
		b.WriteString(fmt.Sprintf("%t", v.Bool()))
	case v.IsNumber():
		b.WriteString(strconv.FormatFloat(v.Num(), 'g', -1, 64))
	case v.IsString():
		b.WriteString(strconv.Quote(v.Str()))
	case v.IsObject():
		if pattern, flags, ok := regexShape(v); ok {
			b.WriteByte('/')
			b.WriteString(pattern)
			b.WriteByte('/')
			b.WriteString(flags)
			return
		}
		writeJSONFallback(b, v)
	default:
		writeJSONFallback(b, v)
	}
}

// regexShape recognizes the {"pattern":..., "flags":...} object a regex
// literal lowers to, so it can be rendered back as `/pattern/flags`.
func regexShape(v value.Value) (pattern, flags string, ok bool) {
	members := v.Members()
	if len(members) < 1 || len(members) > 2 {
		return "", "", false
	}
	p, hasP := v.Get("pattern")
	if !hasP || !p.IsString() {
		return "", "", false
	}
	f, hasF := v.Get("flags")
	if len(members) == 2 && (!hasF || !f.IsString()) {
		return "", "", false
	}
	if hasF {
		flags = f.Str()
	}
	return p.Str(), flags, true
}

// writeJSONFallback renders a literal Value with no dedicated surface
// syntax (a hand-built array/object literal passed via ast.Lit, not
// produced by the parser) as compact JSON.
func writeJSONFallback(b *strings.Builder, v value.Value) {
	data, err := v.MarshalJSON()
	if err != nil {
		b.WriteString("null")
		return
	}
	b.Write(data)
}
