// Package parser converts query text into an *ast.Node tree. It is a
// single-pass, recursive-descent (Pratt-style) parser with no separate
// lexer stage: each parse function scans the bytes it needs directly off
// the source string, deciding what a run of characters means from its own
// grammatical position rather than from a pre-classified token stream.
package parser

import (
	"fmt"

	"github.com/seijihariki/jsonquery/pkg/ast"
	"github.com/seijihariki/jsonquery/pkg/compiler"
	"github.com/seijihariki/jsonquery/pkg/jsonerr"
)

// Options bundles the extension points a caller can supply: additional or
// shadowing operator symbols. Function names never appear in the grammar
// itself (a call site is just `name(args)`), so the parser only needs the
// operator table; the function table is purely a compile-time concern.
type Options struct {
	Operators compiler.OperatorTable
}

// parser holds the cursor over the source text. Its lifetime is a single
// Parse call.
type parser struct {
	src string
	pos int
	ops compiler.OperatorTable
}

// Parse converts text into an AST, using ops (core operators merged with
// any caller-registered ones) to resolve infix syntax. Returns a
// *jsonerr.ParseError on malformed input; never panics, never recovers.
func Parse(text string, ops compiler.OperatorTable) (*ast.Node, error) {
	p := &parser{src: text, pos: 0, ops: resolveTiers(ops)}
	p.skipWS()
	if p.atEOF() {
		return nil, p.errorf("empty expression")
	}
	n, err := p.parseBinary(1)
	if err != nil {
		return nil, err
	}
	p.skipWS()
	if !p.atEOF() {
		return nil, p.errorf("unexpected input at byte %d", p.pos)
	}
	return n, nil
}

// fallbackTier is the tier an operator falls back to when it's registered
// with Tier 0 and no other entry bound to the same canonical function
// supplies one: tier 1, the loosest core tier (pipe), so an unspecified
// precedence never silently binds tighter than the caller would expect.
const fallbackTier = 1

// resolveTiers fills in a Tier for any entry registered with Tier 0 by
// borrowing the tier of another entry bound to the same canonical
// function name (e.g. a custom "xor" mapped to "ne" picks up "!="'s
// comparison tier), falling back to fallbackTier when no other binding
// exists.
func resolveTiers(ops compiler.OperatorTable) compiler.OperatorTable {
	byName := make(map[string]int, len(ops))
	for _, def := range ops {
		if def.Tier != 0 {
			if _, ok := byName[def.Name]; !ok {
				byName[def.Name] = def.Tier
			}
		}
	}
	resolved := make(compiler.OperatorTable, len(ops))
	for sym, def := range ops {
		if def.Tier == 0 {
			if tier, ok := byName[def.Name]; ok {
				def.Tier = tier
			} else {
				def.Tier = fallbackTier
			}
		}
		resolved[sym] = def
	}
	return resolved
}

func (p *parser) errorf(format string, args ...any) error {
	return &jsonerr.ParseError{Offset: p.pos, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) atEOF() bool { return p.pos >= len(p.src) }

func (p *parser) peekByte() byte {
	if p.atEOF() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) hasPrefix(s string) bool {
	return p.pos+len(s) <= len(p.src) && p.src[p.pos:p.pos+len(s)] == s
}

func (p *parser) skipWS() {
	for !p.atEOF() {
		switch p.src[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}
