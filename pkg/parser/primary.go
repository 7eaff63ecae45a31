package parser

import (
	"github.com/seijihariki/jsonquery/pkg/ast"
	"github.com/seijihariki/jsonquery/pkg/value"
)

// parsePrimary dispatches on the current character to one of the primary
// forms: property chain, string/number/regex literal, keyword,
// parenthesized expression, object/array literal, or function call.
func (p *parser) parsePrimary() (*ast.Node, error) {
	p.skipWS()
	if p.atEOF() {
		return nil, p.errorf("unexpected end of input")
	}
	switch c := p.peekByte(); {
	case c == '.':
		return p.parsePropertyChain()
	case c == '"':
		s, err := p.scanString()
		if err != nil {
			return nil, err
		}
		return ast.Lit(value.NewString(s)), nil
	case isDigit(c):
		n, err := p.scanNumber()
		if err != nil {
			return nil, err
		}
		return ast.Lit(n), nil
	case c == '/':
		pattern, flags, err := p.scanRegex()
		if err != nil {
			return nil, err
		}
		return ast.Lit(value.NewObject([]value.Member{
			{Key: "pattern", Val: value.NewString(pattern)},
			{Key: "flags", Val: value.NewString(flags)},
		})), nil
	case c == '(':
		p.pos++
		n, err := p.parseBinary(1)
		if err != nil {
			return nil, err
		}
		if err := p.expectByte(')'); err != nil {
			return nil, err
		}
		return n, nil
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case isIdentStart(c):
		return p.parseIdentOrCall()
	default:
		return nil, p.errorf("unexpected character %q", c)
	}
}

func (p *parser) expectByte(c byte) error {
	if p.peekByte() != c {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

// parseIdentOrCall handles the keyword literals, function calls, and the
// bare-identifier form of a property chain (the leading segment doesn't
// require a `.`).
func (p *parser) parseIdentOrCall() (*ast.Node, error) {
	id, _ := p.peekIdent()
	p.pos += len(id)
	switch id {
	case "true":
		return ast.Lit(value.True), nil
	case "false":
		return ast.Lit(value.False), nil
	case "null":
		return ast.Lit(value.NullValue), nil
	}
	if p.peekByte() == '(' {
		return p.parseCallArgs(id)
	}
	keys := []string{id}
	more, err := p.parseDottedSegments()
	if err != nil {
		return nil, err
	}
	keys = append(keys, more...)
	return ast.Get(keys...), nil
}

// parsePropertyChain handles paths that start with a `.`, including the
// bare `.` identity form (`get()` with no segments).
func (p *parser) parsePropertyChain() (*ast.Node, error) {
	keys, err := p.parseDottedSegments()
	if err != nil {
		return nil, err
	}
	return ast.Get(keys...), nil
}

// parseDottedSegments consumes zero or more `.segment` suffixes, where
// segment is a quoted string or a bare identifier.
func (p *parser) parseDottedSegments() ([]string, error) {
	var keys []string
	for p.peekByte() == '.' {
		p.pos++
		if p.peekByte() == '"' {
			s, err := p.scanString()
			if err != nil {
				return nil, err
			}
			keys = append(keys, s)
			continue
		}
		id, n := p.peekIdent()
		if n == 0 {
			return keys, nil
		}
		p.pos += n
		keys = append(keys, id)
	}
	return keys, nil
}

// parseCallArgs parses `(arg, ...)` after a function name has already
// been consumed.
func (p *parser) parseCallArgs(name string) (*ast.Node, error) {
	p.pos++ // '('
	var args []*ast.Node
	p.skipWS()
	if p.peekByte() != ')' {
		for {
			arg, err := p.parseBinary(1)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			p.skipWS()
			if p.peekByte() == ',' {
				p.pos++
				continue
			}
			break
		}
	}
	if err := p.expectByte(')'); err != nil {
		return nil, err
	}
	return ast.Call(name, args...), nil
}

// parseObject parses `{ key: expr, ... }`. Keys are unquoted identifiers
// or double-quoted strings; a trailing comma is not permitted; `{}` is a
// valid empty object.
func (p *parser) parseObject() (*ast.Node, error) {
	p.pos++ // '{'
	var keys []string
	var exprs []*ast.Node
	p.skipWS()
	if p.peekByte() == '}' {
		p.pos++
		return ast.Obj(keys, exprs), nil
	}
	for {
		p.skipWS()
		key, err := p.parseObjectKey()
		if err != nil {
			return nil, err
		}
		p.skipWS()
		if err := p.expectByte(':'); err != nil {
			return nil, err
		}
		val, err := p.parseBinary(1)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
		exprs = append(exprs, val)
		p.skipWS()
		if p.peekByte() == ',' {
			p.pos++
			continue
		}
		break
	}
	if err := p.expectByte('}'); err != nil {
		return nil, err
	}
	return ast.Obj(keys, exprs), nil
}

func (p *parser) parseObjectKey() (string, error) {
	if p.peekByte() == '"' {
		return p.scanString()
	}
	id, n := p.peekIdent()
	if n == 0 {
		return "", p.errorf("expected an object key")
	}
	p.pos += n
	return id, nil
}

// parseArray parses `[ expr, ... ]`; `[]` is a valid empty array.
func (p *parser) parseArray() (*ast.Node, error) {
	p.pos++ // '['
	var elems []*ast.Node
	p.skipWS()
	if p.peekByte() == ']' {
		p.pos++
		return ast.Arr(elems...), nil
	}
	for {
		elem, err := p.parseBinary(1)
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		p.skipWS()
		if p.peekByte() == ',' {
			p.pos++
			continue
		}
		break
	}
	if err := p.expectByte(']'); err != nil {
		return nil, err
	}
	return ast.Arr(elems...), nil
}
