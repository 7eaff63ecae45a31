package parser

import "github.com/seijihariki/jsonquery/pkg/ast"

// parseBinary implements precedence climbing over p.ops: parse a unary
// operand, then repeatedly consume infix operators whose tier is >=
// minTier, recursing with tier+1 (left-associative) or tier (right-
// associative, e.g. `^`) for the right-hand operand.
func (p *parser) parseBinary(minTier int) (*ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWS()
		name, tier, rightAssoc, length, ok := p.matchOperator()
		if !ok || tier < minTier {
			return left, nil
		}
		p.pos += length
		nextMin := tier + 1
		if rightAssoc {
			nextMin = tier
		}
		right, err := p.parseBinary(nextMin)
		if err != nil {
			return nil, err
		}
		left = ast.Call(name, left, right)
	}
}

// matchOperator looks for an infix operator starting at the (whitespace-
// skipped) cursor without consuming it. Keyword operators (and, or, in,
// not in, or any user-registered identifier-shaped symbol) are matched as
// whole identifiers; everything else is matched as the longest symbol key
// in p.ops that is a literal prefix of the remaining input.
func (p *parser) matchOperator() (name string, tier int, rightAssoc bool, length int, ok bool) {
	if id, idLen := p.peekIdent(); idLen > 0 {
		if id == "not" {
			after := p.pos + idLen
			wsEnd := skipWSFrom(p.src, after)
			if id2, id2Len := peekIdentAt(p.src, wsEnd); id2 == "in" && id2Len > 0 {
				if def, ok := p.ops["not in"]; ok {
					return def.Name, def.Tier, def.RightAssoc, (wsEnd + id2Len) - p.pos, true
				}
			}
			return "", 0, false, 0, false
		}
		if def, ok := p.ops[id]; ok && isIdentShaped(id) {
			return def.Name, def.Tier, def.RightAssoc, idLen, true
		}
		return "", 0, false, 0, false
	}

	var bestKey string
	for key, def := range p.ops {
		if isIdentShaped(key) {
			continue
		}
		if len(key) > len(bestKey) && p.hasPrefix(key) {
			bestKey = key
			tier, rightAssoc, name = def.Tier, def.RightAssoc, def.Name
		}
	}
	if bestKey == "" {
		return "", 0, false, 0, false
	}
	return name, tier, rightAssoc, len(bestKey), true
}

// parseUnary handles the two prefix forms (level 8): unary `-` desugars
// to `subtract(0, operand)`, unary `not` to `not(operand)`. Both bind
// tighter than `^` by recursing into parseUnary (not parsePrimary) so
// chained prefixes and the operand of `^` are handled uniformly.
func (p *parser) parseUnary() (*ast.Node, error) {
	p.skipWS()
	if p.peekByte() == '-' {
		p.pos++
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.Call("subtract", ast.Lit(zeroValue), operand), nil
	}
	if id, idLen := p.peekIdent(); id == "not" && idLen > 0 {
		p.pos += idLen
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.Call("not", operand), nil
	}
	return p.parsePrimary()
}

func isIdentShaped(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (i > 0 && c >= '0' && c <= '9') || c == ' ') {
			return false
		}
	}
	return true
}
