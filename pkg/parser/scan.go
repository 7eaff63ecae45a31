package parser

import (
	"strconv"
	"strings"

	"github.com/seijihariki/jsonquery/pkg/value"
)

var zeroValue = value.NewNumber(0)

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// peekIdent scans an identifier at the current cursor without consuming
// it, returning ("", 0) if the cursor isn't at an identifier start.
func (p *parser) peekIdent() (string, int) {
	return peekIdentAt(p.src, p.pos)
}

func peekIdentAt(src string, pos int) (string, int) {
	if pos >= len(src) || !isIdentStart(src[pos]) {
		return "", 0
	}
	end := pos + 1
	for end < len(src) && isIdentCont(src[end]) {
		end++
	}
	return src[pos:end], end - pos
}

func skipWSFrom(src string, pos int) int {
	for pos < len(src) {
		switch src[pos] {
		case ' ', '\t', '\r', '\n':
			pos++
		default:
			return pos
		}
	}
	return pos
}

// scanNumber reads a number literal (no leading sign — that's handled by
// the unary operator level): digits, optional fractional part, optional
// exponent.
func (p *parser) scanNumber() (value.Value, error) {
	start := p.pos
	if p.peekByte() == '0' {
		p.pos++
	} else {
		for !p.atEOF() && isDigit(p.peekByte()) {
			p.pos++
		}
	}
	if p.pos == start {
		return value.NullValue, p.errorf("expected a digit")
	}
	if p.peekByte() == '.' && p.pos+1 < len(p.src) && isDigit(p.src[p.pos+1]) {
		p.pos++
		for !p.atEOF() && isDigit(p.peekByte()) {
			p.pos++
		}
	}
	if c := p.peekByte(); c == 'e' || c == 'E' {
		save := p.pos
		p.pos++
		if c := p.peekByte(); c == '+' || c == '-' {
			p.pos++
		}
		digitsStart := p.pos
		for !p.atEOF() && isDigit(p.peekByte()) {
			p.pos++
		}
		if p.pos == digitsStart {
			p.pos = save
		}
	}
	n, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return value.NullValue, p.errorf("invalid number literal %q", p.src[start:p.pos])
	}
	return value.NewNumber(n), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// scanString reads a double-quoted string starting at the opening quote,
// handling \" \\ \n \t \r \uXXXX escapes.
func (p *parser) scanString() (string, error) {
	if p.peekByte() != '"' {
		return "", p.errorf("expected '\"'")
	}
	p.pos++
	var sb strings.Builder
	for {
		if p.atEOF() {
			return "", p.errorf("unterminated string literal")
		}
		c := p.src[p.pos]
		if c == '"' {
			p.pos++
			return sb.String(), nil
		}
		if c == '\\' {
			p.pos++
			if p.atEOF() {
				return "", p.errorf("unterminated escape sequence")
			}
			esc := p.src[p.pos]
			switch esc {
			case '"':
				sb.WriteByte('"')
				p.pos++
			case '\\':
				sb.WriteByte('\\')
				p.pos++
			case 'n':
				sb.WriteByte('\n')
				p.pos++
			case 't':
				sb.WriteByte('\t')
				p.pos++
			case 'r':
				sb.WriteByte('\r')
				p.pos++
			case 'u':
				p.pos++
				if p.pos+4 > len(p.src) {
					return "", p.errorf("incomplete \\u escape")
				}
				hex := p.src[p.pos : p.pos+4]
				code, err := strconv.ParseUint(hex, 16, 32)
				if err != nil {
					return "", p.errorf("invalid \\u escape %q", hex)
				}
				sb.WriteRune(rune(code))
				p.pos += 4
			default:
				return "", p.errorf("unknown escape \\%c", esc)
			}
			continue
		}
		sb.WriteByte(c)
		p.pos++
	}
}

// scanRegex reads a `/pattern/flags` literal starting at the opening
// slash. pattern forbids an unescaped '/'; flags is a run of identifier
// characters (letters, digits, '_' and '$').
func (p *parser) scanRegex() (pattern, flags string, err error) {
	if p.peekByte() != '/' {
		return "", "", p.errorf("expected '/'")
	}
	p.pos++
	var sb strings.Builder
	for {
		if p.atEOF() {
			return "", "", p.errorf("unterminated regex literal")
		}
		c := p.src[p.pos]
		if c == '/' {
			p.pos++
			break
		}
		if c == '\\' && p.pos+1 < len(p.src) {
			sb.WriteByte(c)
			sb.WriteByte(p.src[p.pos+1])
			p.pos += 2
			continue
		}
		sb.WriteByte(c)
		p.pos++
	}
	flagStart := p.pos
	for !p.atEOF() && isIdentCont(p.src[p.pos]) {
		p.pos++
	}
	return sb.String(), p.src[flagStart:p.pos], nil
}
