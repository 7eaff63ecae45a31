package stdlib

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/seijihariki/jsonquery/pkg/ast"
	"github.com/seijihariki/jsonquery/pkg/compiler"
	"github.com/seijihariki/jsonquery/pkg/value"
)

// compileFlagged compiles pattern with i/m/s flags mapped onto Go's
// RE2 inline flag group; u (Unicode) is accepted but a no-op since Go
// strings and regexp are already Unicode-aware.
func compileFlagged(pattern, flags string) (*regexp.Regexp, error) {
	var group strings.Builder
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's':
			group.WriteRune(f)
		case 'u':
			// no-op
		}
	}
	if group.Len() > 0 {
		pattern = "(?" + group.String() + ")" + pattern
	}
	return regexp.Compile(pattern)
}

// literalPatternFlags extracts a static pattern/flags pair from a literal
// regex argument: either a plain String literal (pattern only) or an
// Object literal {"pattern":..., "flags":...} — the representation a
// `/pattern/flags` regex literal in source text lowers to (see
// pkg/parser). Returns ok=false when the argument isn't a literal of
// either shape, meaning the pattern must be resolved at evaluation time.
func literalPatternFlags(n *ast.Node) (pattern, flags string, ok bool) {
	if n.Kind != ast.KindLiteral {
		return "", "", false
	}
	v := n.Literal
	switch v.Kind() {
	case value.String:
		return v.Str(), "", true
	case value.Object:
		p, _ := v.Get("pattern")
		f, _ := v.Get("flags")
		if !p.IsString() {
			return "", "", false
		}
		fs := ""
		if f.IsString() {
			fs = f.Str()
		}
		return p.Str(), fs, true
	default:
		return "", "", false
	}
}

// buildRegex implements `regex(path, pattern, flags?)`. When pattern (and
// flags, if given) are literal, the regexp is compiled once at build time;
// otherwise it is recompiled on every evaluation.
func buildRegex(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArityRange("regex", len(args), 2, 3); err != nil {
		return nil, err
	}
	path, err := compiler.Compile(args[0], ctx)
	if err != nil {
		return nil, err
	}

	patternStr, flagsStr, staticPattern := literalPatternFlags(args[1])
	staticFlags := true
	if len(args) == 3 {
		if args[2].Kind == ast.KindLiteral && args[2].Literal.IsString() {
			flagsStr = args[2].Literal.Str()
		} else {
			staticFlags = false
		}
	}

	if staticPattern && staticFlags {
		re, err := compileFlagged(patternStr, flagsStr)
		if err != nil {
			return nil, fmt.Errorf("regex: invalid pattern %q: %w", patternStr, err)
		}
		return func(in value.Value) (value.Value, error) {
			pv, err := path(in)
			if err != nil {
				return value.NullValue, err
			}
			if !pv.IsString() {
				return value.False, nil
			}
			return value.NewBool(re.MatchString(pv.Str())), nil
		}, nil
	}

	// Dynamic pattern and/or flags: compiled sub-evaluators for whichever
	// parts aren't literal, recompiling the regexp each call.
	patternEval, err := compiler.Compile(args[1], ctx)
	if err != nil {
		return nil, err
	}
	var flagsEval compiler.Evaluator
	if len(args) == 3 {
		flagsEval, err = compiler.Compile(args[2], ctx)
		if err != nil {
			return nil, err
		}
	}
	return func(in value.Value) (value.Value, error) {
		pv, err := path(in)
		if err != nil {
			return value.NullValue, err
		}
		if !pv.IsString() {
			return value.False, nil
		}
		patV, err := patternEval(in)
		if err != nil {
			return value.NullValue, err
		}
		pattern, flags, ok := literalPatternFlags(ast.Lit(patV))
		if !ok {
			return value.NullValue, typeErr("regex", patV)
		}
		if flagsEval != nil {
			fv, err := flagsEval(in)
			if err != nil {
				return value.NullValue, err
			}
			if fv.IsString() {
				flags = fv.Str()
			}
		}
		re, err := compileFlagged(pattern, flags)
		if err != nil {
			return value.NullValue, fmt.Errorf("regex: invalid pattern %q: %w", pattern, err)
		}
		return value.NewBool(re.MatchString(pv.Str())), nil
	}, nil
}
