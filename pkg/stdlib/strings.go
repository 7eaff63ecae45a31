package stdlib

import (
	"strconv"
	"strings"

	"github.com/seijihariki/jsonquery/pkg/ast"
	"github.com/seijihariki/jsonquery/pkg/compiler"
	"github.com/seijihariki/jsonquery/pkg/value"
)

// buildSplit implements `split(text, sep?)`.
func buildSplit(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArityRange("split", len(args), 1, 2); err != nil {
		return nil, err
	}
	textEval, err := compiler.Compile(args[0], ctx)
	if err != nil {
		return nil, err
	}
	var sepEval compiler.Evaluator
	if len(args) == 2 {
		sepEval, err = compiler.Compile(args[1], ctx)
		if err != nil {
			return nil, err
		}
	}
	return func(in value.Value) (value.Value, error) {
		t, err := textEval(in)
		if err != nil {
			return value.NullValue, err
		}
		if !t.IsString() {
			return value.NullValue, typeErr("split", t)
		}
		var parts []string
		if sepEval == nil {
			parts = trimAndSplitWhitespace(t.Str())
		} else {
			sepV, err := sepEval(in)
			if err != nil {
				return value.NullValue, err
			}
			if !sepV.IsString() {
				return value.NullValue, typeErr("split", sepV)
			}
			parts = strings.Split(t.Str(), sepV.Str())
		}
		out := make([]value.Value, len(parts))
		for i, p := range parts {
			out[i] = value.NewString(p)
		}
		return value.NewArray(out), nil
	}, nil
}

// buildSubstring implements `substring(text, start, end?)`, clamping a
// negative start to 0. Indices are codepoint offsets.
func buildSubstring(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArityRange("substring", len(args), 2, 3); err != nil {
		return nil, err
	}
	textEval, err := compiler.Compile(args[0], ctx)
	if err != nil {
		return nil, err
	}
	startEval, err := compiler.Compile(args[1], ctx)
	if err != nil {
		return nil, err
	}
	var endEval compiler.Evaluator
	if len(args) == 3 {
		endEval, err = compiler.Compile(args[2], ctx)
		if err != nil {
			return nil, err
		}
	}
	return func(in value.Value) (value.Value, error) {
		t, err := textEval(in)
		if err != nil {
			return value.NullValue, err
		}
		if !t.IsString() {
			return value.NullValue, typeErr("substring", t)
		}
		runes := []rune(t.Str())
		sv, err := startEval(in)
		if err != nil {
			return value.NullValue, err
		}
		start := int(sv.Num())
		if start < 0 {
			start = 0
		}
		end := len(runes)
		if endEval != nil {
			ev, err := endEval(in)
			if err != nil {
				return value.NullValue, err
			}
			end = int(ev.Num())
		}
		if start > len(runes) {
			start = len(runes)
		}
		if end > len(runes) {
			end = len(runes)
		}
		if end < start {
			end = start
		}
		return value.NewString(string(runes[start:end])), nil
	}, nil
}

// buildNumber implements `number(text)`: parses text into a Number, or
// Null if unparseable.
func buildNumber(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("number", len(args), 1); err != nil {
		return nil, err
	}
	textEval, err := compiler.Compile(args[0], ctx)
	if err != nil {
		return nil, err
	}
	return func(in value.Value) (value.Value, error) {
		t, err := textEval(in)
		if err != nil {
			return value.NullValue, err
		}
		switch t.Kind() {
		case value.Number:
			return t, nil
		case value.String:
			n, err := strconv.ParseFloat(strings.TrimSpace(t.Str()), 64)
			if err != nil {
				return value.NullValue, nil
			}
			return value.NewNumber(n), nil
		default:
			return value.NullValue, nil
		}
	}, nil
}

// buildString implements `string(x)`: the canonical conversion used
// throughout the stdlib (join/groupBy/keyBy share its semantics via the
// unexported stringify helper).
func buildString(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
	if err := checkArity("string", len(args), 1); err != nil {
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
		return value.NewString(stringify(x)), nil
	}, nil
}
