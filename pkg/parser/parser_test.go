package parser_test

import (
	"testing"

	"github.com/seijihariki/jsonquery/pkg/ast"
	"github.com/seijihariki/jsonquery/pkg/compiler"
	"github.com/seijihariki/jsonquery/pkg/jsonerr"
	"github.com/seijihariki/jsonquery/pkg/parser"
	"github.com/seijihariki/jsonquery/pkg/stdlib"
	"github.com/seijihariki/jsonquery/pkg/value"
)

func parse(t *testing.T, text string) *ast.Node {
	t.Helper()
	n, err := parser.Parse(text, stdlib.CoreOperators())
	if err != nil {
		t.Fatalf("parse(%q): %v", text, err)
	}
	return n
}

func run(t *testing.T, text string, in value.Value) value.Value {
	t.Helper()
	n := parse(t, text)
	ctx := compiler.NewCompileCtx(stdlib.Core(), stdlib.CoreOperators())
	ev, err := compiler.Compile(n, ctx)
	if err != nil {
		t.Fatalf("compile(%q): %v", text, err)
	}
	out, err := ev(in)
	if err != nil {
		t.Fatalf("eval(%q): %v", text, err)
	}
	return out
}

func TestPropertyChainDotted(t *testing.T) {
	in := value.NewObject([]value.Member{{Key: "name", Val: value.NewString("Joe")}})
	out := run(t, `.name`, in)
	if out.Str() != "Joe" {
		t.Fatalf("got %v", out)
	}
}

func TestPropertyChainBareIdentifier(t *testing.T) {
	in := value.NewObject([]value.Member{{Key: "name", Val: value.NewString("Joe")}})
	out := run(t, `name`, in)
	if out.Str() != "Joe" {
		t.Fatalf("got %v", out)
	}
}

func TestPropertyChainMixedQuoted(t *testing.T) {
	in := value.NewObject([]value.Member{
		{Key: "a", Val: value.NewObject([]value.Member{{Key: "weird key", Val: value.NewNumber(9)}})},
	})
	out := run(t, `.a."weird key"`, in)
	if out.Num() != 9 {
		t.Fatalf("got %v", out)
	}
}

func TestIdentityDot(t *testing.T) {
	in := value.NewNumber(5)
	out := run(t, `.`, in)
	if out.Num() != 5 {
		t.Fatalf("got %v", out)
	}
}

func TestNullPropagation(t *testing.T) {
	in := value.NewObject([]value.Member{
		{Key: "a", Val: value.NewObject([]value.Member{{Key: "b", Val: value.NullValue}})},
	})
	out := run(t, `.a.b.c`, in)
	if !out.IsNull() {
		t.Fatalf("expected null, got %v", out)
	}
}

func TestSortThenMapText(t *testing.T) {
	mk := func(a float64) value.Value {
		return value.NewObject([]value.Member{{Key: "a", Val: value.NewNumber(a)}})
	}
	in := value.NewArray([]value.Value{mk(3), mk(1), mk(2)})
	out := run(t, `sort(.a) | map(.a)`, in)
	items := out.Items()
	want := []float64{1, 2, 3}
	for i, w := range want {
		if items[i].Num() != w {
			t.Errorf("items[%d] = %v, want %v", i, items[i], w)
		}
	}
}

func TestFilterThenSum(t *testing.T) {
	in := value.NewArray([]value.Value{
		value.NewNumber(1), value.NewNumber(2), value.NewNumber(3), value.NewNumber(4),
	})
	out := run(t, `filter(. > 2) | sum()`, in)
	if out.Num() != 7 {
		t.Fatalf("got %v, want 7", out)
	}
}

func TestGroupByText(t *testing.T) {
	mk := func(g string, v float64) value.Value {
		return value.NewObject([]value.Member{{Key: "g", Val: value.NewString(g)}, {Key: "v", Val: value.NewNumber(v)}})
	}
	in := value.NewArray([]value.Value{mk("x", 1), mk("y", 2), mk("x", 3)})
	out := run(t, `groupBy(.g)`, in)
	if len(out.Members()) != 2 {
		t.Fatalf("got %v", out)
	}
}

func TestArithmeticPrecedence(t *testing.T) {
	out := run(t, `2 + 3 * 4`, value.NullValue)
	if out.Num() != 14 {
		t.Fatalf("got %v, want 14", out)
	}
}

func TestPowRightAssociative(t *testing.T) {
	// 2 ^ 3 ^ 2 == 2 ^ (3 ^ 2) == 2^9 == 512, not (2^3)^2 == 64.
	out := run(t, `2 ^ 3 ^ 2`, value.NullValue)
	if out.Num() != 512 {
		t.Fatalf("got %v, want 512", out)
	}
}

func TestUnaryMinusBindsTighterThanPow(t *testing.T) {
	// -2 ^ 2 == (-2) ^ 2 == 4, per the grammar's tier ordering.
	out := run(t, `-2 ^ 2`, value.NullValue)
	if out.Num() != 4 {
		t.Fatalf("got %v, want 4", out)
	}
}

func TestParenOverridesPrecedence(t *testing.T) {
	out := run(t, `(2 + 3) * 4`, value.NullValue)
	if out.Num() != 20 {
		t.Fatalf("got %v, want 20", out)
	}
}

func TestNotInOperator(t *testing.T) {
	in := value.NewArray([]value.Value{value.NewNumber(1), value.NewNumber(2)})
	out := run(t, `3 not in .`, in)
	if out.Bool() != true {
		t.Fatalf("got %v", out)
	}
}

func TestObjectAndArrayLiterals(t *testing.T) {
	out := run(t, `{a: 1, b: [1,2,.x]}`, value.NewObject([]value.Member{{Key: "x", Val: value.NewNumber(3)}}))
	members := out.Members()
	if members[0].Key != "a" || members[0].Val.Num() != 1 {
		t.Fatalf("got %v", out)
	}
	items := members[1].Val.Items()
	if len(items) != 3 || items[2].Num() != 3 {
		t.Fatalf("got %v", members[1].Val)
	}
}

func TestRegexLiteral(t *testing.T) {
	in := value.NewObject([]value.Member{{Key: "x", Val: value.NewString("hello")}})
	out := run(t, `regex(.x, /^he/i)`, in)
	if out.Bool() != true {
		t.Fatalf("got %v", out)
	}
}

func TestCustomOperator(t *testing.T) {
	ops := stdlib.CoreOperators()
	ops["xor"] = compiler.OperatorDef{Name: "ne", Tier: stdlib.TierComparison}
	n, err := parser.Parse(`true xor false`, ops)
	if err != nil {
		t.Fatal(err)
	}
	ctx := compiler.NewCompileCtx(stdlib.Core(), stdlib.CoreOperators())
	ev, err := compiler.Compile(n, ctx)
	if err != nil {
		t.Fatal(err)
	}
	out, err := ev(value.NullValue)
	if err != nil {
		t.Fatal(err)
	}
	if out.Bool() != true {
		t.Fatalf("got %v", out)
	}
}

func TestCustomOperatorDerivesTierFromSiblingBinding(t *testing.T) {
	ops := stdlib.CoreOperators()
	ops["isnt"] = compiler.OperatorDef{Name: "ne"}
	n, err := parser.Parse(`1 + 1 isnt 3`, ops)
	if err != nil {
		t.Fatal(err)
	}
	ctx := compiler.NewCompileCtx(stdlib.Core(), stdlib.CoreOperators())
	ev, err := compiler.Compile(n, ctx)
	if err != nil {
		t.Fatal(err)
	}
	out, err := ev(value.NullValue)
	if err != nil {
		t.Fatal(err)
	}
	if out.Bool() != true {
		t.Fatalf("got %v, want true (1+1 isnt 3 parses as (1+1) isnt 3)", out)
	}
}

func TestEmptyExpressionIsParseError(t *testing.T) {
	_, err := parser.Parse(``, stdlib.CoreOperators())
	var pe *jsonerr.ParseError
	if err == nil {
		t.Fatal("expected an error")
	}
	if !asParseError(err, &pe) {
		t.Fatalf("expected *jsonerr.ParseError, got %T: %v", err, err)
	}
}

func TestUnterminatedParenIsParseError(t *testing.T) {
	_, err := parser.Parse(`(1 + 2`, stdlib.CoreOperators())
	var pe *jsonerr.ParseError
	if !asParseError(err, &pe) {
		t.Fatalf("expected *jsonerr.ParseError, got %T: %v", err, err)
	}
}

func asParseError(err error, target **jsonerr.ParseError) bool {
	pe, ok := err.(*jsonerr.ParseError)
	if ok {
		*target = pe
	}
	return ok
}

func TestStringifyRoundTrip(t *testing.T) {
	texts := []string{
		`.a.b."c"`,
		`sort(.a) | map(.a)`,
		`2 + 3 * 4 - 1`,
		`2 ^ 3 ^ 2`,
		`filter(. > 2) | sum()`,
		`{a:1,b:[1,2,3]}`,
		`not true and false`,
		`regex(.x, /^he/i)`,
	}
	for _, text := range texts {
		n1 := parse(t, text)
		out := ast.Stringify(n1)
		n2 := parse(t, out)
		if ast.Stringify(n2) != ast.Stringify(n1) {
			t.Errorf("round-trip mismatch for %q: stringify=%q, reparsed stringify=%q", text, ast.Stringify(n1), ast.Stringify(n2))
		}
	}
}
