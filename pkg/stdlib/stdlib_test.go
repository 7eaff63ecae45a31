package stdlib_test

import (
	"testing"

	"github.com/seijihariki/jsonquery/pkg/ast"
	"github.com/seijihariki/jsonquery/pkg/compiler"
	"github.com/seijihariki/jsonquery/pkg/stdlib"
	"github.com/seijihariki/jsonquery/pkg/value"
)

func ctx() *compiler.CompileCtx {
	return compiler.NewCompileCtx(stdlib.Core(), stdlib.CoreOperators())
}

func run(t *testing.T, n *ast.Node, in value.Value) value.Value {
	t.Helper()
	ev, err := compiler.Compile(n, ctx())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	out, err := ev(in)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	return out
}

func TestGetIdentity(t *testing.T) {
	in := value.NewString("x")
	out := run(t, ast.Call("get"), in)
	if !out.Equal(in) {
		t.Fatalf("get() not identity: %v", out)
	}
}

func TestGetNullPropagation(t *testing.T) {
	// {"a": {"b": null}} | .a.b.c -> null
	in := value.NewObject([]value.Member{
		{Key: "a", Val: value.NewObject([]value.Member{{Key: "b", Val: value.NullValue}})},
	})
	out := run(t, ast.Get("a", "b", "c"), in)
	if !out.IsNull() {
		t.Fatalf("expected null, got %v", out)
	}
}

func TestPipeEmptyIsIdentity(t *testing.T) {
	in := value.NewNumber(5)
	out := run(t, ast.Pipe(), in)
	if !out.Equal(in) {
		t.Fatalf("empty pipe() not identity: %v", out)
	}
}

func TestPipeSequencing(t *testing.T) {
	// pipe(filter(. > 2), sum()) over [1,2,3,4] -> 7
	arr := value.NewArray([]value.Value{value.NewNumber(1), value.NewNumber(2), value.NewNumber(3), value.NewNumber(4)})
	cond := ast.Call("gt", ast.Get(), ast.Lit(value.NewNumber(2)))
	n := ast.Pipe(ast.Call("filter", cond), ast.Call("sum"))
	out := run(t, n, arr)
	if out.Num() != 7 {
		t.Fatalf("got %v, want 7", out)
	}
}

func TestSortThenMap(t *testing.T) {
	// [{"a":3},{"a":1},{"a":2}] | sort(.a) | map(.a) -> [1,2,3]
	mk := func(a float64) value.Value {
		return value.NewObject([]value.Member{{Key: "a", Val: value.NewNumber(a)}})
	}
	arr := value.NewArray([]value.Value{mk(3), mk(1), mk(2)})
	n := ast.Pipe(ast.Call("sort", ast.Get("a")), ast.Call("map", ast.Get("a")))
	out := run(t, n, arr)
	items := out.Items()
	want := []float64{1, 2, 3}
	for i, w := range want {
		if items[i].Num() != w {
			t.Errorf("items[%d] = %v, want %v", i, items[i], w)
		}
	}
}

func TestGroupBy(t *testing.T) {
	mk := func(g string, v float64) value.Value {
		return value.NewObject([]value.Member{{Key: "g", Val: value.NewString(g)}, {Key: "v", Val: value.NewNumber(v)}})
	}
	arr := value.NewArray([]value.Value{mk("x", 1), mk("y", 2), mk("x", 3)})
	out := run(t, ast.Call("groupBy", ast.Get("g")), arr)
	members := out.Members()
	if len(members) != 2 || members[0].Key != "x" || members[1].Key != "y" {
		t.Fatalf("unexpected groupBy keys: %v", members)
	}
	if len(members[0].Val.Items()) != 2 {
		t.Fatalf("expected 2 items in group x, got %d", len(members[0].Val.Items()))
	}
}

func TestLimitNegativeClampsToZero(t *testing.T) {
	arr := value.NewArray([]value.Value{value.NewNumber(1), value.NewNumber(2)})
	out := run(t, ast.Call("limit", ast.Lit(value.NewNumber(-1))), arr)
	if len(out.Items()) != 0 {
		t.Fatalf("expected empty, got %v", out)
	}
}

func TestAverageEmptyIsNull(t *testing.T) {
	out := run(t, ast.Call("average"), value.NewArray(nil))
	if !out.IsNull() {
		t.Fatalf("expected null, got %v", out)
	}
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0.5, 1},
		{-0.5, -1},
	}
	for _, c := range cases {
		out := run(t, ast.Call("round", ast.Lit(value.NewNumber(c.in))), value.NullValue)
		if out.Num() != c.want {
			t.Errorf("round(%v) = %v, want %v", c.in, out.Num(), c.want)
		}
	}
}

func TestRegexMissingPathIsFalse(t *testing.T) {
	// {} | regex(.x, "^a") -> false
	n := ast.Call("regex", ast.Get("x"), ast.Lit(value.NewString("^a")))
	out := run(t, n, value.NewObject(nil))
	if out.Bool() != false {
		t.Fatalf("expected false, got %v", out)
	}
}

func TestSortStableOnMixedTypes(t *testing.T) {
	arr := value.NewArray([]value.Value{
		value.NewNumber(1), value.NewString("a"), value.NewNumber(2),
	})
	out := run(t, ast.Call("sort"), arr)
	items := out.Items()
	// Unordered comparisons must not reorder relative to input.
	if items[0].Kind() != value.Number || items[0].Num() != 1 {
		t.Fatalf("expected original relative order preserved, got %v", items)
	}
}

func TestUniqIdempotent(t *testing.T) {
	arr := value.NewArray([]value.Value{value.NewNumber(1), value.NewNumber(1), value.NewNumber(2)})
	once := run(t, ast.Call("uniq"), arr)
	twice := run(t, ast.Call("uniq"), once)
	if !once.Equal(twice) {
		t.Fatalf("uniq not idempotent: %v != %v", once, twice)
	}
}

func TestReverseInvolution(t *testing.T) {
	arr := value.NewArray([]value.Value{value.NewNumber(1), value.NewNumber(2), value.NewNumber(3)})
	out := run(t, ast.Call("reverse"), run(t, ast.Call("reverse"), arr))
	if !out.Equal(arr) {
		t.Fatalf("reverse(reverse(A)) != A: %v", out)
	}
}

func TestUserFunctionShadowing(t *testing.T) {
	c := ctx()
	c.Push(compiler.FunctionTable{
		"customFn": stdlib.BuildFunction(func(args ...value.Value) (value.Value, error) {
			return value.NewNumber(42), nil
		}),
	}, nil)
	defer c.Pop()
	ev, err := compiler.Compile(ast.Call("customFn"), c)
	if err != nil {
		t.Fatal(err)
	}
	out, err := ev(value.NewObject(nil))
	if err != nil {
		t.Fatal(err)
	}
	if out.Num() != 42 {
		t.Fatalf("got %v, want 42", out)
	}
}

func TestAndOrAreEager(t *testing.T) {
	// Both sides must be compiled+evaluated even though 'or' would
	// short-circuit in many languages.
	calls := 0
	c := ctx()
	c.Push(compiler.FunctionTable{
		"countedTrue": stdlib.BuildFunction(func(args ...value.Value) (value.Value, error) {
			calls++
			return value.True, nil
		}),
	}, nil)
	defer c.Pop()
	n := ast.Call("or", ast.Lit(value.True), ast.Call("countedTrue"))
	ev, err := compiler.Compile(n, c)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ev(value.NullValue); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("expected the right-hand side of 'or' to be evaluated eagerly, calls=%d", calls)
	}
}
