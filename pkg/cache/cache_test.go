package cache_test

import (
	"errors"
	"testing"

	"github.com/seijihariki/jsonquery/pkg/ast"
	"github.com/seijihariki/jsonquery/pkg/cache"
)

var errTest = errors.New("compile failed")

func TestCacheNew(t *testing.T) {
	c := cache.New(10)
	if got := c.Len(); got != 0 {
		t.Fatalf("expected empty cache, got %d", got)
	}
	if got := c.Capacity(); got != 10 {
		t.Fatalf("expected capacity 10, got %d", got)
	}
}

func TestCacheDefaultCapacity(t *testing.T) {
	c := cache.New(0)
	if got := c.Capacity(); got != 256 {
		t.Fatalf("expected default capacity 256, got %d", got)
	}
}

func TestCacheSetGet(t *testing.T) {
	c := cache.New(4)
	val := &cache.Compiled{AST: ast.Get("name")}
	c.Set(".name", val)
	if got := c.Len(); got != 1 {
		t.Fatalf("expected 1 entry, got %d", got)
	}
	got, ok := c.Get(".name")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != val {
		t.Fatal("expected same *Compiled pointer")
	}
}

func TestCacheMiss(t *testing.T) {
	c := cache.New(4)
	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected cache miss")
	}
}

func TestCacheLRUEviction(t *testing.T) {
	c := cache.New(3)
	for _, k := range []string{"a", "b", "c", "d"} {
		c.Set(k, &cache.Compiled{AST: ast.Get("x")})
	}
	if got := c.Len(); got != 3 {
		t.Fatalf("expected 3 entries after eviction, got %d", got)
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal(`expected "a" to be evicted (LRU)`)
	}
	if _, ok := c.Get("d"); !ok {
		t.Fatal(`expected most-recently-inserted "d" to survive`)
	}
}

func TestCacheTouchPreventsEviction(t *testing.T) {
	c := cache.New(3)
	c.Set("a", &cache.Compiled{AST: ast.Get("x")})
	c.Set("b", &cache.Compiled{AST: ast.Get("x")})
	c.Set("c", &cache.Compiled{AST: ast.Get("x")})
	c.Get("a") // promote "a" to MRU
	c.Set("d", &cache.Compiled{AST: ast.Get("x")})
	if _, ok := c.Get("b"); ok {
		t.Fatal(`expected "b" (now LRU) to be evicted instead of "a"`)
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal(`expected "a" to survive after being touched`)
	}
}

func TestCacheInvalidate(t *testing.T) {
	c := cache.New(4)
	c.Set("k", &cache.Compiled{AST: ast.Get("x")})
	c.Invalidate("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after Invalidate")
	}
}

func TestCacheClear(t *testing.T) {
	c := cache.New(4)
	for _, k := range []string{"a", "b", "c"} {
		c.Set(k, &cache.Compiled{AST: ast.Get("x")})
	}
	c.Clear()
	if got := c.Len(); got != 0 {
		t.Fatalf("expected 0 after Clear, got %d", got)
	}
}

func TestCacheGetOrCompile(t *testing.T) {
	c := cache.New(4)
	callCount := 0
	compileFn := func() (*cache.Compiled, error) {
		callCount++
		return &cache.Compiled{AST: ast.Get("age")}, nil
	}

	v1, err := c.GetOrCompile(".age", compileFn)
	if err != nil || v1 == nil {
		t.Fatalf("first GetOrCompile: %v", err)
	}
	if callCount != 1 {
		t.Fatalf("expected 1 compile call, got %d", callCount)
	}

	v2, err := c.GetOrCompile(".age", compileFn)
	if err != nil || v2 == nil {
		t.Fatalf("second GetOrCompile: %v", err)
	}
	if callCount != 1 {
		t.Fatalf("expected still 1 call (cached), got %d", callCount)
	}
	if v1 != v2 {
		t.Fatal("expected same pointer from cache")
	}
}

func TestCacheGetOrCompileDoesNotCacheErrors(t *testing.T) {
	c := cache.New(4)
	callCount := 0
	failingCompile := func() (*cache.Compiled, error) {
		callCount++
		return nil, errTest
	}
	if _, err := c.GetOrCompile("bad", failingCompile); err == nil {
		t.Fatal("expected error")
	}
	if _, err := c.GetOrCompile("bad", failingCompile); err == nil {
		t.Fatal("expected error again (no negative caching)")
	}
	if callCount != 2 {
		t.Fatalf("expected compile to be retried, got %d calls", callCount)
	}
}
