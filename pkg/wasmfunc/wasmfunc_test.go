package wasmfunc_test

import (
	"context"
	"testing"

	"github.com/seijihariki/jsonquery/pkg/wasmfunc"
)

// Exercising the happy path needs an actual compiled .wasm fixture (a
// guest exporting alloc/<name> per the package doc); these tests instead
// cover the host-side failure modes that don't depend on one.

func TestOpenRejectsInvalidModule(t *testing.T) {
	_, err := wasmfunc.Open(context.Background(), []byte("not a wasm module"))
	if err == nil {
		t.Fatal("expected an error for malformed WASM bytes")
	}
}

func TestOpenRejectsEmptyBytes(t *testing.T) {
	_, err := wasmfunc.Open(context.Background(), nil)
	if err == nil {
		t.Fatal("expected an error for empty input")
	}
}
