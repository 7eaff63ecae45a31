// Package wasmfunc lets a precompiled WebAssembly module act as a query
// function. The *user function* runs as the guest, hosted in-process via
// wazero, and exchanges JSON with the engine over the guest's own linear
// memory.
//
// Guest contract: the module exports an `alloc(size uint32) uint32`
// function the host uses to reserve a buffer, and the named function
// itself with signature `(paramsPtr, paramsLen uint32) uint64`. The host
// writes a JSON-encoded array of the call's arguments into the buffer
// from alloc, invokes the named export with that buffer's pointer and
// length, and reads the JSON-encoded result back from the packed return
// value: the high 32 bits are the result pointer, the low 32 bits its
// length.
package wasmfunc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/seijihariki/jsonquery/pkg/ast"
	"github.com/seijihariki/jsonquery/pkg/compiler"
	"github.com/seijihariki/jsonquery/pkg/jsonerr"
	"github.com/seijihariki/jsonquery/pkg/value"
)

// Module wraps an instantiated WASM module and keeps it alive for the
// lifetime of every Builder loaded from it. Close releases the
// underlying wazero runtime; call it when the host is done with every
// function loaded from this module.
type Module struct {
	runtime wazero.Runtime
	mod     api.Module
	alloc   api.Function
}

// Open instantiates wasmBytes under a fresh wazero runtime with WASI
// preview1 imports available (most guest toolchains assume libc startup
// code that references them, even for pure computation).
func Open(ctx context.Context, wasmBytes []byte) (*Module, error) {
	runtime := wazero.NewRuntime(ctx)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, runtime); err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("wasmfunc: instantiate WASI imports: %w", err)
	}
	mod, err := runtime.Instantiate(ctx, wasmBytes)
	if err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("wasmfunc: instantiate module: %w", err)
	}
	alloc := mod.ExportedFunction("alloc")
	if alloc == nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("wasmfunc: module does not export \"alloc\"")
	}
	return &Module{runtime: runtime, mod: mod, alloc: alloc}, nil
}

// Close releases the wazero runtime and every instance built from it.
func (m *Module) Close(ctx context.Context) error {
	return m.runtime.Close(ctx)
}

// Builder wraps the named export as a compiler.Builder: it compiles its
// AST arguments, evaluates them against the input, JSON-marshals the
// results into an array, calls the export, and JSON-unmarshals the
// response into a value.Value.
func (m *Module) Builder(exportName string) (compiler.Builder, error) {
	fn := m.mod.ExportedFunction(exportName)
	if fn == nil {
		return nil, fmt.Errorf("wasmfunc: module does not export %q", exportName)
	}
	return func(args []*ast.Node, ctx *compiler.CompileCtx) (compiler.Evaluator, error) {
		evals := make([]compiler.Evaluator, len(args))
		for i, a := range args {
			ev, err := compiler.Compile(a, ctx)
			if err != nil {
				return nil, err
			}
			evals[i] = ev
		}
		return func(in value.Value) (value.Value, error) {
			vals := make([]interface{}, len(evals))
			for i, ev := range evals {
				out, err := ev(in)
				if err != nil {
					return value.NullValue, err
				}
				vals[i] = out.ToInterface()
			}
			payload, err := json.Marshal(vals)
			if err != nil {
				return value.NullValue, &jsonerr.TypeError{Op: exportName, Observed: "unmarshalable arguments", Err: err}
			}
			result, err := m.call(fn, payload)
			if err != nil {
				return value.NullValue, &jsonerr.TypeError{Op: exportName, Observed: "WASM call failure", Err: err}
			}
			out, err := value.ParseJSON(result)
			if err != nil {
				return value.NullValue, &jsonerr.TypeError{Op: exportName, Observed: "non-JSON result", Err: err}
			}
			return out, nil
		}, nil
	}, nil
}

// call writes payload into the guest's memory via alloc, invokes fn, and
// reads back the packed (ptr, len) result.
func (m *Module) call(fn api.Function, payload []byte) ([]byte, error) {
	ctx := context.Background()
	res, err := m.alloc.Call(ctx, uint64(len(payload)))
	if err != nil {
		return nil, fmt.Errorf("alloc: %w", err)
	}
	ptr := uint32(res[0])
	mem := m.mod.Memory()
	if !mem.Write(ptr, payload) {
		return nil, fmt.Errorf("writing %d bytes at offset %d out of range", len(payload), ptr)
	}
	packed, err := fn.Call(ctx, uint64(ptr), uint64(len(payload)))
	if err != nil {
		return nil, err
	}
	outPtr := uint32(packed[0] >> 32)
	outLen := uint32(packed[0])
	data, ok := mem.Read(outPtr, outLen)
	if !ok {
		return nil, fmt.Errorf("reading %d bytes at offset %d out of range", outLen, outPtr)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
