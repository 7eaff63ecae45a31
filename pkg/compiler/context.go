package compiler

// FunctionTable maps a function name to the Builder that compiles calls to
// it. Names are unique within a table; when two tables are merged the
// later one shadows the earlier one by name.
type FunctionTable map[string]Builder

// OperatorDef is an operator symbol's binding: the canonical function name
// it desugars to, and its precedence tier relative to the core grammar
// (see pkg/parser). A zero Tier is filled in by the parser from another
// operator bound to the same canonical function, or set to the pipe tier
// when there is none (see parser.resolveTiers). RightAssoc
// marks an operator (like `^`) whose right operand is parsed at the same
// tier rather than tier+1, so repeated use associates to the right.
type OperatorDef struct {
	Name       string
	Tier       int
	RightAssoc bool
}

// OperatorTable maps an operator symbol (e.g. "+", "<=>") to its
// OperatorDef.
type OperatorTable map[string]OperatorDef

// ctxFrame is one level of the compile-context stack: a fully merged
// snapshot of the function/operator tables visible at that depth.
type ctxFrame struct {
	functions FunctionTable
	operators OperatorTable
}

// CompileCtx is the ephemeral, stack-disciplined structure holding the
// effective function and operator tables for the current compile. Its
// lifetime is a single top-level compile call; nested compiles (a builder
// invoking Compile on a sub-AST) see the same tables as their parent
// because they're handed the same *CompileCtx, not a fresh one.
type CompileCtx struct {
	stack []ctxFrame
}

// NewCompileCtx creates a context seeded with the core function and
// operator tables (see pkg/stdlib.Core()/CoreOperators()).
func NewCompileCtx(core FunctionTable, coreOps OperatorTable) *CompileCtx {
	return &CompileCtx{stack: []ctxFrame{{functions: core, operators: coreOps}}}
}

// Push merges userFns/userOps on top of the current frame (shadowing core
// or outer-frame entries by name) and makes the merged result the new top
// frame. Every Push must be matched by a Pop on all exit paths, including
// error returns, so a panic-free caller uses defer immediately after Push.
func (c *CompileCtx) Push(userFns FunctionTable, userOps OperatorTable) {
	top := c.top()
	merged := ctxFrame{
		functions: mergeFunctions(top.functions, userFns),
		operators: mergeOperators(top.operators, userOps),
	}
	c.stack = append(c.stack, merged)
}

// Pop discards the current top frame, reverting to the parent's tables.
func (c *CompileCtx) Pop() {
	if len(c.stack) > 1 {
		c.stack = c.stack[:len(c.stack)-1]
	}
}

func (c *CompileCtx) top() ctxFrame {
	return c.stack[len(c.stack)-1]
}

// Function looks up name in the effective (merged) function table.
func (c *CompileCtx) Function(name string) (Builder, bool) {
	b, ok := c.top().functions[name]
	return b, ok
}

// Operators returns the effective (merged) operator table.
func (c *CompileCtx) Operators() OperatorTable {
	return c.top().operators
}

func mergeFunctions(base, extra FunctionTable) FunctionTable {
	if len(extra) == 0 {
		return base
	}
	merged := make(FunctionTable, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

func mergeOperators(base, extra OperatorTable) OperatorTable {
	if len(extra) == 0 {
		return base
	}
	merged := make(OperatorTable, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
