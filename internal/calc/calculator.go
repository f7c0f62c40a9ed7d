// Package calc is the host entry point of the interpreter: it wires a value
// domain, its operator dictionary and a global scope into one Calculator that
// compiles, evaluates and renders expressions.
package calc

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"calc/internal/compiler"
	"calc/internal/domain"
	"calc/internal/observ"
	"calc/internal/ops"
	"calc/internal/symbols"
	"calc/internal/trace"
	"calc/internal/vm"
)

// Mode selects a rendering.
type Mode uint8

const (
	ModeStr  Mode = iota // human, may depend on domain options
	ModeRepr             // canonical
)

func (m Mode) String() string {
	if m == ModeRepr {
		return "repr"
	}
	return "str"
}

// Options configure a Calculator. Zero value is usable.
type Options struct {
	Notation  compiler.Notation
	Tracer    trace.Tracer  // spans for compile/eval; nil disables
	ExecTrace io.Writer     // per-op vm trace; nil disables
	Timer     *observ.Timer // phase timings; nil disables
}

// Calculator is read-only after New and may be shared between goroutines.
// Writes into its global scope still need host synchronisation.
type Calculator[V any] struct {
	dom     domain.Domain[V]
	ops     *ops.Dictionary[V]
	globals *symbols.Scope[vm.Binding[V]]
	opts    Options
}

// New sets up dom: registers its operators, installs the builtins into a
// global scope and seals the dictionary. Duplicate registrations fail here.
func New[V any](dom domain.Domain[V], opts Options) (*Calculator[V], error) {
	if dom == nil {
		panic("calc: nil domain")
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	c := &Calculator[V]{dom: dom, ops: ops.NewDictionary[V](), opts: opts}
	if err := dom.Operators(c.ops); err != nil {
		return nil, fmt.Errorf("%s: operators: %w", dom.Name(), err)
	}
	c.ops.Seal()

	globals, err := c.NewGlobalScope()
	if err != nil {
		return nil, err
	}
	c.globals = globals
	return c, nil
}

// WithNotation returns a calculator that shares everything with c except the
// default notation.
func (c *Calculator[V]) WithNotation(n compiler.Notation) *Calculator[V] {
	cp := *c
	cp.opts.Notation = n
	return &cp
}

func (c *Calculator[V]) Domain() domain.Domain[V]       { return c.dom }
func (c *Calculator[V]) Operators() *ops.Dictionary[V] { return c.ops }
func (c *Calculator[V]) Notation() compiler.Notation   { return c.opts.Notation }

// Globals returns the calculator's own global scope.
func (c *Calculator[V]) Globals() *symbols.Scope[vm.Binding[V]] { return c.globals }

// NewGlobalScope builds a fresh, independent global scope with the domain
// globals and the stack builtins.
func (c *Calculator[V]) NewGlobalScope() (*symbols.Scope[vm.Binding[V]], error) {
	g := symbols.NewGlobal[vm.Binding[V]]()
	if err := c.dom.Globals(g); err != nil {
		return nil, fmt.Errorf("%s: globals: %w", c.dom.Name(), err)
	}
	if err := domain.Install(g, builtins(c.dom.Str)...); err != nil {
		return nil, fmt.Errorf("%s: builtins: %w", c.dom.Name(), err)
	}
	return g, nil
}

func (c *Calculator[V]) NewNestedScope(parent *symbols.Scope[vm.Binding[V]]) *symbols.Scope[vm.Binding[V]] {
	return symbols.NewNested(parent)
}

func (c *Calculator[V]) NewProtectedScope(parent *symbols.Scope[vm.Binding[V]]) *symbols.Scope[vm.Binding[V]] {
	return symbols.NewProtected(parent)
}

// Compile compiles src in the calculator's default notation.
func (c *Calculator[V]) Compile(src string) (*vm.Program[V], error) {
	return c.CompileAs(src, c.opts.Notation)
}

func (c *Calculator[V]) CompileAs(src string, n compiler.Notation) (*vm.Program[V], error) {
	return c.compile(c.context(), src, n)
}

// Evaluate runs prog in a fresh frame over scope and returns the final stack,
// bottom first. A nil scope means the globals.
//
// Faults raised by a broken callable are not recovered here.
func (c *Calculator[V]) Evaluate(prog *vm.Program[V], scope *symbols.Scope[vm.Binding[V]]) ([]V, error) {
	return c.evaluate(c.context(), prog, scope)
}

// Run compiles and evaluates src.
func (c *Calculator[V]) Run(src string, scope *symbols.Scope[vm.Binding[V]]) ([]V, error) {
	ctx := c.context()
	prog, err := c.compile(ctx, src, c.opts.Notation)
	if err != nil {
		return nil, err
	}
	return c.evaluate(ctx, prog, scope)
}

// Render formats v. It does not depend on any scope.
func (c *Calculator[V]) Render(v V, m Mode) string {
	if m == ModeRepr {
		return c.dom.Repr(v)
	}
	return c.dom.Str(v)
}

// RenderAll formats a result stack.
func (c *Calculator[V]) RenderAll(vs []V, m Mode) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = c.Render(v, m)
	}
	return out
}

func (c *Calculator[V]) context() context.Context {
	return trace.WithTracer(context.Background(), c.opts.Tracer)
}

func (c *Calculator[V]) env() compiler.Env[V] {
	return compiler.Env[V]{Domain: c.dom, Operators: c.ops}
}

func (c *Calculator[V]) compile(ctx context.Context, src string, n compiler.Notation) (*vm.Program[V], error) {
	_, span := trace.Start(ctx, trace.ScopeCompile, "compile")
	span.WithExtra("notation", n.String())
	idx := c.opts.Timer.Begin("compile")

	prog, err := compiler.Compile(src, n, c.env())

	if err != nil {
		c.opts.Timer.End(idx, "failed")
		span.End(err.Error())
		return nil, err
	}
	c.opts.Timer.End(idx, strconv.Itoa(prog.Len())+" ops")
	span.WithExtra("ops", strconv.Itoa(prog.Len())).End("")
	return prog, nil
}

func (c *Calculator[V]) evaluate(ctx context.Context, prog *vm.Program[V], scope *symbols.Scope[vm.Binding[V]]) ([]V, error) {
	if prog == nil {
		panic("calc: nil program")
	}
	if scope == nil {
		scope = c.globals
	}
	_, span := trace.Start(ctx, trace.ScopeEval, "eval")
	idx := c.opts.Timer.Begin("eval")

	f := vm.NewFrame(scope)
	if c.opts.ExecTrace != nil {
		f.WithTracer(vm.NewTracer(c.opts.ExecTrace, c.dom.Repr))
	}
	err := prog.Execute(f)

	if err != nil {
		c.opts.Timer.End(idx, "failed")
		span.End(err.Error())
		return nil, err
	}
	out := f.Stack().Values()
	c.opts.Timer.End(idx, "")
	span.WithExtra("values", strconv.Itoa(len(out))).End("")
	return out, nil
}
