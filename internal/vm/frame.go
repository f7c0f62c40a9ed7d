package vm

import (
	"fmt"

	"calc/internal/symbols"
)

// MaxCallDepth bounds nested frames; user functions may recurse.
const MaxCallDepth = 512

// Frame is one activation: an operand stack plus the scope names resolve in.
type Frame[V any] struct {
	stack *Stack[V]
	scope *symbols.Scope[Binding[V]]
	depth int
	trace *Tracer[V]
}

// NewFrame creates a top-level frame with an empty, unbounded stack.
func NewFrame[V any](scope *symbols.Scope[Binding[V]]) *Frame[V] {
	if scope == nil {
		panic("vm: frame requires a scope")
	}
	return &Frame[V]{stack: NewStack[V](), scope: scope}
}

// WithTracer attaches an execution tracer; forks inherit it.
func (f *Frame[V]) WithTracer(t *Tracer[V]) *Frame[V] {
	f.trace = t
	return f
}

func (f *Frame[V]) Stack() *Stack[V] { return f.stack }
func (f *Frame[V]) Scope() *symbols.Scope[Binding[V]] { return f.scope }
func (f *Frame[V]) Depth() int       { return f.depth }

// Fork creates an isolated sub-frame with a fresh stack. A nil scope keeps the
// current one.
func (f *Frame[V]) Fork(scope *symbols.Scope[Binding[V]]) *Frame[V] {
	return f.fork(scope, NewStack[V]())
}

func (f *Frame[V]) fork(scope *symbols.Scope[Binding[V]], stack *Stack[V]) *Frame[V] {
	if scope == nil {
		scope = f.scope
	}
	return &Frame[V]{stack: stack, scope: scope, depth: f.depth + 1, trace: f.trace}
}

// PopArgs pops n arguments for an Any callable, failing with ArityMismatch
// instead of underflowing.
func (f *Frame[V]) PopArgs(name string, n int) ([]V, error) {
	if have := f.stack.Size(); n > have {
		return nil, Errorf(CodeArityMismatch, name, "needs %d argument(s), stack holds %d", n, have)
	}
	return f.stack.PopN(n), nil
}

// Invoke negotiates the requested counts with c's declaration, calls it, and
// verifies the stack afterwards. Negotiation failures are errors raised before
// c runs; a stack left inconsistent with the negotiated counts is a fault.
func (f *Frame[V]) Invoke(name string, c Callable[V], args, rets Count) error {
	declArgs, declRets := c.Arity()
	a, ok := declArgs.Negotiate(args)
	if !ok {
		return arityMismatch(name, "arguments", declArgs, args)
	}
	r, ok := declRets.Negotiate(rets)
	if !ok {
		return arityMismatch(name, "results", declRets, rets)
	}
	before := f.stack.Size()
	if n, ok := a.Get(); ok && n > before {
		return Errorf(CodeArityMismatch, name, "needs %d argument(s), stack holds %d", n, before)
	}
	if f.depth >= MaxCallDepth {
		return &Error{Code: CodeDepthLimit, Symbol: name, Msg: fmt.Sprintf("deeper than %d frames", MaxCallDepth)}
	}

	if err := c.Call(f, a, r); err != nil {
		return err
	}

	n, nok := a.Get()
	m, mok := r.Get()
	if nok && mok {
		if want, got := before-n+m, f.stack.Size(); got != want {
			panic(&Fault{
				Code:    FaultPostCondition,
				Message: fmt.Sprintf("stack holds %d value(s), want %d after [-%d+%d]", got, want, n, m),
				Symbol:  name,
				Depth:   f.depth,
			})
		}
	}
	return nil
}
