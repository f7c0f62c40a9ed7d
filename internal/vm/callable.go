package vm

import (
	"calc/internal/symbols"
)

// Callable is the single invocation contract shared by operators, built-in
// functions, bound values and user functions.
//
// Call receives the counts already negotiated by Frame.Invoke. With an exact
// declaration they are always present and equal to it; an Any side gets the
// caller's request verbatim and must interpret it. Call pops its arguments off
// f.Stack() and pushes its results there.
type Callable[V any] interface {
	Arity() (args, rets Arity)
	Call(f *Frame[V], args, rets Count) error
}

// Fixed is a callable with exact arity on both sides.
type Fixed[V any] struct {
	Args, Rets int
	Body       func(args []V) ([]V, error) // args in push order
}

func (c Fixed[V]) Arity() (Arity, Arity) { return Exact(c.Args), Exact(c.Rets) }

func (c Fixed[V]) Call(f *Frame[V], _, _ Count) error {
	out, err := c.Body(f.stack.PopN(c.Args))
	if err != nil {
		return err
	}
	if len(out) != c.Rets {
		fault(FaultContractViolation, "fixed callable returned %d value(s), declared %d", len(out), c.Rets)
	}
	f.stack.PushAll(out...)
	return nil
}

// Unary wraps a one-argument, one-result function.
func Unary[V any](fn func(a V) (V, error)) Fixed[V] {
	return Fixed[V]{Args: 1, Rets: 1, Body: func(args []V) ([]V, error) {
		v, err := fn(args[0])
		if err != nil {
			return nil, err
		}
		return []V{v}, nil
	}}
}

// Binary wraps a two-argument, one-result function; a is the left operand.
func Binary[V any](fn func(a, b V) (V, error)) Fixed[V] {
	return Fixed[V]{Args: 2, Rets: 1, Body: func(args []V) ([]V, error) {
		v, err := fn(args[0], args[1])
		if err != nil {
			return nil, err
		}
		return []V{v}, nil
	}}
}

// Variadic takes any number of arguments, DefaultArgs when the caller does not
// say, and produces one result.
type Variadic[V any] struct {
	Name        string
	DefaultArgs int
	Body        func(args []V) (V, error)
}

func (c Variadic[V]) Arity() (Arity, Arity) { return Any(), Exact(1) }

func (c Variadic[V]) Call(f *Frame[V], args, _ Count) error {
	vals, err := f.PopArgs(c.Name, args.Or(c.DefaultArgs))
	if err != nil {
		return err
	}
	v, err := c.Body(vals)
	if err != nil {
		return err
	}
	f.stack.Push(v)
	return nil
}

// NullaryDirect computes one value and pushes it.
type NullaryDirect[V any] func() (V, error)

func (fn NullaryDirect[V]) Arity() (Arity, Arity) { return Exact(0), Exact(1) }

func (fn NullaryDirect[V]) Call(f *Frame[V], _, _ Count) error {
	v, err := fn()
	if err != nil {
		return err
	}
	f.stack.Push(v)
	return nil
}

// NullaryFramed runs its body against a forked frame whose stack has exactly one
// slot. Leaving that slot empty, or pushing past it, is a fault.
type NullaryFramed[V any] func(sub *Frame[V]) error

func (fn NullaryFramed[V]) Arity() (Arity, Arity) { return Exact(0), Exact(1) }

func (fn NullaryFramed[V]) Call(f *Frame[V], _, _ Count) error {
	sub := f.fork(f.scope, NewBoundedStack[V](1))
	if err := fn(sub); err != nil {
		return err
	}
	if n := sub.stack.Size(); n != 1 {
		fault(FaultPostCondition, "framed nullary left %d value(s), declared 1", n)
	}
	f.stack.Push(sub.stack.Pop())
	return nil
}

// UserFunction is a function defined from source. Parameters are bound in a
// nested scope over a protected view of the defining scope, so the body can read
// globals but never write them; the body runs in its own frame.
type UserFunction[V any] struct {
	Name     string
	Params   []string
	Body     *Program[V]
	Defining *symbols.Scope[Binding[V]] // nil: the caller's scope
}

func (u *UserFunction[V]) Arity() (Arity, Arity) { return Exact(len(u.Params)), Exact(1) }

func (u *UserFunction[V]) Call(f *Frame[V], _, _ Count) error {
	args := f.stack.PopN(len(u.Params))
	def := u.Defining
	if def == nil {
		def = f.scope
	}
	local := symbols.NewNested(symbols.NewProtected(def))
	for i, p := range u.Params {
		if err := local.Put(p, Constant(args[i])); err != nil {
			return err
		}
	}
	sub := f.Fork(local)
	if err := u.Body.Execute(sub); err != nil {
		return err
	}
	// the body is user input, so a wrong result count is an error and not a fault
	if n := sub.stack.Size(); n != 1 {
		return Errorf(CodeArityMismatch, u.Name, "body produced %d result(s), want 1", n)
	}
	f.stack.Push(sub.stack.Pop())
	return nil
}
