package calc

import (
	"context"
	"errors"
	"fmt"

	"calc/internal/lexer"
	"calc/internal/ops"
	"calc/internal/symbols"
	"calc/internal/trace"
	"calc/internal/vm"
)

// AnswerName holds the last result of EvalLine.
const AnswerName = "$ans"

// ErrInvalidName is returned for names that would not lex back as a symbol.
var ErrInvalidName = errors.New("invalid name")

// Assign evaluates src and binds its single result to name in scope.
func (c *Calculator[V]) Assign(scope *symbols.Scope[vm.Binding[V]], name, src string) (V, error) {
	var zero V
	if err := c.checkName(name); err != nil {
		return zero, err
	}
	if scope == nil {
		scope = c.globals
	}
	vals, err := c.Run(src, scope)
	if err != nil {
		return zero, err
	}
	if len(vals) != 1 {
		return zero, vm.Errorf(vm.CodeArityMismatch, name, "expression produced %d value(s), want 1", len(vals))
	}
	if err := put(scope, name, vm.Constant(vals[0])); err != nil {
		return zero, err
	}
	return vals[0], nil
}

// Declare binds name to the domain's neutral value without evaluating anything.
func (c *Calculator[V]) Declare(scope *symbols.Scope[vm.Binding[V]], name string) error {
	if err := c.checkName(name); err != nil {
		return err
	}
	if scope == nil {
		scope = c.globals
	}
	return put(scope, name, vm.Constant(c.dom.Null()))
}

// DefineFunction compiles body and binds it as a user function of params.
// The body resolves free names in scope at call time, so a function may call
// itself.
func (c *Calculator[V]) DefineFunction(scope *symbols.Scope[vm.Binding[V]], name string, params []string, body string) error {
	if err := c.checkName(name); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(params))
	for _, p := range params {
		if err := c.checkName(p); err != nil {
			return err
		}
		if _, dup := seen[p]; dup {
			return fmt.Errorf("%s: parameter %q: %w", name, p, symbols.ErrDuplicateRegistration)
		}
		seen[p] = struct{}{}
	}
	if scope == nil {
		scope = c.globals
	}
	prog, err := c.Compile(body)
	if err != nil {
		return err
	}
	var fn vm.Callable[V] = &vm.UserFunction[V]{Name: name, Params: params, Body: prog, Defining: scope}
	if c.opts.Tracer.Level().ShouldEmit(trace.ScopeCall) {
		fn = tracedCall[V]{name: name, inner: fn, tracer: c.opts.Tracer}
	}
	return put(scope, name, vm.Func(fn))
}

// EvalLine runs src and stores its top result as $ans in scope.
func (c *Calculator[V]) EvalLine(scope *symbols.Scope[vm.Binding[V]], src string) ([]V, error) {
	if scope == nil {
		scope = c.globals
	}
	vals, err := c.Run(src, scope)
	if err != nil {
		return nil, err
	}
	if len(vals) > 0 {
		if err := put(scope, AnswerName, vm.Constant(vals[len(vals)-1])); err != nil {
			return vals, err
		}
	}
	return vals, nil
}

func (c *Calculator[V]) checkName(name string) error {
	if !lexer.IsIdent(name) {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	if _, ok := c.ops.Lookup(ops.Unary, name); ok {
		return fmt.Errorf("%q is an operator: %w", name, ErrInvalidName)
	}
	if _, ok := c.ops.Lookup(ops.Binary, name); ok {
		return fmt.Errorf("%q is an operator: %w", name, ErrInvalidName)
	}
	return nil
}

// put lifts scope access errors into evaluation errors.
func put[V any](scope *symbols.Scope[vm.Binding[V]], name string, b vm.Binding[V]) error {
	err := scope.Put(name, b)
	if errors.Is(err, symbols.ErrAssignmentRejected) {
		return &vm.Error{Code: vm.CodeAssignmentRejected, Symbol: name, Err: err}
	}
	return err
}

// tracedCall marks user function calls in the trace.
type tracedCall[V any] struct {
	name   string
	inner  vm.Callable[V]
	tracer trace.Tracer
}

func (t tracedCall[V]) Arity() (vm.Arity, vm.Arity) { return t.inner.Arity() }

func (t tracedCall[V]) Call(f *vm.Frame[V], args, rets vm.Count) error {
	_, span := trace.Start(trace.WithTracer(context.Background(), t.tracer), trace.ScopeCall, t.name)
	span.WithExtra("depth", fmt.Sprint(f.Depth()))
	err := t.inner.Call(f, args, rets)
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	span.End(detail)
	return err
}
