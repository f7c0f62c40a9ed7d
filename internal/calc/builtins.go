package calc

import (
	"strings"

	"calc/internal/domain"
	"calc/internal/vm"
)

// Stack builtins are installed into every global scope next to the domain's
// own globals. They work for any value type.
func builtins[V any](render func(V) string) []domain.Declaration[V] {
	return []domain.Declaration[V]{
		{Name: "swap", Binding: vm.Func[V](vm.Fixed[V]{Args: 2, Rets: 2, Body: func(args []V) ([]V, error) {
			return []V{args[1], args[0]}, nil
		}})},
		{Name: "pop", Binding: vm.Func[V](popFn[V]{})},
		{Name: "dup", Binding: vm.Func[V](dupFn[V]{})},
		{Name: "fail", Binding: vm.Func[V](failFn[V]{render: render})},
	}
}

// pop drops n values, one when unspecified.
type popFn[V any] struct{}

func (popFn[V]) Arity() (vm.Arity, vm.Arity) { return vm.Any(), vm.Exact(0) }

func (popFn[V]) Call(f *vm.Frame[V], args, _ vm.Count) error {
	_, err := f.PopArgs("pop", args.Or(1))
	return err
}

// dup takes n values and pushes m of them, repeating the group in order.
// dup(a) gives a a; dup@2,4 over a b gives a b a b.
type dupFn[V any] struct{}

func (dupFn[V]) Arity() (vm.Arity, vm.Arity) { return vm.Any(), vm.Any() }

func (dupFn[V]) Call(f *vm.Frame[V], args, rets vm.Count) error {
	n := args.Or(1)
	m := rets.Or(2 * n)
	if n == 0 && m > 0 {
		return vm.Errorf(vm.CodeArityMismatch, "dup", "cannot produce %d value(s) from none", m)
	}
	vals, err := f.PopArgs("dup", n)
	if err != nil {
		return err
	}
	for i := range m {
		f.Stack().Push(vals[i%n])
	}
	return nil
}

// fail aborts the evaluation with its rendered arguments as the message.
type failFn[V any] struct {
	render func(V) string
}

func (failFn[V]) Arity() (vm.Arity, vm.Arity) { return vm.Any(), vm.Any() }

func (fn failFn[V]) Call(f *vm.Frame[V], args, _ vm.Count) error {
	vals, err := f.PopArgs("fail", args.Or(0))
	if err != nil {
		return err
	}
	if len(vals) == 0 {
		return vm.Errorf(vm.CodeUserFailure, "fail", "failed")
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fn.render(v)
	}
	return vm.Errorf(vm.CodeUserFailure, "fail", "%s", strings.Join(parts, " "))
}
