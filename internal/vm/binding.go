package vm

// BindingKind tags the variant held by a Binding.
type BindingKind uint8

const (
	BindingInvalid BindingKind = iota
	BindingConstant
	BindingProvider
	BindingCallable
)

func (k BindingKind) String() string {
	switch k {
	case BindingConstant:
		return "constant"
	case BindingProvider:
		return "provider"
	case BindingCallable:
		return "callable"
	default:
		return "invalid"
	}
}

// Binding is what a name resolves to: a constant value, a provider
// re-evaluated on each lookup, or a callable.
type Binding[V any] struct {
	kind     BindingKind
	value    V
	provider func() V
	fn       Callable[V]
}

func Constant[V any](v V) Binding[V] {
	return Binding[V]{kind: BindingConstant, value: v}
}

func Provider[V any](get func() V) Binding[V] {
	if get == nil {
		panic("vm: nil provider")
	}
	return Binding[V]{kind: BindingProvider, provider: get}
}

func Func[V any](c Callable[V]) Binding[V] {
	if c == nil {
		panic("vm: nil callable")
	}
	return Binding[V]{kind: BindingCallable, fn: c}
}

func (b Binding[V]) Kind() BindingKind { return b.kind }

// Value returns the bound value for constants and providers.
func (b Binding[V]) Value() (V, bool) {
	switch b.kind {
	case BindingConstant:
		return b.value, true
	case BindingProvider:
		return b.provider(), true
	}
	var zero V
	return zero, false
}

// Callable views any binding through the callable contract; values behave as
// nullary callables with one result.
func (b Binding[V]) Callable() Callable[V] {
	switch b.kind {
	case BindingCallable:
		return b.fn
	case BindingConstant:
		v := b.value
		return NullaryDirect[V](func() (V, error) { return v, nil })
	case BindingProvider:
		get := b.provider
		return NullaryDirect[V](func() (V, error) { return get(), nil })
	}
	return nil
}
