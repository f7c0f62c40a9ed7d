package vm

import (
	"fmt"
	"strings"

	"calc/internal/source"
)

// OpKind enumerates program operations.
type OpKind uint8

const (
	OpInvalid   OpKind = iota
	OpPushValue        // push Value
	OpGet              // resolve Name; push the value, or call it with [-0+1]
	OpCall             // resolve Name and invoke with Args/Rets
	OpOperator         // invoke the pre-resolved Callable
)

func (k OpKind) String() string {
	switch k {
	case OpPushValue:
		return "push"
	case OpGet:
		return "get"
	case OpCall:
		return "call"
	case OpOperator:
		return "op"
	default:
		return "invalid"
	}
}

// Op is one program step.
type Op[V any] struct {
	Kind     OpKind
	Value    V
	Name     string // symbol name or operator text
	Args     Count
	Rets     Count
	Callable Callable[V] // OpOperator only
	Span     source.Span
}

func PushValue[V any](v V, sp source.Span) Op[V] {
	return Op[V]{Kind: OpPushValue, Value: v, Span: sp}
}

func Get[V any](name string, sp source.Span) Op[V] {
	return Op[V]{Kind: OpGet, Name: name, Span: sp}
}

func Call[V any](name string, args, rets Count, sp source.Span) Op[V] {
	return Op[V]{Kind: OpCall, Name: name, Args: args, Rets: rets, Span: sp}
}

// Operator builds an op for a resolved operator taking args operands.
func Operator[V any](text string, c Callable[V], args int, sp source.Span) Op[V] {
	return Op[V]{Kind: OpOperator, Name: text, Callable: c, Args: Exactly(args), Rets: Exactly(1), Span: sp}
}

// Program is an immutable op sequence. It holds no evaluation state and may be
// executed repeatedly and concurrently against distinct frames.
type Program[V any] struct {
	src string
	ops []Op[V]
}

// NewProgram copies ops; the caller may reuse its slice.
func NewProgram[V any](src string, ops []Op[V]) *Program[V] {
	for i := range ops {
		if ops[i].Kind == OpOperator && ops[i].Callable == nil {
			fault(FaultBadProgram, "op %d: operator %q without callable", i, ops[i].Name)
		}
	}
	return &Program[V]{src: src, ops: append([]Op[V](nil), ops...)}
}

func (p *Program[V]) Source() string { return p.src }
func (p *Program[V]) Len() int       { return len(p.ops) }

// Op returns the i-th op by value.
func (p *Program[V]) Op(i int) Op[V] { return p.ops[i] }

// Execute runs the program against f. Recoverable failures come back as *Error
// carrying the span of the failing op; faults panic through.
func (p *Program[V]) Execute(f *Frame[V]) error {
	for ip := range p.ops {
		op := &p.ops[ip]
		f.trace.TraceOp(f, ip, op)
		if err := p.step(f, op); err != nil {
			// copy: callables may return shared sentinels
			if e, ok := err.(*Error); ok && e.Span.Empty() {
				withSpan := *e
				withSpan.Span = op.Span
				return &withSpan
			}
			return err
		}
	}
	return nil
}

func (p *Program[V]) step(f *Frame[V], op *Op[V]) error {
	switch op.Kind {
	case OpPushValue:
		f.stack.Push(op.Value)
		return nil
	case OpGet:
		b, ok := f.scope.Get(op.Name)
		if !ok {
			return unknownSymbol(op.Name)
		}
		if v, ok := b.Value(); ok {
			f.stack.Push(v)
			return nil
		}
		return f.Invoke(op.Name, b.Callable(), Exactly(0), Exactly(1))
	case OpCall:
		b, ok := f.scope.Get(op.Name)
		if !ok {
			return unknownSymbol(op.Name)
		}
		return f.Invoke(op.Name, b.Callable(), op.Args, op.Rets)
	case OpOperator:
		return f.Invoke(op.Name, op.Callable, op.Args, op.Rets)
	default:
		fault(FaultBadProgram, "unknown op kind %d", op.Kind)
		return nil
	}
}

// String disassembles with values printed by fmt.
func (p *Program[V]) String() string {
	return p.Format(func(v V) string { return fmt.Sprint(v) })
}

// Format disassembles: values via render, lookups by name, calls as name[-a+r].
func (p *Program[V]) Format(render func(V) string) string {
	parts := make([]string, len(p.ops))
	for i := range p.ops {
		parts[i] = p.ops[i].format(render)
	}
	return strings.Join(parts, " ")
}

func (op *Op[V]) format(render func(V) string) string {
	switch op.Kind {
	case OpPushValue:
		return render(op.Value)
	case OpGet:
		return op.Name
	case OpCall:
		return fmt.Sprintf("%s[-%s+%s]", op.Name, op.Args, op.Rets)
	case OpOperator:
		if n, _ := op.Args.Get(); n == 1 {
			return op.Name + "u"
		}
		return op.Name
	default:
		return "<invalid>"
	}
}
