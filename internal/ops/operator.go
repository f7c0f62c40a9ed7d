package ops

import (
	"fmt"

	"calc/internal/vm"
)

// Kind separates the unary and binary tables; the same text may live in both.
type Kind uint8

const (
	Unary Kind = iota + 1
	Binary
)

func (k Kind) String() string {
	switch k {
	case Unary:
		return "unary"
	case Binary:
		return "binary"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Operands returns how many values an operator of this kind consumes.
func (k Kind) Operands() int {
	if k == Unary {
		return 1
	}
	return 2
}

// Assoc decides grouping between binary operators of equal precedence.
type Assoc uint8

const (
	AssocLeft Assoc = iota
	AssocRight
)

func (a Assoc) String() string {
	if a == AssocRight {
		return "right"
	}
	return "left"
}

// Operator is a registered operator. It satisfies vm.Callable with exact arity:
// Kind.Operands() arguments, one result.
type Operator[V any] struct {
	Text       string
	Kind       Kind
	Precedence int   // binary only
	Assoc      Assoc // binary only
	fn         vm.Fixed[V]
}

func (o *Operator[V]) Arity() (vm.Arity, vm.Arity) { return o.fn.Arity() }

func (o *Operator[V]) Call(f *vm.Frame[V], args, rets vm.Count) error {
	return o.fn.Call(f, args, rets)
}

// Apply evaluates the operator directly, outside any frame.
func (o *Operator[V]) Apply(operands ...V) (V, error) {
	if len(operands) != o.Kind.Operands() {
		panic(fmt.Sprintf("ops: %s %q applied to %d operand(s)", o.Kind, o.Text, len(operands)))
	}
	out, err := o.fn.Body(operands)
	if err != nil {
		var zero V
		return zero, err
	}
	return out[0], nil
}

// LessThan reports whether o, arriving after other, makes other bind first.
// Prefix unary operators bind tighter than any binary operator and never force
// anything out themselves.
func (o *Operator[V]) LessThan(other *Operator[V]) bool {
	switch {
	case o.Kind == Unary:
		return false
	case other.Kind == Unary:
		return true
	case o.Assoc == AssocLeft:
		return o.Precedence <= other.Precedence
	default:
		return o.Precedence < other.Precedence
	}
}

func (o *Operator[V]) String() string {
	if o.Kind == Unary {
		return o.Text + "/1"
	}
	if o.Assoc == AssocRight {
		return fmt.Sprintf("%s/2@%dr", o.Text, o.Precedence)
	}
	return fmt.Sprintf("%s/2@%d", o.Text, o.Precedence)
}
