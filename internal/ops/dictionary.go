package ops

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"calc/internal/symbols"
	"calc/internal/vm"
)

// ErrSealed is returned for registrations after the dictionary was sealed.
var ErrSealed = errors.New("operator dictionary is sealed")

// Dictionary maps operator text to operators, separately per Kind. It is
// append-only while being set up and read-only once sealed; a sealed dictionary
// may be shared across goroutines.
type Dictionary[V any] struct {
	unary  map[string]*Operator[V]
	binary map[string]*Operator[V]
	sealed atomic.Bool
}

func NewDictionary[V any]() *Dictionary[V] {
	return &Dictionary[V]{
		unary:  make(map[string]*Operator[V]),
		binary: make(map[string]*Operator[V]),
	}
}

// RegisterUnary adds a prefix operator.
func (d *Dictionary[V]) RegisterUnary(text string, fn func(a V) (V, error)) (*Operator[V], error) {
	return d.register(&Operator[V]{Text: text, Kind: Unary, fn: vm.Unary(fn)})
}

// RegisterBinary adds a left-associative binary operator.
func (d *Dictionary[V]) RegisterBinary(text string, precedence int, fn func(a, b V) (V, error)) (*Operator[V], error) {
	return d.RegisterBinaryAssoc(text, precedence, AssocLeft, fn)
}

func (d *Dictionary[V]) RegisterBinaryAssoc(text string, precedence int, assoc Assoc, fn func(a, b V) (V, error)) (*Operator[V], error) {
	return d.register(&Operator[V]{Text: text, Kind: Binary, Precedence: precedence, Assoc: assoc, fn: vm.Binary(fn)})
}

func (d *Dictionary[V]) register(op *Operator[V]) (*Operator[V], error) {
	if d.sealed.Load() {
		return nil, fmt.Errorf("%w: cannot register %s %q", ErrSealed, op.Kind, op.Text)
	}
	if op.Text == "" {
		return nil, fmt.Errorf("empty %s operator text", op.Kind)
	}
	table := d.table(op.Kind)
	if _, exists := table[op.Text]; exists {
		return nil, fmt.Errorf("%w: %s operator %q", symbols.ErrDuplicateRegistration, op.Kind, op.Text)
	}
	table[op.Text] = op
	return op, nil
}

func (d *Dictionary[V]) table(k Kind) map[string]*Operator[V] {
	if k == Unary {
		return d.unary
	}
	return d.binary
}

func (d *Dictionary[V]) Unary(text string) (*Operator[V], bool) {
	op, ok := d.unary[text]
	return op, ok
}

func (d *Dictionary[V]) Binary(text string) (*Operator[V], bool) {
	op, ok := d.binary[text]
	return op, ok
}

// Lookup returns the operator of the given kind.
func (d *Dictionary[V]) Lookup(k Kind, text string) (*Operator[V], bool) {
	op, ok := d.table(k)[text]
	return op, ok
}

// AllTexts returns every distinct operator text, sorted; the lexer matches them.
func (d *Dictionary[V]) AllTexts() []string {
	out := make([]string, 0, len(d.unary)+len(d.binary))
	for t := range d.unary {
		out = append(out, t)
	}
	for t := range d.binary {
		out = append(out, t)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Operators returns all operators of one kind ordered by text.
func (d *Dictionary[V]) Operators(k Kind) []*Operator[V] {
	table := d.table(k)
	out := make([]*Operator[V], 0, len(table))
	for _, op := range table {
		out = append(out, op)
	}
	slices.SortFunc(out, func(a, b *Operator[V]) int { return cmp.Compare(a.Text, b.Text) })
	return out
}

// Seal freezes the dictionary. Sealing twice is harmless.
func (d *Dictionary[V]) Seal() { d.sealed.Store(true) }

func (d *Dictionary[V]) Sealed() bool { return d.sealed.Load() }
