package symbols

import (
	"fmt"
	"slices"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid   ScopeKind = iota
	ScopeGlobal              // root, process-lifetime bindings
	ScopeNested              // per invocation or per block; writes stay local
	ScopeProtected           // read-through view, every write is rejected
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeNested:
		return "nested"
	case ScopeProtected:
		return "protected"
	default:
		return "invalid"
	}
}

// Writable reports whether Put/Declare/Remove may succeed on a scope of this kind.
func (k ScopeKind) Writable() bool {
	return k == ScopeGlobal || k == ScopeNested
}

// Scope models a lexical scope with a parent link. B is the binding type,
// kept generic so the scope chain does not depend on the evaluator.
//
// A child holds its parent by pointer and never outlives it in practice: nested
// and protected scopes are discarded together with the frame that created them.
// No internal locking; hosts sharing a writable scope across goroutines guard Put.
type Scope[B any] struct {
	kind   ScopeKind
	parent *Scope[B]
	names  map[string]B
}

// NewGlobal creates a root scope.
func NewGlobal[B any]() *Scope[B] {
	return &Scope[B]{kind: ScopeGlobal, names: make(map[string]B)}
}

// NewNested creates a writable scope whose reads fall through to parent.
func NewNested[B any](parent *Scope[B]) *Scope[B] {
	return newChild(ScopeNested, parent)
}

// NewProtected creates a read-only view of parent.
func NewProtected[B any](parent *Scope[B]) *Scope[B] {
	return newChild(ScopeProtected, parent)
}

func newChild[B any](kind ScopeKind, parent *Scope[B]) *Scope[B] {
	if parent == nil {
		panic(fmt.Sprintf("symbols: %s scope requires a parent", kind))
	}
	s := &Scope[B]{kind: kind, parent: parent}
	if kind.Writable() {
		s.names = make(map[string]B)
	}
	return s
}

func (s *Scope[B]) Kind() ScopeKind    { return s.kind }
func (s *Scope[B]) Parent() *Scope[B] { return s.parent }

// Depth returns the number of links to the root; the root has depth 0.
func (s *Scope[B]) Depth() int {
	d := 0
	for p := s.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Get resolves name walking outward. The second result is false when no scope
// in the chain binds it; the zero B is never a stand-in for a binding.
func (s *Scope[B]) Get(name string) (B, bool) {
	b, _, ok := s.Lookup(name)
	return b, ok
}

// Lookup is Get that also reports the scope holding the binding.
func (s *Scope[B]) Lookup(name string) (B, *Scope[B], bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.names[name]; ok {
			return b, cur, true
		}
	}
	var zero B
	return zero, nil, false
}

// GetLocal looks only at this scope's own map.
func (s *Scope[B]) GetLocal(name string) (B, bool) {
	b, ok := s.names[name]
	return b, ok
}

// Put inserts or overwrites name in this scope only. Outer bindings are shadowed,
// never mutated.
func (s *Scope[B]) Put(name string, b B) error {
	if err := s.checkWrite("put", name); err != nil {
		return err
	}
	s.names[name] = b
	return nil
}

// Declare is Put that refuses to overwrite a local binding. It is used while
// installing built-ins so that clashes fail at setup.
func (s *Scope[B]) Declare(name string, b B) error {
	if err := s.checkWrite("declare", name); err != nil {
		return err
	}
	if _, exists := s.names[name]; exists {
		return fmt.Errorf("%w: %q already bound in %s scope", ErrDuplicateRegistration, name, s.kind)
	}
	s.names[name] = b
	return nil
}

// Remove deletes a local binding. It reports false when name is not bound here;
// outer scopes are never touched.
func (s *Scope[B]) Remove(name string) (bool, error) {
	if err := s.checkWrite("remove", name); err != nil {
		return false, err
	}
	if _, ok := s.names[name]; !ok {
		return false, nil
	}
	delete(s.names, name)
	return true, nil
}

// Names returns the local names in sorted order.
func (s *Scope[B]) Names() []string {
	out := make([]string, 0, len(s.names))
	for name := range s.names {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Len is the number of local bindings.
func (s *Scope[B]) Len() int { return len(s.names) }

func (s *Scope[B]) checkWrite(op, name string) error {
	if s.kind.Writable() {
		return nil
	}
	return &AccessError{Op: op, Name: name, Kind: s.kind}
}
