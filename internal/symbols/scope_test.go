package symbols

import (
	"errors"
	"slices"
	"testing"
)

func TestShadowingDoesNotMutateParent(t *testing.T) {
	g := NewGlobal[int]()
	if err := g.Put("x", 1); err != nil {
		t.Fatalf("put global: %v", err)
	}
	n := NewNested(g)
	if err := n.Put("x", 2); err != nil {
		t.Fatalf("put nested: %v", err)
	}
	if v, ok := n.Get("x"); !ok || v != 2 {
		t.Fatalf("nested x: got %v, %v", v, ok)
	}
	if v, ok := g.Get("x"); !ok || v != 1 {
		t.Fatalf("global x changed: got %v, %v", v, ok)
	}
}

func TestReadsFallThrough(t *testing.T) {
	g := NewGlobal[string]()
	_ = g.Put("a", "global")
	n := NewNested(NewNested(g))
	v, holder, ok := n.Lookup("a")
	if !ok || v != "global" || holder != g {
		t.Fatalf("lookup: %v %p %v", v, holder, ok)
	}
	if _, ok := n.GetLocal("a"); ok {
		t.Fatalf("GetLocal must not walk outward")
	}
	if n.Depth() != 2 || g.Depth() != 0 {
		t.Fatalf("depth: %d %d", n.Depth(), g.Depth())
	}
}

func TestNotFound(t *testing.T) {
	g := NewGlobal[int]()
	if v, ok := NewProtected(g).Get("missing"); ok || v != 0 {
		t.Fatalf("expected not found, got %v %v", v, ok)
	}
}

func TestProtectedRejectsWrites(t *testing.T) {
	g := NewGlobal[int]()
	_ = g.Put("x", 1)
	p := NewProtected(g)

	if v, ok := p.Get("x"); !ok || v != 1 {
		t.Fatalf("protected read: %v %v", v, ok)
	}

	checks := []struct {
		name string
		err  error
	}{
		{"put", p.Put("x", 5)},
		{"put new", p.Put("y", 5)},
		{"declare", p.Declare("z", 1)},
	}
	_, rmErr := p.Remove("x")
	checks = append(checks, struct {
		name string
		err  error
	}{"remove", rmErr})

	for _, c := range checks {
		if !errors.Is(c.err, ErrAssignmentRejected) {
			t.Fatalf("%s: expected ErrAssignmentRejected, got %v", c.name, c.err)
		}
		var ae *AccessError
		if !errors.As(c.err, &ae) || ae.Kind != ScopeProtected {
			t.Fatalf("%s: expected AccessError, got %T", c.name, c.err)
		}
	}
	if v, _ := g.Get("x"); v != 1 {
		t.Fatalf("global x changed through protected scope: %v", v)
	}
	if _, ok := g.Get("y"); ok {
		t.Fatalf("rejected put leaked into parent")
	}
}

func TestNestedOverProtected(t *testing.T) {
	g := NewGlobal[int]()
	_ = g.Put("x", 1)
	n := NewNested(NewProtected(g))
	if err := n.Put("x", 7); err != nil {
		t.Fatalf("nested over protected must accept local writes: %v", err)
	}
	if v, _ := n.Get("x"); v != 7 {
		t.Fatalf("got %v", v)
	}
	if v, _ := g.Get("x"); v != 1 {
		t.Fatalf("global mutated: %v", v)
	}
}

func TestDeclareDuplicate(t *testing.T) {
	g := NewGlobal[int]()
	if err := g.Declare("true", 1); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if err := g.Declare("true", 2); !errors.Is(err, ErrDuplicateRegistration) {
		t.Fatalf("expected duplicate registration, got %v", err)
	}
	// shadowing an outer name is not a duplicate
	if err := NewNested(g).Declare("true", 3); err != nil {
		t.Fatalf("declare in nested: %v", err)
	}
}

func TestRemoveAndNames(t *testing.T) {
	g := NewGlobal[int]()
	for _, n := range []string{"c", "a", "b"} {
		_ = g.Put(n, 0)
	}
	if got := g.Names(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("names: %v", got)
	}
	n := NewNested(g)
	if ok, err := n.Remove("a"); ok || err != nil {
		t.Fatalf("remove must not reach the parent: %v %v", ok, err)
	}
	if ok, err := g.Remove("a"); !ok || err != nil {
		t.Fatalf("remove: %v %v", ok, err)
	}
	if g.Len() != 2 {
		t.Fatalf("len: %d", g.Len())
	}
}

func TestChildRequiresParent(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	NewNested[int](nil)
}

func TestScopeKindString(t *testing.T) {
	for k, want := range map[ScopeKind]string{
		ScopeGlobal: "global", ScopeNested: "nested", ScopeProtected: "protected", ScopeInvalid: "invalid",
	} {
		if k.String() != want {
			t.Fatalf("%d: %s", k, k.String())
		}
	}
}
