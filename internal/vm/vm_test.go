package vm

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"calc/internal/source"
	"calc/internal/symbols"
)

func add() Fixed[int] {
	return Binary(func(a, b int) (int, error) { return a + b, nil })
}

func sub() Fixed[int] {
	return Binary(func(a, b int) (int, error) { return a - b, nil })
}

func expectFault(t *testing.T, code FaultCode, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		f, ok := AsFault(r)
		if !ok {
			t.Fatalf("expected fault %s, got %v", code, r)
		}
		if f.Code != code {
			t.Fatalf("expected fault %s, got %s (%s)", code, f.Code, f.Message)
		}
	}()
	fn()
}

func TestNegotiate(t *testing.T) {
	cases := []struct {
		decl Arity
		req  Count
		want Count
		ok   bool
	}{
		{Exact(2), Unspecified, Exactly(2), true},
		{Exact(2), Exactly(2), Exactly(2), true},
		{Exact(2), Exactly(1), Exactly(1), false},
		{Any(), Unspecified, Unspecified, true},
		{Any(), Exactly(5), Exactly(5), true},
	}
	for _, c := range cases {
		got, ok := c.decl.Negotiate(c.req)
		if ok != c.ok || (ok && got != c.want) {
			t.Fatalf("%s vs %s: got %s/%v, want %s/%v", c.decl, c.req, got, ok, c.want, c.ok)
		}
	}
}

func TestCountString(t *testing.T) {
	if Unspecified.String() != "?" || Exactly(3).String() != "3" {
		t.Fatalf("count strings: %s %s", Unspecified, Exactly(3))
	}
	if Unspecified.Or(7) != 7 || Exactly(1).Or(7) != 1 {
		t.Fatalf("Or mismatch")
	}
}

func TestFixedArityContract(t *testing.T) {
	cases := []struct {
		args, rets Count
		mismatch   bool
	}{
		{Exactly(2), Exactly(1), false},
		{Exactly(1), Exactly(1), true},
		{Exactly(2), Exactly(2), true},
		{Unspecified, Unspecified, false},
	}
	for _, c := range cases {
		f := NewFrame(symbols.NewGlobal[Binding[int]]())
		f.Stack().PushAll(3, 4)
		err := f.Invoke("add", add(), c.args, c.rets)
		if c.mismatch {
			if !errors.Is(err, ErrArityMismatch) {
				t.Fatalf("(%s,%s): expected ArityMismatch, got %v", c.args, c.rets, err)
			}
			if f.Stack().Size() != 2 {
				t.Fatalf("mismatch must be caught before the call, stack=%v", f.Stack().Values())
			}
			continue
		}
		if err != nil {
			t.Fatalf("(%s,%s): %v", c.args, c.rets, err)
		}
		if got := f.Stack().Values(); !slices.Equal(got, []int{7}) {
			t.Fatalf("stack: %v", got)
		}
	}
}

func TestPopOrder(t *testing.T) {
	f := NewFrame(symbols.NewGlobal[Binding[int]]())
	f.Stack().PushAll(10, 3)
	if err := f.Invoke("-", sub(), Exactly(2), Exactly(1)); err != nil {
		t.Fatal(err)
	}
	if v := f.Stack().Pop(); v != 7 {
		t.Fatalf("first pushed must be the left operand: got %d", v)
	}
}

func TestInsufficientStackIsError(t *testing.T) {
	f := NewFrame(symbols.NewGlobal[Binding[int]]())
	f.Stack().Push(1)
	if err := f.Invoke("add", add(), Unspecified, Unspecified); !errors.Is(err, ErrArityMismatch) {
		t.Fatalf("expected ArityMismatch, got %v", err)
	}
}

func TestStackUnderflowFaults(t *testing.T) {
	expectFault(t, FaultStackUnderflow, func() { NewStack[int]().Pop() })
	expectFault(t, FaultStackUnderflow, func() { NewStack[int]().PopN(1) })
	expectFault(t, FaultStackOverflow, func() { NewBoundedStack[int](1).PushAll(1, 2) })
}

func TestPostConditionFault(t *testing.T) {
	// declares one result, leaves two
	bad := Fixed[int]{Args: 0, Rets: 1, Body: func([]int) ([]int, error) { return []int{1, 2}, nil }}
	f := NewFrame(symbols.NewGlobal[Binding[int]]())
	expectFault(t, FaultContractViolation, func() { _ = f.Invoke("bad", bad, Unspecified, Unspecified) })

	sneaky := sneakyCallable{}
	expectFault(t, FaultPostCondition, func() { _ = f.Invoke("sneaky", sneaky, Unspecified, Unspecified) })
}

// pushes two values while declaring one
type sneakyCallable struct{}

func (sneakyCallable) Arity() (Arity, Arity) { return Exact(0), Exact(1) }
func (sneakyCallable) Call(f *Frame[int], _, _ Count) error {
	f.Stack().PushAll(1, 2)
	return nil
}

func TestNullaryForms(t *testing.T) {
	g := symbols.NewGlobal[Binding[int]]()
	f := NewFrame(g)

	direct := NullaryDirect[int](func() (int, error) { return 42, nil })
	if err := f.Invoke("direct", direct, Unspecified, Unspecified); err != nil {
		t.Fatal(err)
	}

	f.Stack().Push(99) // must not be visible to the framed body
	framed := NullaryFramed[int](func(sub *Frame[int]) error {
		if sub.Stack().Size() != 0 {
			t.Fatalf("framed body sees caller stack")
		}
		sub.Stack().Push(5)
		return nil
	})
	if err := f.Invoke("framed", framed, Exactly(0), Exactly(1)); err != nil {
		t.Fatal(err)
	}
	if got := f.Stack().Values(); !slices.Equal(got, []int{42, 99, 5}) {
		t.Fatalf("stack: %v", got)
	}

	empty := NullaryFramed[int](func(*Frame[int]) error { return nil })
	expectFault(t, FaultPostCondition, func() { _ = f.Invoke("empty", empty, Unspecified, Unspecified) })

	overfull := NullaryFramed[int](func(sub *Frame[int]) error {
		sub.Stack().PushAll(1, 2)
		return nil
	})
	expectFault(t, FaultStackOverflow, func() { _ = f.Invoke("overfull", overfull, Unspecified, Unspecified) })
}

func TestVariadic(t *testing.T) {
	sum := Variadic[int]{Name: "sum", DefaultArgs: 2, Body: func(args []int) (int, error) {
		total := 0
		for _, a := range args {
			total += a
		}
		return total, nil
	}}
	f := NewFrame(symbols.NewGlobal[Binding[int]]())
	f.Stack().PushAll(1, 2, 3, 4)
	if err := f.Invoke("sum", sum, Exactly(3), Unspecified); err != nil {
		t.Fatal(err)
	}
	if err := f.Invoke("sum", sum, Unspecified, Unspecified); err != nil {
		t.Fatal(err)
	}
	if got := f.Stack().Values(); !slices.Equal(got, []int{10}) {
		t.Fatalf("stack: %v", got)
	}
	if err := f.Invoke("sum", sum, Exactly(4), Unspecified); !errors.Is(err, ErrArityMismatch) {
		t.Fatalf("expected ArityMismatch, got %v", err)
	}
	if err := f.Invoke("sum", sum, Unspecified, Exactly(2)); !errors.Is(err, ErrArityMismatch) {
		t.Fatalf("expected ArityMismatch for rets, got %v", err)
	}
}

func TestBindings(t *testing.T) {
	calls := 0
	g := symbols.NewGlobal[Binding[int]]()
	_ = g.Put("c", Constant(1))
	_ = g.Put("p", Provider(func() int { calls++; return calls }))
	_ = g.Put("add", Func[int](add()))

	prog := NewProgram("", []Op[int]{
		Get[int]("c", source.Span{}),
		Get[int]("p", source.Span{}),
		Get[int]("p", source.Span{}),
		Call[int]("add", Exactly(2), Exactly(1), source.Span{}),
		Call[int]("c", Unspecified, Unspecified, source.Span{}),
	})
	f := NewFrame(g)
	if err := prog.Execute(f); err != nil {
		t.Fatal(err)
	}
	if got := f.Stack().Values(); !slices.Equal(got, []int{1, 3, 1}) {
		t.Fatalf("stack: %v", got)
	}

	bad := NewProgram("", []Op[int]{PushValue(1, source.Span{}), Call[int]("c", Exactly(1), Exactly(1), source.Span{})})
	if err := bad.Execute(NewFrame(g)); !errors.Is(err, ErrArityMismatch) {
		t.Fatalf("constant called with args: %v", err)
	}
}

func TestUnknownSymbolCarriesSpan(t *testing.T) {
	sp := source.Span{Start: 4, End: 7}
	prog := NewProgram("1 + foo", []Op[int]{Get[int]("foo", sp)})
	err := prog.Execute(NewFrame(symbols.NewGlobal[Binding[int]]()))
	var e *Error
	if !errors.As(err, &e) || e.Code != CodeUnknownSymbol || e.Symbol != "foo" || e.Span != sp {
		t.Fatalf("got %#v", err)
	}
}

func TestSentinelNotMutated(t *testing.T) {
	g := symbols.NewGlobal[Binding[int]]()
	_ = g.Put("boom", Func[int](NullaryDirect[int](func() (int, error) { return 0, ErrDomain })))
	prog := NewProgram("", []Op[int]{Get[int]("boom", source.Span{Start: 1, End: 2})})
	if err := prog.Execute(NewFrame(g)); !errors.Is(err, ErrDomain) {
		t.Fatalf("got %v", err)
	}
	if !ErrDomain.Span.Empty() {
		t.Fatalf("sentinel was mutated")
	}
}

func TestUserFunction(t *testing.T) {
	g := symbols.NewGlobal[Binding[int]]()
	_ = g.Put("-", Func[int](sub()))
	_ = g.Put("k", Constant(100))
	body := NewProgram("a - b - k", []Op[int]{
		Get[int]("a", source.Span{}),
		Get[int]("b", source.Span{}),
		Operator[int]("-", sub(), 2, source.Span{}),
		Get[int]("k", source.Span{}),
		Operator[int]("-", sub(), 2, source.Span{}),
	})
	fn := &UserFunction[int]{Name: "f", Params: []string{"a", "b"}, Body: body, Defining: g}
	_ = g.Put("f", Func[int](fn))

	f := NewFrame(g)
	f.Stack().PushAll(500, 50)
	if err := f.Invoke("f", fn, Exactly(2), Exactly(1)); err != nil {
		t.Fatal(err)
	}
	if v := f.Stack().Pop(); v != 350 {
		t.Fatalf("got %d", v)
	}
	if _, ok := g.GetLocal("a"); ok {
		t.Fatalf("parameter leaked into defining scope")
	}
}

func TestUserFunctionCannotWriteGlobals(t *testing.T) {
	g := symbols.NewGlobal[Binding[int]]()
	writer := NullaryFramed[int](func(sub *Frame[int]) error {
		// the parent of the parameter scope is the protected view
		if err := sub.Scope().Parent().Put("x", Constant(1)); err != nil {
			return &Error{Code: CodeAssignmentRejected, Symbol: "x", Err: err}
		}
		sub.Stack().Push(0)
		return nil
	})
	_ = g.Put("writer", Func[int](writer))
	fn := &UserFunction[int]{Name: "f", Body: NewProgram("writer()", []Op[int]{Call[int]("writer", Exactly(0), Exactly(1), source.Span{})}), Defining: g}

	err := NewFrame(g).Invoke("f", fn, Unspecified, Unspecified)
	if !errors.Is(err, ErrAssignmentRejected) || !errors.Is(err, symbols.ErrAssignmentRejected) {
		t.Fatalf("expected assignment rejected, got %v", err)
	}
	if _, ok := g.Get("x"); ok {
		t.Fatalf("global written")
	}
}

func TestUserFunctionResultCount(t *testing.T) {
	g := symbols.NewGlobal[Binding[int]]()
	fn := &UserFunction[int]{Name: "two", Body: NewProgram("1 2", []Op[int]{PushValue(1, source.Span{}), PushValue(2, source.Span{})})}
	if err := NewFrame(g).Invoke("two", fn, Unspecified, Unspecified); !errors.Is(err, ErrArityMismatch) {
		t.Fatalf("got %v", err)
	}
}

func TestRecursionLimit(t *testing.T) {
	g := symbols.NewGlobal[Binding[int]]()
	fn := &UserFunction[int]{Name: "loop", Body: NewProgram("loop()", []Op[int]{Call[int]("loop", Exactly(0), Exactly(1), source.Span{})})}
	_ = g.Put("loop", Func[int](fn))
	if err := NewFrame(g).Invoke("loop", fn, Unspecified, Unspecified); !errors.Is(err, ErrDepthLimit) {
		t.Fatalf("got %v", err)
	}
}

func TestProgramIdempotentAndDisassembly(t *testing.T) {
	prog := NewProgram("3 - 1", []Op[int]{
		PushValue(3, source.Span{}),
		PushValue(1, source.Span{}),
		Operator[int]("-", sub(), 2, source.Span{}),
		Call[int]("dup", Unspecified, Exactly(2), source.Span{}),
	})
	if got := prog.String(); got != "3 1 - dup[-?+2]" {
		t.Fatalf("disassembly: %q", got)
	}
	for range 2 {
		g := symbols.NewGlobal[Binding[int]]()
		_ = g.Put("dup", Func[int](Fixed[int]{Args: 1, Rets: 2, Body: func(a []int) ([]int, error) { return []int{a[0], a[0]}, nil }}))
		f := NewFrame(g)
		if err := prog.Execute(f); err != nil {
			t.Fatal(err)
		}
		if got := f.Stack().Values(); !slices.Equal(got, []int{2, 2}) {
			t.Fatalf("stack: %v", got)
		}
	}
}

func TestTracer(t *testing.T) {
	var buf bytes.Buffer
	prog := NewProgram("", []Op[int]{PushValue(1, source.Span{}), PushValue(2, source.Span{})})
	f := NewFrame(symbols.NewGlobal[Binding[int]]()).WithTracer(NewTracer[int](&buf, nil))
	if err := prog.Execute(f); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[1], "[depth=0] 001 2") || !strings.HasSuffix(lines[1], "| 1") {
		t.Fatalf("trace: %q", buf.String())
	}
}

func TestFaultCodeString(t *testing.T) {
	if FaultStackUnderflow.String() != "VM1001" {
		t.Fatalf("got %s", FaultStackUnderflow)
	}
}
