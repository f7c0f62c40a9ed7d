package vm

// Stack is the typed operand stack of a frame. Underflow and overflow of a
// bounded stack are faults, not errors.
type Stack[V any] struct {
	items []V
	limit int // 0 = unbounded
}

func NewStack[V any]() *Stack[V] { return &Stack[V]{} }

// NewBoundedStack creates a stack that holds at most limit values.
func NewBoundedStack[V any](limit int) *Stack[V] {
	return &Stack[V]{items: make([]V, 0, limit), limit: limit}
}

func (s *Stack[V]) Size() int { return len(s.items) }

func (s *Stack[V]) Push(v V) {
	if s.limit > 0 && len(s.items) >= s.limit {
		fault(FaultStackOverflow, "push beyond %d slot(s)", s.limit)
	}
	s.items = append(s.items, v)
}

func (s *Stack[V]) PushAll(vs ...V) {
	for _, v := range vs {
		s.Push(v)
	}
}

func (s *Stack[V]) Pop() V {
	n := len(s.items)
	if n == 0 {
		fault(FaultStackUnderflow, "pop from empty stack")
	}
	v := s.items[n-1]
	var zero V
	s.items[n-1] = zero
	s.items = s.items[:n-1]
	return v
}

// PopN removes the top n values and returns them in push order, so the first
// element was pushed first and the last element was on top.
func (s *Stack[V]) PopN(n int) []V {
	if n > len(s.items) {
		fault(FaultStackUnderflow, "pop %d from stack of %d", n, len(s.items))
	}
	base := len(s.items) - n
	out := make([]V, n)
	copy(out, s.items[base:])
	clear(s.items[base:])
	s.items = s.items[:base]
	return out
}

// Peek returns the value n positions below the top; Peek(0) is the top.
func (s *Stack[V]) Peek(n int) V {
	if n < 0 || n >= len(s.items) {
		fault(FaultStackUnderflow, "peek %d in stack of %d", n, len(s.items))
	}
	return s.items[len(s.items)-1-n]
}

// Values returns a copy of the contents, bottom first.
func (s *Stack[V]) Values() []V {
	out := make([]V, len(s.items))
	copy(out, s.items)
	return out
}
