package vm

import (
	"fmt"
	"io"
	"strings"
)

// Tracer outputs execution traces for debugging.
// Format: [depth=N] <ip> <op> | <stack bottom..top>
type Tracer[V any] struct {
	w      io.Writer
	render func(V) string
}

// NewTracer creates a tracer writing to w; render prints values (fmt when nil).
func NewTracer[V any](w io.Writer, render func(V) string) *Tracer[V] {
	if render == nil {
		render = func(v V) string { return fmt.Sprint(v) }
	}
	return &Tracer[V]{w: w, render: render}
}

// TraceOp records the state right before op runs.
func (t *Tracer[V]) TraceOp(f *Frame[V], ip int, op *Op[V]) {
	if t == nil || t.w == nil {
		return
	}
	vals := f.stack.Values()
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = t.render(v)
	}
	fmt.Fprintf(t.w, "[depth=%d] %03d %-12s | %s\n", f.depth, ip, op.format(t.render), strings.Join(parts, " "))
}
