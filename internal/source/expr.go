package source

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"
)

// Expr holds the text of a single expression as seen by the lexer.
// Text is NFC-normalised so that operator and symbol matching is byte-exact.
type Expr struct {
	Text       string
	Normalized bool // true if normalisation changed the input
}

// NewExpr normalises src and wraps it.
func NewExpr(src string) *Expr {
	out := norm.NFC.String(src)
	return &Expr{Text: out, Normalized: out != src}
}

// Len returns the byte length of the expression text.
func (e *Expr) Len() uint32 {
	n, err := safecast.Conv[uint32](len(e.Text))
	if err != nil {
		panic(fmt.Errorf("expression length overflow: %w", err))
	}
	return n
}

// Slice returns the text covered by sp, clamped to the expression bounds.
func (e *Expr) Slice(sp Span) string {
	end := min(sp.End, e.Len())
	start := min(sp.Start, end)
	return e.Text[start:end]
}

// Caret renders the expression with a marker line under sp:
//
//	1 & x | 0
//	    ^
func (e *Expr) Caret(sp Span) string {
	end := min(sp.End, e.Len())
	start := min(sp.Start, end)
	width := max(int(end-start), 1)
	var sb strings.Builder
	sb.WriteString(e.Text)
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat(" ", int(start)))
	sb.WriteString(strings.Repeat("^", width))
	return sb.String()
}
