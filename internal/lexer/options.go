package lexer

import (
	"cmp"
	"slices"

	"calc/internal/diag"
)

type Options struct {
	Reporter diag.Reporter // nil: ошибки игнорируются, лексинг продолжается
	// Operators are matched greedily, longest first. Word operators ("and")
	// win over identifiers of the same length.
	Operators []string
	// Modifiers are prefix markers emitted as token.Modifier.
	Modifiers []string
}

// byLengthDesc returns a copy of texts ordered longest first, then lexically,
// so that the first HasPrefix hit is the longest match.
func byLengthDesc(texts []string) []string {
	out := slices.Clone(texts)
	slices.SortFunc(out, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return slices.Compact(out)
}

func (lx *Lexer) report(code diag.Code, m Mark, msg string) {
	diag.ReportError(lx.opts.Reporter, code, lx.cursor.SpanFrom(m), msg)
}
