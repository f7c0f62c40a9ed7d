// Package diagfmt renders compile diagnostics, evaluation errors and token
// streams for the terminal.
package diagfmt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"calc/internal/diag"
	"calc/internal/source"
	"calc/internal/vm"
)

type palette struct {
	sev, code, caret, note *color.Color
}

func newPalette(on bool) palette {
	p := palette{
		sev:   color.New(color.FgRed, color.Bold),
		code:  color.New(color.FgCyan),
		caret: color.New(color.FgGreen, color.Bold),
		note:  color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.sev, p.code, p.caret, p.note} {
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty печатает диагностики одного выражения:
//
//	error LEX1004: Malformed number
//	  0x + 1
//	  ^^
func Pretty(w io.Writer, expr *source.Expr, items []diag.Diagnostic, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range items {
		fmt.Fprintf(w, "%s %s: %s\n", p.sev.Sprint(d.Severity.String()), p.code.Sprint(d.Code.ID()), d.Message)
		writeCaret(w, p, expr, d.Primary)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "%s: %s\n", p.note.Sprint("note"), n.Msg)
			writeCaret(w, p, expr, n.Span)
		}
	}
}

// Error renders err against the source it came from. Compile and evaluation
// errors get a caret under their span; anything else is printed as is.
func Error(w io.Writer, src string, err error, opts PrettyOpts) {
	expr := source.NewExpr(src)
	var de *diag.Error
	if errors.As(err, &de) {
		Pretty(w, expr, []diag.Diagnostic{de.Diagnostic}, opts)
		if de.Total > 1 {
			fmt.Fprintf(w, "(and %d more)\n", de.Total-1)
		}
		return
	}

	p := newPalette(opts.Color)
	fmt.Fprintf(w, "%s: %s\n", p.sev.Sprint("error"), err)
	var ve *vm.Error
	if errors.As(err, &ve) && !ve.Span.Empty() {
		writeCaret(w, p, expr, ve.Span)
	}
}

func writeCaret(w io.Writer, p palette, expr *source.Expr, sp source.Span) {
	if expr == nil || expr.Text == "" {
		return
	}
	col, width := Columns(expr.Text, sp)
	fmt.Fprintf(w, "  %s\n  %s%s\n", expr.Text, strings.Repeat(" ", col), p.caret.Sprint(strings.Repeat("^", width)))
}

// Columns converts a byte span into a display column and width, so the caret
// lines up under wide and combining characters. Width is at least 1.
func Columns(text string, sp source.Span) (col, width int) {
	n := uint32(len(text))
	end := min(sp.End, n)
	start := min(sp.Start, end)
	col = runewidth.StringWidth(text[:start])
	width = max(runewidth.StringWidth(text[start:end]), 1)
	return col, width
}
