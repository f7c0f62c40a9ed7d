package compiler

import (
	"strings"

	"calc/internal/diag"
	"calc/internal/lexer"
	"calc/internal/source"
	"calc/internal/token"
)

// AssignModifier binds the expression on its right to the name on its left.
const AssignModifier = ":="

// Assignment is a statement of the form name := expr.
type Assignment struct {
	Name string
	Body string
}

// SplitAssignment recognises name := expr. ok is false for plain expressions;
// a misplaced := is reported as a *diag.Error. Lexical errors elsewhere are left
// for the compilation of the body.
func SplitAssignment(src string, operators []string) (a Assignment, ok bool, err error) {
	expr := source.NewExpr(src)
	toks := lexer.Tokenize(expr, lexer.Options{
		Operators: operators,
		Modifiers: []string{AssignModifier},
	})
	at := -1
	for i, tok := range toks {
		if tok.Kind == token.Modifier && tok.Text == AssignModifier {
			at = i
			break
		}
	}
	if at < 0 {
		return Assignment{}, false, nil
	}

	bag := diag.NewBag(1)
	rep := diag.BagReporter{Bag: bag}
	mod := toks[at]
	if at != 1 || toks[0].Kind != token.Symbol {
		diag.ReportError(rep, diag.SynUnexpectedToken, mod.Span, "expected: name := expr")
		return Assignment{}, false, bag.Err()
	}
	body := strings.TrimSpace(expr.Text[mod.Span.End:])
	if body == "" {
		diag.ReportError(rep, diag.SynEmptyExpression, mod.Span, "nothing to assign")
		return Assignment{}, false, bag.Err()
	}
	return Assignment{Name: toks[0].Text, Body: body}, true, nil
}
