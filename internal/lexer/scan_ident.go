package lexer

import (
	"calc/internal/token"
)

// scanIdentOrOperator handles the overlap between identifiers and word
// operators: an operator wins when it is at least as long as the identifier.
func (lx *Lexer) scanIdentOrOperator() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	identLen := lx.cursor.Off - uint32(start)
	lx.cursor.Reset(start)

	if op := lx.match(lx.operators); op != "" && uint32(len(op)) >= identLen {
		tok, _ := lx.scanFixed(lx.operators, token.Operator)
		return tok
	}

	lx.cursor.Off += identLen
	if lx.cursor.Peek() == '@' {
		lx.scanSymbolArgs()
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.SymbolWithArgs, Span: sp, Text: lx.expr.Slice(sp)}
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Symbol, Span: sp, Text: lx.expr.Slice(sp)}
}

// @[0-9]*,?[0-9]*: проверка чисел делается компилятором
func (lx *Lexer) scanSymbolArgs() {
	lx.cursor.Bump() // '@'
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.cursor.Eat(',') {
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
}

func (lx *Lexer) match(texts []string) string {
	for _, t := range texts {
		if lx.cursor.HasPrefix(t) {
			return t
		}
	}
	return ""
}

func (lx *Lexer) scanFixed(texts []string, kind token.Kind) (token.Token, bool) {
	t := lx.match(texts)
	if t == "" {
		return token.Token{}, false
	}
	start := lx.cursor.Mark()
	lx.cursor.Off += uint32(len(t))
	return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(start), Text: t}, true
}
