package lexer

import (
	"strings"

	"calc/internal/diag"
	"calc/internal/token"
)

// Поддержка: 123, 1_000, 1.5, 0x1F, 0b101, 017, 36#ZZ, 60#'59'1.
// Token.Text хранит только цифры (без префикса и '_'); для QuotedNumber "R#digits".
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if kind, ok := lx.scanQuoted(start); ok {
		return lx.emitNumber(kind, start, 0)
	}
	lx.cursor.Reset(start)

	if lx.cursor.Peek() == '0' {
		switch b := lx.cursor.PeekAt(1); {
		case b == 'x' || b == 'X':
			lx.cursor.Off += 2
			return lx.scanRadix(token.HexNumber, start, 2, isHex)
		case b == 'b' || b == 'B':
			lx.cursor.Off += 2
			return lx.scanRadix(token.BinNumber, start, 2, isBin)
		case isOct(b) || b == '_':
			lx.cursor.Off++
			return lx.scanRadix(token.OctNumber, start, 1, isOct)
		}
	}
	return lx.scanRadix(token.DecNumber, start, 0, isDec)
}

// scanRadix consumes digits[.digits] with '_' separators. prefix is the number of
// bytes already consumed as radix prefix.
func (lx *Lexer) scanRadix(kind token.Kind, start Mark, prefix uint32, digit func(byte) bool) token.Token {
	n := lx.digits(digit)
	if lx.cursor.Peek() == '.' && digit(lx.cursor.PeekAt(1)) {
		lx.cursor.Bump()
		n += lx.digits(digit)
	}
	if n == 0 {
		lx.report(diag.LexBadNumber, start, "expected digits after radix prefix")
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.expr.Slice(sp)}
	}
	// цифры, приклеенные к числу (089, 0b12), это ошибка, а не два токена
	if isIdentContinueByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		lx.report(diag.LexBadNumber, start, "invalid digit in "+kind.String())
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.expr.Slice(sp)}
	}
	return lx.emitNumber(kind, start, prefix)
}

func (lx *Lexer) digits(digit func(byte) bool) int {
	n := 0
	for {
		b := lx.cursor.Peek()
		switch {
		case digit(b):
			n++
		case b == '_' && n > 0:
		default:
			return n
		}
		lx.cursor.Bump()
	}
}

// scanQuoted tries R#digits. Cursor is left wherever scanning stopped; the caller
// resets it on failure.
func (lx *Lexer) scanQuoted(start Mark) (token.Kind, bool) {
	if lx.digits(isDec) == 0 || !lx.cursor.Eat('#') {
		return token.Invalid, false
	}
	if lx.digits(isQuotedDigit) == 0 {
		return token.Invalid, false
	}
	if lx.cursor.Peek() == '.' && isQuotedDigit(lx.cursor.PeekAt(1)) {
		lx.cursor.Bump()
		lx.digits(isQuotedDigit)
	}
	return token.QuotedNumber, true
}

func (lx *Lexer) emitNumber(kind token.Kind, start Mark, prefix uint32) token.Token {
	sp := lx.cursor.SpanFrom(start)
	text := lx.expr.Slice(sp)[prefix:]
	return token.Token{Kind: kind, Span: sp, Text: strings.ReplaceAll(text, "_", "")}
}
