package lexer

import (
	"strconv"
	"strings"

	"calc/internal/diag"
	"calc/internal/token"
)

// "..." или '...'; escape \\ \' \" \n \t \r \b \f \0 \xNN \uNNNN.
// Text токена: уже раскодированное содержимое без кавычек.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	quote := lx.cursor.Bump()
	var sb strings.Builder
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		if b == quote {
			return token.Token{Kind: token.String, Span: lx.cursor.SpanFrom(start), Text: sb.String()}
		}
		if b != '\\' {
			sb.WriteByte(b)
			continue
		}
		escStart := lx.cursor.Mark() - 1
		if lx.cursor.EOF() {
			break
		}
		switch e := lx.cursor.Bump(); e {
		case '\\', '\'', '"':
			sb.WriteByte(e)
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case '0':
			sb.WriteByte(0)
		case 'x':
			lx.scanHexEscape(&sb, escStart, 2)
		case 'u':
			lx.scanHexEscape(&sb, escStart, 4)
		default:
			lx.report(diag.LexBadEscape, escStart, "unknown escape sequence")
			sb.WriteByte(e)
		}
	}
	// EOF без закрывающей кавычки
	lx.report(diag.LexUnterminatedString, start, "unterminated string literal")
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.expr.Slice(sp)}
}

func (lx *Lexer) scanHexEscape(sb *strings.Builder, escStart Mark, width uint32) {
	from := lx.cursor.Off
	for i := uint32(0); i < width && isHex(lx.cursor.Peek()); i++ {
		lx.cursor.Bump()
	}
	digits := lx.expr.Text[from:lx.cursor.Off]
	if uint32(len(digits)) != width {
		lx.report(diag.LexBadEscape, escStart, "escape needs exactly "+strconv.Itoa(int(width))+" hex digits")
		return
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		lx.report(diag.LexBadEscape, escStart, err.Error())
		return
	}
	sb.WriteRune(rune(v))
}
