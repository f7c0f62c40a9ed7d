package lexer

import (
	"calc/internal/diag"
	"calc/internal/source"
	"calc/internal/token"
)

type Lexer struct {
	expr      *source.Expr
	cursor    Cursor
	opts      Options
	operators []string     // longest first
	modifiers []string     // longest first
	look      *token.Token // 1 элементный буфер для токена
}

func New(expr *source.Expr, opts Options) *Lexer {
	return &Lexer{
		expr:      expr,
		cursor:    NewCursor(expr),
		opts:      opts,
		operators: byLengthDesc(opts.Operators),
		modifiers: byLengthDesc(opts.Modifiers),
	}
}

// Next возвращает следующий значимый токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipSpace()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.Peek()
	switch {
	case ch == '"' || ch == '\'':
		return lx.scanString()
	case isOpeningBracket(ch):
		return lx.single(token.LeftBracket)
	case isClosingBracket(ch):
		return lx.single(token.RightBracket)
	case ch == ',':
		return lx.single(token.Separator)
	case isIdentStartByte(ch):
		return lx.scanIdentOrOperator()
	}

	if tok, ok := lx.scanFixed(lx.operators, token.Operator); ok {
		return tok
	}
	if tok, ok := lx.scanFixed(lx.modifiers, token.Modifier); ok {
		return tok
	}
	if isDec(ch) || (ch == '.' && isDec(lx.cursor.PeekAt(1))) {
		return lx.scanNumber()
	}

	start := lx.cursor.Mark()
	lx.bumpRune()
	lx.report(diag.LexUnknownChar, start, "unknown character")
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.expr.Slice(sp)}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Tokenize lexes the whole expression; the trailing EOF is not included.
func Tokenize(expr *source.Expr, opts Options) []token.Token {
	lx := New(expr, opts)
	var out []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return out
		}
		out = append(out, tok)
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) skipSpace() {
	for !lx.cursor.EOF() && isSpace(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) single(kind token.Kind) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.expr.Slice(sp)}
}

// bumpRune пропускает одну UTF-8 руну целиком
func (lx *Lexer) bumpRune() {
	b := lx.cursor.Bump()
	if b < 0x80 {
		return
	}
	for !lx.cursor.EOF() && lx.cursor.Peek()&0xC0 == 0x80 {
		lx.cursor.Bump()
	}
}
