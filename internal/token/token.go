package token

import (
	"calc/internal/source"
)

// Token represents a single lexed unit with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// New builds a token without location, mostly for tests and synthetic input.
func New(kind Kind, text string) Token {
	return Token{Kind: kind, Text: text}
}

// IsValue reports whether the token is a literal value.
func (t Token) IsValue() bool { return t.Kind.IsValue() }

// IsNumber reports whether the token is a numeric literal.
func (t Token) IsNumber() bool { return t.Kind.IsNumber() }

// IsSymbol reports whether the token names a binding.
func (t Token) IsSymbol() bool { return t.Kind.IsSymbol() }

// IsTerminator reports whether the token closes an expression.
func (t Token) IsTerminator() bool { return t.Kind.IsTerminator() }

// IsNextOpUnary reports whether an operator right after this token is unary.
func (t Token) IsNextOpUnary() bool { return t.Kind.IsNextOpUnary() }

// Radix returns the numeric base implied by the token kind, or 0 for
// QuotedNumber (radix is part of the text) and non-number kinds.
func (t Token) Radix() int {
	switch t.Kind {
	case DecNumber:
		return 10
	case HexNumber:
		return 16
	case OctNumber:
		return 8
	case BinNumber:
		return 2
	default:
		return 0
	}
}

func (t Token) String() string {
	return t.Kind.String() + "(" + t.Text + ")"
}
