package compiler

import (
	"calc/internal/diag"
	"calc/internal/lexer"
	"calc/internal/ops"
	"calc/internal/token"
	"calc/internal/vm"
)

// prefix compiles s-expressions: (op a b ...) and (f a b ...). A unary operator
// takes one argument; a binary operator folds left over two or more. Several
// top-level expressions leave several results.
func (c *compilation[V]) prefix(toks []token.Token) ([]vm.Op[V], error) {
	p := &prefixParser[V]{c: c, toks: toks}
	var out []vm.Op[V]
	for p.pos < len(p.toks) {
		var err error
		if out, err = p.expr(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type prefixParser[V any] struct {
	c    *compilation[V]
	toks []token.Token
	pos  int
}

func (p *prefixParser[V]) next() (token.Token, bool) {
	if p.pos >= len(p.toks) {
		return token.Token{}, false
	}
	t := p.toks[p.pos]
	p.pos++
	return t, true
}

func (p *prefixParser[V]) peek() (token.Token, bool) {
	if p.pos >= len(p.toks) {
		return token.Token{}, false
	}
	return p.toks[p.pos], true
}

func (p *prefixParser[V]) expr(out []vm.Op[V]) ([]vm.Op[V], error) {
	tok, _ := p.next()
	switch {
	case tok.IsValue():
		op, err := p.c.literal(tok)
		if err != nil {
			return nil, err
		}
		return append(out, op), nil
	case tok.Kind == token.Symbol:
		return append(out, vm.Get[V](tok.Text, tok.Span)), nil
	case tok.Kind == token.SymbolWithArgs:
		return nil, p.c.errorf(diag.SynBadSymbolArgs, tok.Span, "explicit call counts %q are only valid in postfix notation", tok.Text)
	case tok.Kind == token.LeftBracket:
		return p.list(tok, out)
	case tok.Kind == token.RightBracket:
		return nil, p.c.errorf(diag.SynUnmatchedBracket, tok.Span, "closing %q without opening bracket", tok.Text)
	default:
		return nil, p.c.unexpected(tok, "expected a value, symbol or '('")
	}
}

func (p *prefixParser[V]) list(open token.Token, out []vm.Op[V]) ([]vm.Op[V], error) {
	head, ok := p.next()
	if !ok {
		return nil, p.c.errorf(diag.SynUnmatchedBracket, open.Span, "bracket %q is never closed", open.Text)
	}
	if head.Kind != token.Operator && head.Kind != token.Symbol {
		return nil, p.c.unexpected(head, "list must start with an operator or a function name")
	}

	var args [][]vm.Op[V]
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, p.c.errorf(diag.SynUnmatchedBracket, open.Span, "bracket %q is never closed", open.Text)
		}
		if tok.Kind == token.RightBracket {
			p.pos++
			if lexer.ClosingFor(open.Text) != tok.Text {
				return nil, p.c.errorf(diag.SynUnmatchedBracket, tok.Span, "%q closed by %q", open.Text, tok.Text)
			}
			break
		}
		arg, err := p.expr(nil)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	sp := open.Span.Cover(p.toks[p.pos-1].Span)
	if head.Kind == token.Symbol {
		for _, a := range args {
			out = append(out, a...)
		}
		return append(out, vm.Call[V](head.Text, vm.Exactly(len(args)), vm.Exactly(1), sp)), nil
	}

	switch len(args) {
	case 0:
		return nil, p.c.errorf(diag.SynInvalidExpression, sp, "operator %q without operands", head.Text)
	case 1:
		op, err := p.c.operator(head, ops.Unary)
		if err != nil {
			return nil, err
		}
		out = append(out, args[0]...)
		return append(out, vm.Operator[V](op.Text, op, 1, sp)), nil
	}
	op, err := p.c.operator(head, ops.Binary)
	if err != nil {
		return nil, err
	}
	out = append(out, args[0]...)
	for _, a := range args[1:] {
		out = append(out, a...)
		out = append(out, vm.Operator[V](op.Text, op, 2, sp))
	}
	return out, nil
}
