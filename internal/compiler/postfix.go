package compiler

import (
	"strconv"
	"strings"

	"fortio.org/safecast"

	"calc/internal/diag"
	"calc/internal/token"
	"calc/internal/vm"
)

// postfix compiles RPN. Operator text resolves to the binary operator when one
// exists, otherwise to the unary one. A bare symbol is called with counts left
// to the callee; name@a,r pins them.
func (c *compilation[V]) postfix(toks []token.Token) ([]vm.Op[V], error) {
	out := make([]vm.Op[V], 0, len(toks))
	for _, tok := range toks {
		switch {
		case tok.IsValue():
			op, err := c.literal(tok)
			if err != nil {
				return nil, err
			}
			out = append(out, op)
		case tok.Kind == token.Symbol:
			out = append(out, vm.Call[V](tok.Text, vm.Unspecified, vm.Unspecified, tok.Span))
		case tok.Kind == token.SymbolWithArgs:
			op, err := c.symbolWithArgs(tok)
			if err != nil {
				return nil, err
			}
			out = append(out, op)
		case tok.Kind == token.Operator:
			if op, ok := c.env.Operators.Binary(tok.Text); ok {
				out = append(out, vm.Operator[V](op.Text, op, 2, tok.Span))
				continue
			}
			if op, ok := c.env.Operators.Unary(tok.Text); ok {
				out = append(out, vm.Operator[V](op.Text, op, 1, tok.Span))
				continue
			}
			return nil, c.errorf(diag.SynUnknownOperator, tok.Span, "unknown operator %q", tok.Text)
		default:
			return nil, c.unexpected(tok, "not valid in postfix notation")
		}
	}
	return out, nil
}

// symbolWithArgs parses name@args[,rets]; either count may be omitted.
func (c *compilation[V]) symbolWithArgs(tok token.Token) (vm.Op[V], error) {
	name, counts, _ := strings.Cut(tok.Text, "@")
	argText, retText, _ := strings.Cut(counts, ",")
	args, err := parseCount(argText)
	if err != nil {
		return vm.Op[V]{}, c.errorf(diag.SynBadSymbolArgs, tok.Span, "argument count in %q: %v", tok.Text, err)
	}
	rets, err := parseCount(retText)
	if err != nil {
		return vm.Op[V]{}, c.errorf(diag.SynBadSymbolArgs, tok.Span, "result count in %q: %v", tok.Text, err)
	}
	if args == vm.Exactly(0) && rets == vm.Exactly(1) {
		return vm.Get[V](name, tok.Span), nil
	}
	return vm.Call[V](name, args, rets, tok.Span), nil
}

func parseCount(s string) (vm.Count, error) {
	if s == "" {
		return vm.Unspecified, nil
	}
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return vm.Unspecified, err
	}
	i, err := safecast.Conv[int](n)
	if err != nil {
		return vm.Unspecified, err
	}
	return vm.Exactly(i), nil
}
