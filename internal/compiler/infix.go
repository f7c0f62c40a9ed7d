package compiler

import (
	"calc/internal/diag"
	"calc/internal/lexer"
	"calc/internal/ops"
	"calc/internal/source"
	"calc/internal/token"
	"calc/internal/vm"
)

type nodeKind uint8

const (
	nodeValue nodeKind = iota
	nodeSymbol
	nodeCall
	nodeGroup
	nodeUnary
	nodeBinary
)

// node is the infix expression tree; it exists only while compiling.
type node[V any] struct {
	kind     nodeKind
	leaf     vm.Op[V] // nodeValue
	name     string
	op       *ops.Operator[V]
	children []*node[V]
	open     bool // call or group still collecting children
	span     source.Span
}

// opEntry is an operator stack element: an operator, or an open bracket.
type opEntry[V any] struct {
	op      *ops.Operator[V]
	bracket string
	call    bool
	span    source.Span
}

type infixState[V any] struct {
	c     *compilation[V]
	nodes []*node[V]
	stack []opEntry[V]
}

// completes reports whether tok ends an operand, so the next operator is binary.
func completes(tok *token.Token) bool {
	return tok != nil && (tok.IsValue() || tok.IsSymbol() || tok.Kind == token.RightBracket)
}

// infix is a shunting-yard pass over toks. An operator is unary when it starts
// the expression or follows a token after which only unary operators fit.
func (c *compilation[V]) infix(toks []token.Token) ([]vm.Op[V], error) {
	s := &infixState[V]{c: c}
	var last *token.Token

	for i := range toks {
		tok := toks[i]
		var err error
		switch {
		case tok.IsValue():
			if completes(last) {
				return nil, c.unexpected(tok, "expected an operator")
			}
			var leaf vm.Op[V]
			if leaf, err = c.literal(tok); err == nil {
				s.nodes = append(s.nodes, &node[V]{kind: nodeValue, leaf: leaf, span: tok.Span})
			}
		case tok.Kind == token.SymbolWithArgs:
			err = c.errorf(diag.SynBadSymbolArgs, tok.Span, "explicit call counts %q are only valid in postfix notation", tok.Text)
		case tok.Kind == token.Symbol:
			if completes(last) {
				return nil, c.unexpected(tok, "expected an operator")
			}
			s.nodes = append(s.nodes, &node[V]{kind: nodeSymbol, name: tok.Text, span: tok.Span})
		case tok.Kind == token.LeftBracket:
			err = s.leftBracket(tok, last)
		case tok.Kind == token.RightBracket:
			err = s.rightBracket(tok, last)
		case tok.Kind == token.Separator:
			err = s.separator(tok, last)
		case tok.Kind == token.Operator:
			kind := ops.Binary
			if last == nil || last.IsNextOpUnary() {
				kind = ops.Unary
			}
			var op *ops.Operator[V]
			if op, err = c.operator(tok, kind); err == nil {
				err = s.pushOperator(op, tok.Span)
			}
		default:
			err = c.unexpected(tok, "not valid in infix notation")
		}
		if err != nil {
			return nil, err
		}
		last = &toks[i]
	}

	if !completes(last) {
		return nil, c.errorf(diag.SynInvalidExpression, last.Span, "expression ends with %s %q", last.Kind, last.Text)
	}
	for len(s.stack) > 0 {
		top := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		if top.op == nil {
			return nil, c.errorf(diag.SynUnmatchedBracket, top.span, "bracket %q is never closed", top.bracket)
		}
		if err := s.reduce(top); err != nil {
			return nil, err
		}
	}
	if len(s.nodes) != 1 {
		return nil, c.errorf(diag.SynInvalidExpression, source.Span{}, "expression yields %d operands, want 1", len(s.nodes))
	}
	var out []vm.Op[V]
	return s.flatten(s.nodes[0], out)
}

func (s *infixState[V]) leftBracket(tok token.Token, last *token.Token) error {
	if last != nil && last.Kind == token.Symbol {
		callee := s.nodes[len(s.nodes)-1]
		callee.kind = nodeCall
		callee.open = true
		s.stack = append(s.stack, opEntry[V]{bracket: tok.Text, call: true, span: tok.Span})
		return nil
	}
	if completes(last) {
		return s.c.unexpected(tok, "expected an operator")
	}
	s.nodes = append(s.nodes, &node[V]{kind: nodeGroup, open: true, span: tok.Span})
	s.stack = append(s.stack, opEntry[V]{bracket: tok.Text, span: tok.Span})
	return nil
}

func (s *infixState[V]) rightBracket(tok token.Token, last *token.Token) error {
	if last == nil {
		return s.c.errorf(diag.SynUnmatchedBracket, tok.Span, "closing %q without opening bracket", tok.Text)
	}
	empty := last.Kind == token.LeftBracket
	if !empty && !completes(last) {
		return s.c.unexpected(tok, "missing operand")
	}
	open, err := s.popUntilBracket(tok)
	if err != nil {
		return err
	}
	if lexer.ClosingFor(open.bracket) != tok.Text {
		return s.c.errorf(diag.SynUnmatchedBracket, tok.Span, "%q closed by %q", open.bracket, tok.Text)
	}
	if !empty {
		if err := s.appendChild(tok.Span); err != nil {
			return err
		}
	}
	target := s.nodes[len(s.nodes)-1]
	target.open = false
	target.span = target.span.Cover(tok.Span)
	if target.kind == nodeGroup && len(target.children) != 1 {
		return s.c.errorf(diag.SynInvalidExpression, target.span, "brackets must hold exactly one expression")
	}
	return nil
}

func (s *infixState[V]) separator(tok token.Token, last *token.Token) error {
	if !completes(last) {
		return s.c.unexpected(tok, "missing argument")
	}
	open, err := s.popUntilBracket(tok)
	if err != nil {
		return err
	}
	if !open.call {
		return s.c.unexpected(tok, "separator outside of call arguments")
	}
	if err := s.appendChild(tok.Span); err != nil {
		return err
	}
	s.stack = append(s.stack, open)
	return nil
}

// pushOperator pops every stacked operator that must bind before op.
func (s *infixState[V]) pushOperator(op *ops.Operator[V], sp source.Span) error {
	for len(s.stack) > 0 {
		top := s.stack[len(s.stack)-1]
		if top.op == nil || !op.LessThan(top.op) {
			break
		}
		s.stack = s.stack[:len(s.stack)-1]
		if err := s.reduce(top); err != nil {
			return err
		}
	}
	s.stack = append(s.stack, opEntry[V]{op: op, span: sp})
	return nil
}

func (s *infixState[V]) popUntilBracket(tok token.Token) (opEntry[V], error) {
	for len(s.stack) > 0 {
		top := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		if top.op == nil {
			return top, nil
		}
		if err := s.reduce(top); err != nil {
			return opEntry[V]{}, err
		}
	}
	if tok.Kind == token.Separator {
		return opEntry[V]{}, s.c.unexpected(tok, "separator outside of call arguments")
	}
	return opEntry[V]{}, s.c.errorf(diag.SynUnmatchedBracket, tok.Span, "closing %q without opening bracket", tok.Text)
}

func (s *infixState[V]) operand(sp source.Span) (*node[V], error) {
	if len(s.nodes) == 0 || s.nodes[len(s.nodes)-1].open {
		return nil, s.c.errorf(diag.SynInvalidExpression, sp, "missing operand")
	}
	n := s.nodes[len(s.nodes)-1]
	s.nodes = s.nodes[:len(s.nodes)-1]
	return n, nil
}

func (s *infixState[V]) reduce(e opEntry[V]) error {
	if e.op.Kind == ops.Unary {
		arg, err := s.operand(e.span)
		if err != nil {
			return err
		}
		s.nodes = append(s.nodes, &node[V]{kind: nodeUnary, op: e.op, children: []*node[V]{arg}, span: e.span.Cover(arg.span)})
		return nil
	}
	right, err := s.operand(e.span)
	if err != nil {
		return err
	}
	left, err := s.operand(e.span)
	if err != nil {
		return err
	}
	s.nodes = append(s.nodes, &node[V]{kind: nodeBinary, op: e.op, children: []*node[V]{left, right}, span: left.span.Cover(right.span)})
	return nil
}

// appendChild moves the finished top node into the open call or group below it.
func (s *infixState[V]) appendChild(sp source.Span) error {
	child, err := s.operand(sp)
	if err != nil {
		return err
	}
	if len(s.nodes) == 0 || !s.nodes[len(s.nodes)-1].open {
		return s.c.errorf(diag.SynInvalidExpression, sp, "argument outside of brackets")
	}
	target := s.nodes[len(s.nodes)-1]
	target.children = append(target.children, child)
	return nil
}

func (s *infixState[V]) flatten(n *node[V], out []vm.Op[V]) ([]vm.Op[V], error) {
	var err error
	for _, ch := range n.children {
		if out, err = s.flatten(ch, out); err != nil {
			return nil, err
		}
	}
	switch n.kind {
	case nodeValue:
		out = append(out, n.leaf)
	case nodeSymbol:
		out = append(out, vm.Get[V](n.name, n.span))
	case nodeCall:
		out = append(out, vm.Call[V](n.name, vm.Exactly(len(n.children)), vm.Exactly(1), n.span))
	case nodeGroup:
	case nodeUnary, nodeBinary:
		out = append(out, vm.Operator[V](n.op.Text, n.op, n.op.Kind.Operands(), n.span))
	}
	return out, nil
}
