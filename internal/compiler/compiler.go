// Package compiler turns expression text into vm programs. Three notations share
// one lexer and one literal/operator environment; compilation either yields a
// complete program or a *diag.Error, never a partial program.
package compiler

import (
	"errors"
	"fmt"
	"strings"

	"calc/internal/diag"
	"calc/internal/domain"
	"calc/internal/lexer"
	"calc/internal/ops"
	"calc/internal/source"
	"calc/internal/token"
	"calc/internal/vm"
)

// MaxDiagnostics bounds the diagnostics collected per compilation.
const MaxDiagnostics = 32

type Notation uint8

const (
	Infix Notation = iota
	Prefix
	Postfix
)

func (n Notation) String() string {
	switch n {
	case Infix:
		return "infix"
	case Prefix:
		return "prefix"
	case Postfix:
		return "postfix"
	default:
		return fmt.Sprintf("Notation(%d)", uint8(n))
	}
}

// ParseNotation accepts the names printed by String, case-insensitively.
func ParseNotation(s string) (Notation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "infix":
		return Infix, nil
	case "prefix":
		return Prefix, nil
	case "postfix", "rpn":
		return Postfix, nil
	}
	return Infix, fmt.Errorf("unknown notation %q (want infix, prefix or postfix)", s)
}

// Env is what compilation needs from a domain.
type Env[V any] struct {
	Domain    domain.Domain[V]
	Operators *ops.Dictionary[V]
}

// errStop unwinds a compilation after its diagnostic was reported.
var errStop = errors.New("compilation stopped")

type compilation[V any] struct {
	env  Env[V]
	expr *source.Expr
	bag  *diag.Bag
}

// Compile parses src in the given notation. The operator dictionary is sealed
// on first use.
func Compile[V any](src string, n Notation, env Env[V]) (*vm.Program[V], error) {
	if env.Domain == nil || env.Operators == nil {
		panic("compiler: env requires a domain and an operator dictionary")
	}
	env.Operators.Seal()

	c := &compilation[V]{env: env, expr: source.NewExpr(src), bag: diag.NewBag(MaxDiagnostics)}
	toks := lexer.Tokenize(c.expr, lexer.Options{
		Reporter:  diag.BagReporter{Bag: c.bag},
		Operators: env.Operators.AllTexts(),
		Modifiers: []string{AssignModifier},
	})
	if err := c.bag.Err(); err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		c.errorf(diag.SynEmptyExpression, source.Span{}, "nothing to compile")
		return nil, c.bag.Err()
	}

	var (
		out []vm.Op[V]
		err error
	)
	switch n {
	case Infix:
		out, err = c.infix(toks)
	case Prefix:
		out, err = c.prefix(toks)
	case Postfix:
		out, err = c.postfix(toks)
	default:
		panic(fmt.Sprintf("compiler: unknown notation %d", n))
	}
	if err != nil {
		if bagErr := c.bag.Err(); bagErr != nil {
			return nil, bagErr
		}
		return nil, err
	}
	return vm.NewProgram(c.expr.Text, out), nil
}

func (c *compilation[V]) errorf(code diag.Code, sp source.Span, format string, args ...any) error {
	diag.ReportError(diag.BagReporter{Bag: c.bag}, code, sp, fmt.Sprintf(format, args...))
	return errStop
}

func (c *compilation[V]) unexpected(tok token.Token, what string) error {
	return c.errorf(diag.SynUnexpectedToken, tok.Span, "unexpected %s %q: %s", tok.Kind, tok.Text, what)
}

func (c *compilation[V]) literal(tok token.Token) (vm.Op[V], error) {
	v, err := c.env.Domain.ParseLiteral(tok)
	if err != nil {
		return vm.Op[V]{}, c.errorf(diag.LitMalformed, tok.Span, "%v", err)
	}
	return vm.PushValue(v, tok.Span), nil
}

func (c *compilation[V]) operator(tok token.Token, kind ops.Kind) (*ops.Operator[V], error) {
	op, ok := c.env.Operators.Lookup(kind, tok.Text)
	if !ok {
		return nil, c.errorf(diag.SynUnknownOperator, tok.Span, "no %s operator %q", kind, tok.Text)
	}
	return op, nil
}
