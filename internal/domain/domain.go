// Package domain defines the value-domain contract: literal parsing, the two
// renderings, the neutral value, and the built-ins a domain contributes.
package domain

import (
	"errors"
	"fmt"

	"calc/internal/ops"
	"calc/internal/symbols"
	"calc/internal/token"
	"calc/internal/vm"
)

// Domain isolates everything that differs between value universes.
type Domain[V any] interface {
	Name() string
	// ParseLiteral converts a value token. Text outside the domain's grammar
	// yields an error wrapping ErrMalformedLiteral. A non-value token is a
	// caller bug and panics.
	ParseLiteral(tok token.Token) (V, error)
	// Str is the human rendering; it may depend on domain options.
	Str(v V) string
	// Repr is the canonical rendering and never depends on options.
	Repr(v V) string
	// Null is the neutral value for declared but unassigned bindings.
	Null() V
	// Operators registers the domain's operators. Duplicates fail.
	Operators(d *ops.Dictionary[V]) error
	// Globals installs constants and functions into a fresh global scope.
	Globals(s *symbols.Scope[vm.Binding[V]]) error
}

var ErrMalformedLiteral = errors.New("malformed literal")

// LiteralError explains why a token was rejected.
type LiteralError struct {
	Domain string
	Token  token.Token
	Reason string
}

func (e *LiteralError) Error() string {
	return fmt.Sprintf("%s: %s literal %q: %s", e.Domain, e.Token.Kind, e.Token.Text, e.Reason)
}

func (e *LiteralError) Unwrap() error { return ErrMalformedLiteral }

// Malformed builds a LiteralError.
func Malformed(domain string, tok token.Token, format string, args ...any) error {
	return &LiteralError{Domain: domain, Token: tok, Reason: fmt.Sprintf(format, args...)}
}

// RequireValue enforces the ParseLiteral precondition.
func RequireValue(domain string, tok token.Token) {
	if !tok.IsValue() {
		panic(fmt.Sprintf("%s: ParseLiteral called with non-value token %s", domain, tok))
	}
}

// Declaration is a named global a domain installs.
type Declaration[V any] struct {
	Name    string
	Binding vm.Binding[V]
}

// Install declares every binding, failing on the first clash.
func Install[V any](s *symbols.Scope[vm.Binding[V]], decls ...Declaration[V]) error {
	for _, d := range decls {
		if err := s.Declare(d.Name, d.Binding); err != nil {
			return err
		}
	}
	return nil
}

// Accumulator folds its arguments left to right, two by default. No arguments
// yield null(); finish, when set, sees the fold and the argument count.
func Accumulator[V any](name string, null func() V, step func(acc, v V) V, finish func(acc V, n int) V) Declaration[V] {
	fn := vm.Variadic[V]{Name: name, DefaultArgs: 2, Body: func(args []V) (V, error) {
		if len(args) == 0 {
			return null(), nil
		}
		acc := args[0]
		for _, v := range args[1:] {
			acc = step(acc, v)
		}
		if finish != nil {
			acc = finish(acc, len(args))
		}
		return acc, nil
	}}
	return Declaration[V]{Name: name, Binding: vm.Func[V](fn)}
}
