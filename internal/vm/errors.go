package vm

import (
	"fmt"

	"calc/internal/source"
)

// ErrorCode classifies recoverable evaluation errors.
type ErrorCode uint8

const (
	CodeUnknown ErrorCode = iota
	CodeUnknownSymbol
	CodeArityMismatch
	CodeAssignmentRejected
	CodeDomain
	CodeUserFailure
	CodeDepthLimit
)

func (c ErrorCode) String() string {
	switch c {
	case CodeUnknownSymbol:
		return "unknown symbol"
	case CodeArityMismatch:
		return "arity mismatch"
	case CodeAssignmentRejected:
		return "assignment rejected"
	case CodeDomain:
		return "domain error"
	case CodeUserFailure:
		return "failure"
	case CodeDepthLimit:
		return "call depth limit"
	default:
		return "evaluation error"
	}
}

// Error is a recoverable evaluation error. It aborts the current evaluation and
// leaves shared scopes and dictionaries intact.
type Error struct {
	Code   ErrorCode
	Symbol string // callable or name involved, may be empty
	Msg    string
	Err    error       // underlying cause
	Span   source.Span // op that failed; filled in by Program.Execute
}

// Sentinels for errors.Is; only the code is compared.
var (
	ErrUnknownSymbol      = &Error{Code: CodeUnknownSymbol}
	ErrArityMismatch      = &Error{Code: CodeArityMismatch}
	ErrAssignmentRejected = &Error{Code: CodeAssignmentRejected}
	ErrDomain             = &Error{Code: CodeDomain}
	ErrUserFailure        = &Error{Code: CodeUserFailure}
	ErrDepthLimit         = &Error{Code: CodeDepthLimit}
)

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	switch {
	case e.Symbol != "" && msg != "":
		return fmt.Sprintf("%s: %q: %s", e.Code, e.Symbol, msg)
	case e.Symbol != "":
		return fmt.Sprintf("%s: %q", e.Code, e.Symbol)
	case msg != "":
		return fmt.Sprintf("%s: %s", e.Code, msg)
	default:
		return e.Code.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Errorf builds an Error of the given code. Callables use it for domain failures
// such as division by zero.
func Errorf(code ErrorCode, symbol, format string, args ...any) *Error {
	return &Error{Code: code, Symbol: symbol, Msg: fmt.Sprintf(format, args...)}
}

func unknownSymbol(name string) *Error {
	return &Error{Code: CodeUnknownSymbol, Symbol: name}
}

func arityMismatch(name, side string, declared Arity, requested Count) *Error {
	return Errorf(CodeArityMismatch, name, "%s: declared %s, requested %s", side, declared, requested)
}
