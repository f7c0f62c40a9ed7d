package diag

import (
	"fmt"
)

// Error is a compile-time failure carrying the diagnostic that caused it.
type Error struct {
	Diagnostic Diagnostic
	Total      int // number of error diagnostics in the bag
}

// Sentinels for errors.Is; only the Code is compared.
var (
	ErrMalformedLiteral  = &Error{Diagnostic: Diagnostic{Code: LitMalformed}}
	ErrUnexpectedToken   = &Error{Diagnostic: Diagnostic{Code: SynUnexpectedToken}}
	ErrUnmatchedBracket  = &Error{Diagnostic: Diagnostic{Code: SynUnmatchedBracket}}
	ErrUnknownOperator   = &Error{Diagnostic: Diagnostic{Code: SynUnknownOperator}}
	ErrInvalidExpression = &Error{Diagnostic: Diagnostic{Code: SynInvalidExpression}}
	ErrBadSymbolArgs     = &Error{Diagnostic: Diagnostic{Code: SynBadSymbolArgs}}
	ErrEmptyExpression   = &Error{Diagnostic: Diagnostic{Code: SynEmptyExpression}}
	ErrBadNumber         = &Error{Diagnostic: Diagnostic{Code: LexBadNumber}}
	ErrUnknownChar       = &Error{Diagnostic: Diagnostic{Code: LexUnknownChar}}
)

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s at %s: %s", e.Diagnostic.Code.ID(), e.Diagnostic.Primary, e.Diagnostic.Message)
	if e.Total > 1 {
		msg += fmt.Sprintf(" (and %d more)", e.Total-1)
	}
	return msg
}

func (e *Error) Code() Code { return e.Diagnostic.Code }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Diagnostic.Code == e.Diagnostic.Code
}
