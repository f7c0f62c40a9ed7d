package symbols

import (
	"errors"
	"fmt"
)

var (
	// ErrAssignmentRejected is returned for any write to a protected scope.
	ErrAssignmentRejected = errors.New("assignment rejected")
	// ErrDuplicateRegistration is returned by Declare for a name already bound locally.
	ErrDuplicateRegistration = errors.New("duplicate registration")
)

// AccessError describes a rejected write.
type AccessError struct {
	Op   string // put, declare, remove
	Name string
	Kind ScopeKind
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("%s %q: %s scope is read-only", e.Op, e.Name, e.Kind)
}

func (e *AccessError) Unwrap() error { return ErrAssignmentRejected }
