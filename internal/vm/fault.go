package vm

import (
	"errors"
	"fmt"
)

// FaultCode identifies a fatal defect.
type FaultCode int

// Stable fault codes - do not change values.
const (
	FaultStackUnderflow    FaultCode = 1001 // VM1001: pop from an empty stack
	FaultStackOverflow     FaultCode = 1002 // VM1002: push beyond a bounded substack
	FaultPostCondition     FaultCode = 1003 // VM1003: stack left inconsistent with declared results
	FaultContractViolation FaultCode = 1004 // VM1004: callable broke its own declaration
	FaultBadProgram        FaultCode = 1005 // VM1005: malformed op in a program
)

// String returns the code as "VM1001" format.
func (c FaultCode) String() string {
	return fmt.Sprintf("VM%d", c)
}

// Fault is a fatal defect in a callable or in the evaluator itself. It is raised
// with panic and is never converted into an Error by this package.
type Fault struct {
	Code    FaultCode
	Message string
	Symbol  string
	Depth   int
}

func (f *Fault) Error() string {
	if f.Symbol != "" {
		return fmt.Sprintf("fault %s: %s (in %q, depth %d)", f.Code, f.Message, f.Symbol, f.Depth)
	}
	return fmt.Sprintf("fault %s: %s", f.Code, f.Message)
}

func fault(code FaultCode, format string, args ...any) {
	panic(&Fault{Code: code, Message: fmt.Sprintf(format, args...)})
}

// AsFault extracts a Fault from a recovered panic value. Hosts that must stay up
// (a REPL) use it after recover; everything else lets the panic propagate.
func AsFault(r any) (*Fault, bool) {
	switch v := r.(type) {
	case *Fault:
		return v, true
	case error:
		var f *Fault
		if errors.As(v, &f) {
			return f, true
		}
	}
	return nil, false
}
