package vm

import (
	"fmt"
	"strconv"
)

// Count is an optional non-negative argument or result count. The zero value
// is Unspecified.
type Count struct {
	n       int
	present bool
}

// Unspecified is the absent count: "the callee decides".
var Unspecified = Count{}

// Exactly returns a present count. Negative n is a caller bug.
func Exactly(n int) Count {
	if n < 0 {
		panic(fmt.Sprintf("vm: negative count %d", n))
	}
	return Count{n: n, present: true}
}

func (c Count) Present() bool { return c.present }

// Get returns the count and whether it is present.
func (c Count) Get() (int, bool) { return c.n, c.present }

// Or returns the count, or def when unspecified.
func (c Count) Or(def int) int {
	if c.present {
		return c.n
	}
	return def
}

func (c Count) String() string {
	if !c.present {
		return "?"
	}
	return strconv.Itoa(c.n)
}

// Arity is what a callable declares for one side of its contract: an exact count,
// or Any when the callable interprets the request itself (variadic forms).
type Arity struct {
	n     int
	exact bool
}

func Exact(n int) Arity {
	if n < 0 {
		panic(fmt.Sprintf("vm: negative arity %d", n))
	}
	return Arity{n: n, exact: true}
}

func Any() Arity { return Arity{} }

// Fixed returns the exact count, if declared.
func (a Arity) Fixed() (int, bool) { return a.n, a.exact }

func (a Arity) String() string {
	if !a.exact {
		return "*"
	}
	return strconv.Itoa(a.n)
}

// Negotiate reconciles a requested count with the declaration:
//   - exact callee, unspecified request: the callee's count;
//   - exact callee, equal request: accepted;
//   - exact callee, different request: rejected;
//   - Any callee: the request is passed through unchanged, specified or not.
func (a Arity) Negotiate(req Count) (Count, bool) {
	if !a.exact {
		return req, true
	}
	if !req.present {
		return Exactly(a.n), true
	}
	return req, req.n == a.n
}
