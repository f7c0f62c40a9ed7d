// Package diag defines the compile-time diagnostic model for calc expressions.
//
// The lexer and the compilers report findings through a Reporter; the usual sink is
// a BagReporter that collects them into a Bag. A compile that finished with errors
// returns the first error diagnostic wrapped as *Error, so callers can match it with
// errors.As or compare the Code via errors.Is against the Err* sentinels.
//
// Evaluation-time failures do not live here; see internal/vm.
package diag
