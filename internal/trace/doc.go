// Package trace provides a tracing subsystem for the calc interpreter.
//
// The trace package records compile and evaluation spans so slow or failing
// expressions can be inspected after the fact.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	calc eval --trace=- --trace-level=detail '1 & 0 | 1'
//
// # Architecture
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer, dumped on failure
//   - MultiTracer: combines multiple tracers
//
// # Scopes
//
//   - ScopeDriver: CLI commands, batch evaluation
//   - ScopeCompile: one compilation
//   - ScopeEval: one program evaluation
//   - ScopeCall: user function calls (debug level only)
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeCompile, "compile", parentID)
//	defer span.End("")
package trace
