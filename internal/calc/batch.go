package calc

import (
	"context"
	"runtime"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"calc/internal/symbols"
	"calc/internal/trace"
	"calc/internal/vm"
)

// BatchResult is the outcome of one source in EvalBatch.
type BatchResult[V any] struct {
	Source string
	Values []V
	Err    error
}

// EvalBatch evaluates every source concurrently, each in its own frame over a
// nested scope of a protected view of scope, so evaluations cannot see each
// other. Results keep input order. Per-source failures are reported in the
// results; only ctx cancellation makes EvalBatch itself fail.
//
// A fault in any evaluation is re-raised on the calling goroutine after all
// workers stop.
func (c *Calculator[V]) EvalBatch(ctx context.Context, scope *symbols.Scope[vm.Binding[V]], sources []string, jobs int) ([]BatchResult[V], error) {
	if scope == nil {
		scope = c.globals
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	ctx = trace.WithTracer(ctx, c.opts.Tracer)
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "batch")
	span.WithExtra("sources", strconv.Itoa(len(sources)))
	defer span.End("")

	view := c.NewProtectedScope(scope)
	results := make([]BatchResult[V], len(sources))

	var (
		faultOnce sync.Once
		fault     any
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(sources))))

	for i, src := range sources {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			defer func() {
				if r := recover(); r != nil {
					faultOnce.Do(func() { fault = r })
				}
			}()

			// индекс i уникален, мьютекс не нужен
			results[i].Source = src
			prog, err := c.compile(gctx, src, c.opts.Notation)
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Values, results[i].Err = c.evaluate(gctx, prog, c.NewNestedScope(view))
			return nil
		})
	}

	err := g.Wait()
	if fault != nil {
		panic(fault)
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}
