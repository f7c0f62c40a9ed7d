package main

import (
	"context"
	"fmt"
	"math/big"
	"slices"

	"calc/internal/calc"
	"calc/internal/compiler"
	"calc/internal/config"
	"calc/internal/domain/bigint"
	"calc/internal/domain/boolean"
	"calc/internal/domain/float"
	"calc/internal/domain/fraction"
	"calc/internal/session"
	"calc/internal/symbols"
	"calc/internal/vm"
)

// engine hides the value type from the commands.
type engine interface {
	Domain() string
	Notation() compiler.Notation
	SetNotation(n compiler.Notation)
	Operators() []string
	Names() []string

	// Eval runs one line in the session scope and renders its results.
	Eval(src string) ([]string, error)
	Batch(ctx context.Context, srcs []string, jobs int) ([]batchLine, error)
	Assign(name, src string) (string, error)
	Define(name string, params []string, body string) error
	Declare(name string) error
	Disassemble(src string) (string, error)
	Replay(p *session.Payload) error
}

type batchLine struct {
	Source string
	Values []string
	Err    error
}

type calcEngine[V any] struct {
	c     *calc.Calculator[V]
	scope *symbols.Scope[vm.Binding[V]]
	mode  calc.Mode
}

func newCalcEngine[V any](c *calc.Calculator[V], mode calc.Mode) *calcEngine[V] {
	// определения сессии живут над глобальной областью и не трогают её
	return &calcEngine[V]{c: c, scope: c.NewNestedScope(c.Globals()), mode: mode}
}

// newEngine builds the calculator for cfg.Calc.
func newEngine(cfg config.Config, opts calc.Options, mode calc.Mode) (engine, error) {
	n, err := compiler.ParseNotation(cfg.Calc.Notation)
	if err != nil {
		return nil, err
	}
	opts.Notation = n

	switch cfg.Calc.Domain {
	case config.DomainBool:
		c, err := calc.New[bool](boolean.New(boolean.Options{NumericBool: cfg.Calc.NumericBool}), opts)
		if err != nil {
			return nil, err
		}
		return newCalcEngine(c, mode), nil
	case config.DomainBigint:
		d, err := bigint.New(bigint.Options{Radix: cfg.Calc.Radix})
		if err != nil {
			return nil, err
		}
		c, err := calc.New[*big.Int](d, opts)
		if err != nil {
			return nil, err
		}
		return newCalcEngine(c, mode), nil
	case config.DomainFloat:
		d, err := float.New(float.Options{Precision: cfg.Calc.Precision})
		if err != nil {
			return nil, err
		}
		c, err := calc.New[float64](d, opts)
		if err != nil {
			return nil, err
		}
		return newCalcEngine(c, mode), nil
	case config.DomainFraction:
		d, err := fraction.New(fraction.Options{Decimals: cfg.Calc.Decimals})
		if err != nil {
			return nil, err
		}
		c, err := calc.New[*big.Rat](d, opts)
		if err != nil {
			return nil, err
		}
		return newCalcEngine(c, mode), nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrUnknownDomain, cfg.Calc.Domain)
}

func (e *calcEngine[V]) Domain() string                  { return e.c.Domain().Name() }
func (e *calcEngine[V]) Notation() compiler.Notation     { return e.c.Notation() }
func (e *calcEngine[V]) SetNotation(n compiler.Notation) { e.c = e.c.WithNotation(n) }
func (e *calcEngine[V]) Operators() []string             { return e.c.Operators().AllTexts() }

// Names lists session bindings first, then globals not shadowed by them.
func (e *calcEngine[V]) Names() []string {
	local := e.scope.Names()
	out := slices.Clone(local)
	for _, g := range e.c.Globals().Names() {
		if !slices.Contains(local, g) {
			out = append(out, g)
		}
	}
	return out
}

func (e *calcEngine[V]) Eval(src string) ([]string, error) {
	vals, err := e.c.EvalLine(e.scope, src)
	if err != nil {
		return nil, err
	}
	return e.c.RenderAll(vals, e.mode), nil
}

func (e *calcEngine[V]) Batch(ctx context.Context, srcs []string, jobs int) ([]batchLine, error) {
	res, err := e.c.EvalBatch(ctx, e.scope, srcs, jobs)
	if err != nil {
		return nil, err
	}
	out := make([]batchLine, len(res))
	for i, r := range res {
		out[i] = batchLine{Source: r.Source, Err: r.Err}
		if r.Err == nil {
			out[i].Values = e.c.RenderAll(r.Values, e.mode)
		}
	}
	return out, nil
}

func (e *calcEngine[V]) Assign(name, src string) (string, error) {
	v, err := e.c.Assign(e.scope, name, src)
	if err != nil {
		return "", err
	}
	return e.c.Render(v, e.mode), nil
}

func (e *calcEngine[V]) Define(name string, params []string, body string) error {
	return e.c.DefineFunction(e.scope, name, params, body)
}

func (e *calcEngine[V]) Declare(name string) error {
	return e.c.Declare(e.scope, name)
}

func (e *calcEngine[V]) Disassemble(src string) (string, error) {
	prog, err := e.c.Compile(src)
	if err != nil {
		return "", err
	}
	return prog.Format(e.c.Domain().Repr), nil
}

func (e *calcEngine[V]) Replay(p *session.Payload) error {
	return session.Replay(e.c, e.scope, p)
}
