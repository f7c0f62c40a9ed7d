package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"calc/internal/config"
	"calc/internal/trace"
)

// setupTracing builds the tracer from the merged configuration and attaches
// it to the command context. The returned cleanup dumps the ring buffer when
// failed is set and the tracer keeps one.
func setupTracing(cmd *cobra.Command, cfg config.Config) (trace.Tracer, func(failed bool), error) {
	tcfg, err := cfg.TraceConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace configuration: %w", err)
	}
	if tcfg.Level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmdContext(cmd), trace.Nop))
		return trace.Nop, func(bool) {}, nil
	}

	tracer, err := trace.New(tcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmdContext(cmd), tracer))

	cleanup := func(failed bool) {
		if ring, ok := trace.RingOf(tracer); ok && failed && tcfg.Mode != trace.ModeBoth {
			fmt.Fprintln(cmd.ErrOrStderr(), "trace: last events before failure")
			if err := ring.Dump(cmd.ErrOrStderr(), tcfg.Format); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return tracer, cleanup, nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
