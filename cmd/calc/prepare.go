package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"calc/internal/calc"
	"calc/internal/config"
	"calc/internal/observ"
)

// runEnv is what every evaluating command sets up first.
type runEnv struct {
	cfg    config.Config
	eng    engine
	timer  *observ.Timer
	finish func(failed bool)
}

type prepareOpts struct {
	repr      bool
	execTrace io.Writer
}

func prepare(cmd *cobra.Command, po prepareOpts) (*runEnv, error) {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	stopProf, err := setupProfiling(cmd)
	if err != nil {
		return nil, err
	}
	tracer, stopTrace, err := setupTracing(cmd, cfg)
	if err != nil {
		stopProf()
		return nil, err
	}
	cleanup := func(failed bool) {
		stopTrace(failed)
		stopProf()
	}

	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		cleanup(false)
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	var timer *observ.Timer
	if timings {
		timer = observ.NewTimer()
	}

	mode := calc.ModeStr
	if po.repr {
		mode = calc.ModeRepr
	}
	var eng engine
	err = timer.Measure("setup", func() (err error) {
		eng, err = newEngine(cfg, calc.Options{Tracer: tracer, ExecTrace: po.execTrace, Timer: timer}, mode)
		return err
	})
	if err != nil {
		cleanup(false)
		return nil, err
	}

	env := &runEnv{cfg: cfg, eng: eng, timer: timer}
	env.finish = func(failed bool) {
		cleanup(failed)
		if timer != nil {
			fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
		}
	}
	return env, nil
}
