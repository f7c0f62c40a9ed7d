package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"calc/internal/config"
)

// loadSettings merges calc.toml with the flags the user actually set.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	pf := cmd.Root().PersistentFlags()

	path, err := pf.GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return config.Config{}, wdErr
		}
		cfg, err = config.Discover(wd)
	}
	if err != nil {
		return config.Config{}, err
	}

	overrides := []struct {
		flag string
		str  *string
		num  *int
		bln  *bool
	}{
		{flag: "domain", str: &cfg.Calc.Domain},
		{flag: "notation", str: &cfg.Calc.Notation},
		{flag: "numeric-bool", bln: &cfg.Calc.NumericBool},
		{flag: "radix", num: &cfg.Calc.Radix},
		{flag: "precision", num: &cfg.Calc.Precision},
		{flag: "decimals", num: &cfg.Calc.Decimals},
		{flag: "trace", str: &cfg.Trace.Output},
		{flag: "trace-level", str: &cfg.Trace.Level},
		{flag: "trace-mode", str: &cfg.Trace.Mode},
		{flag: "trace-format", str: &cfg.Trace.Format},
		{flag: "trace-ring-size", num: &cfg.Trace.RingSize},
	}
	for _, o := range overrides {
		if !pf.Changed(o.flag) {
			continue
		}
		switch {
		case o.str != nil:
			*o.str, err = pf.GetString(o.flag)
		case o.num != nil:
			*o.num, err = pf.GetInt(o.flag)
		case o.bln != nil:
			*o.bln, err = pf.GetBool(o.flag)
		}
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to get %s flag: %w", o.flag, err)
		}
	}
	// --trace без уровня включает detail
	if pf.Changed("trace") && !pf.Changed("trace-level") && cfg.Trace.Level == "off" {
		cfg.Trace.Level = "detail"
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
