// Package config loads calc.toml.
//
//	[calc]
//	domain = "bool"        # bool | bigint
//	notation = "infix"     # infix | prefix | postfix
//	numeric_bool = false   # render booleans as 1/0
//	radix = 10             # bigint output radix
//
//	[trace]
//	level = "off"
//	output = "-"
//
//	[session]
//	file = ".calc_session"
//
// Command-line flags override values from the file.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"calc/internal/compiler"
	"calc/internal/trace"
)

const (
	DomainBool     = "bool"
	DomainBigint   = "bigint"
	DomainFloat    = "float"
	DomainFraction = "fraction"
)

var (
	ErrUnknownDomain = errors.New("unknown domain")
	ErrBadRadix      = errors.New("radix must be between 2 and 36")
	ErrUnknownKey    = errors.New("unknown key")
	ErrBadPrecision  = errors.New("precision must be between 0 and 17")
	ErrBadDecimals   = errors.New("decimals must not be negative")
)

type Calc struct {
	Domain      string `toml:"domain"`
	Notation    string `toml:"notation"`
	NumericBool bool   `toml:"numeric_bool"`
	Radix       int    `toml:"radix"`
	Precision   int    `toml:"precision"`
	Decimals    int    `toml:"decimals"`
}

type Trace struct {
	Level    string `toml:"level"`
	Output   string `toml:"output"`
	Format   string `toml:"format"`
	Mode     string `toml:"mode"`
	RingSize int    `toml:"ring_size"`
}

type Session struct {
	File string `toml:"file"`
}

// Config is the merged configuration.
type Config struct {
	Calc    Calc    `toml:"calc"`
	Trace   Trace   `toml:"trace"`
	Session Session `toml:"session"`

	// Path is the file the values came from, empty for defaults.
	Path string `toml:"-"`
}

// Default returns the configuration used without calc.toml.
func Default() Config {
	return Config{
		Calc:    Calc{Domain: DomainBool, Notation: "infix", Radix: 10},
		Trace:   Trace{Level: "off", Output: "-", Mode: "stream"},
		Session: Session{File: ".calc_session"},
	}
}

// Load reads path over the defaults. Keys the schema does not know are an
// error so typos do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}
	cfg.Path = path
	// относительный файл сессии считается от каталога calc.toml
	if cfg.Session.File != "" && !filepath.IsAbs(cfg.Session.File) {
		cfg.Session.File = filepath.Join(filepath.Dir(path), cfg.Session.File)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads the nearest calc.toml above startDir, or the defaults.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks enumerations and ranges.
func (c Config) Validate() error {
	switch c.Calc.Domain {
	case DomainBool, DomainBigint, DomainFloat, DomainFraction:
	default:
		return fmt.Errorf("%w: %q (expected: bool|bigint|float|fraction)", ErrUnknownDomain, c.Calc.Domain)
	}
	if _, err := compiler.ParseNotation(c.Calc.Notation); err != nil {
		return err
	}
	if c.Calc.Radix != 0 && (c.Calc.Radix < 2 || c.Calc.Radix > 36) {
		return fmt.Errorf("%w: %d", ErrBadRadix, c.Calc.Radix)
	}
	if c.Calc.Precision < 0 || c.Calc.Precision > 17 {
		return fmt.Errorf("%w: %d", ErrBadPrecision, c.Calc.Precision)
	}
	if c.Calc.Decimals < 0 {
		return fmt.Errorf("%w: %d", ErrBadDecimals, c.Calc.Decimals)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return err
	}
	if _, err := trace.ParseFormat(c.Trace.Format); err != nil {
		return err
	}
	if c.Trace.Mode != "" {
		if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
			return err
		}
	}
	return nil
}

// TraceConfig converts the [trace] section.
func (c Config) TraceConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.Config{}, err
	}
	format, err := trace.ParseFormat(c.Trace.Format)
	if err != nil {
		return trace.Config{}, err
	}
	mode := trace.ModeStream
	if c.Trace.Mode != "" {
		if mode, err = trace.ParseMode(c.Trace.Mode); err != nil {
			return trace.Config{}, err
		}
	}
	return trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: c.Trace.Output,
		RingSize:   c.Trace.RingSize,
	}, nil
}
