// Package config holds the host-level settings of dkmode. A Config value is
// built once per process (defaults, then environment, then command-line
// flags) and passed explicitly to whatever needs it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dhamidi/dkmode/dedukti/eval"
	"github.com/dhamidi/dkmode/dedukti/indent"
)

const (
	EnvChecker      = "DKMODE_CHECKER"
	EnvCompileFlags = "DKMODE_COMPILE_FLAGS"
	EnvCheckFlags   = "DKMODE_CHECK_FLAGS"
	EnvIndent       = "DKMODE_INDENT"
	EnvDirective    = "DKMODE_DIRECTIVE"
	EnvTimeout      = "DKMODE_TIMEOUT"
)

const (
	DefaultChecker = "dkcheck"
	DefaultTimeout = 30 * time.Second
)

type Config struct {
	// Checker is the external type checker executable.
	Checker string
	// CompileFlags are passed when compiling a file to an object file.
	CompileFlags []string
	// CheckFlags are passed when type-checking or evaluating.
	CheckFlags  []string
	BasicIndent int
	// Directive is a built-in directive name or a custom template.
	Directive string
	// Timeout bounds one checker run. Zero means no limit.
	Timeout time.Duration
}

func Default() Config {
	return Config{
		Checker:      DefaultChecker,
		CompileFlags: []string{"-e"},
		BasicIndent:  indent.DefaultBasic,
		Directive:    eval.DefaultDirective.Name,
		Timeout:      DefaultTimeout,
	}
}

// FromEnv returns the defaults overridden by any DKMODE_* variables that are
// set. Only malformed values are reported; callers Validate once their own
// overrides are applied.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if v, ok := lookup(EnvChecker); ok && v != "" {
		cfg.Checker = v
	}
	if v, ok := lookup(EnvCompileFlags); ok {
		cfg.CompileFlags = strings.Fields(v)
	}
	if v, ok := lookup(EnvCheckFlags); ok {
		cfg.CheckFlags = strings.Fields(v)
	}
	if v, ok := lookup(EnvIndent); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvIndent, err)
		}
		cfg.BasicIndent = n
	}
	if v, ok := lookup(EnvDirective); ok && v != "" {
		cfg.Directive = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Checker == "" {
		errs = append(errs, errors.New("checker path is empty"))
	}
	if c.BasicIndent <= 0 {
		errs = append(errs, fmt.Errorf("basic indent must be positive, got %d", c.BasicIndent))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", c.Timeout))
	}
	if _, err := eval.ParseDirective(c.Directive); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ReductionDirective resolves the configured directive.
func (c Config) ReductionDirective() (eval.Directive, error) {
	return eval.ParseDirective(c.Directive)
}
