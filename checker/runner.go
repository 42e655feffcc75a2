// Package checker runs the external Dedukti type checker and interprets its
// textual output. The checker is an untrusted process that may not
// terminate, so every run is bounded by a timeout.
package checker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhamidi/dkmode/config"
	"github.com/tliron/commonlog"
)

var ErrTimeout = errors.New("checker timed out")

// UnitFile is the file name an evaluation unit is written to.
const UnitFile = "dkmode_eval.dk"

var log = commonlog.GetLogger("dkmode.checker")

type Runner struct {
	Path         string
	CompileFlags []string
	CheckFlags   []string
	Timeout      time.Duration
}

func NewRunner(cfg config.Config) *Runner {
	return &Runner{
		Path:         cfg.Checker,
		CompileFlags: cfg.CompileFlags,
		CheckFlags:   cfg.CheckFlags,
		Timeout:      cfg.Timeout,
	}
}

// Result is the outcome of a run that started. A non-zero exit code is not
// an error: it is how the checker reports ill-typed input.
type Result struct {
	Output      string
	ExitCode    int
	Diagnostics []Diagnostic
}

func (r Result) OK() bool {
	return r.ExitCode == 0 && len(r.errors()) == 0
}

func (r Result) errors() []Diagnostic {
	var errs []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			errs = append(errs, d)
		}
	}
	return errs
}

// Check type-checks file.
func (r *Runner) Check(ctx context.Context, file string) (Result, error) {
	return r.run(ctx, "", append(r.args(r.CheckFlags, file), file))
}

// Compile type-checks file and writes its object file next to it.
func (r *Runner) Compile(ctx context.Context, file string) (Result, error) {
	return r.run(ctx, "", append(r.args(r.CompileFlags, file), file))
}

// Evaluate writes unit to a scratch file and checks it, returning the output
// with de Bruijn indices removed. includeDir is searched for the modules the
// unit refers to; it is usually the directory of the edited file.
func (r *Runner) Evaluate(ctx context.Context, unit string, includeDir string) (Result, error) {
	dir, err := os.MkdirTemp("", "dkmode-")
	if err != nil {
		return Result{}, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, UnitFile)
	if err := os.WriteFile(file, []byte(unit), 0644); err != nil {
		return Result{}, fmt.Errorf("write unit: %w", err)
	}

	args := append([]string(nil), r.CheckFlags...)
	if includeDir != "" {
		args = append(args, "-I", includeDir)
	}
	args = append(args, file)

	res, err := r.run(ctx, dir, args)
	res.Output = StripDeBruijn(res.Output)
	return res, err
}

func (r *Runner) args(flags []string, file string) []string {
	args := append([]string(nil), flags...)
	if dir := filepath.Dir(file); dir != "." {
		args = append(args, "-I", dir)
	}
	return args
}

func (r *Runner) run(ctx context.Context, dir string, args []string) (Result, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	log.Infof("running %s %s", r.Path, strings.Join(args, " "))
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Path, args...)
	cmd.Dir = dir
	cmd.Stdout = &out
	cmd.Stderr = &out
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	res := Result{Output: out.String()}
	res.Diagnostics = ParseDiagnostics(res.Output)

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		log.Warningf("%s did not finish within %s", r.Path, r.Timeout)
		return res, fmt.Errorf("%s after %s: %w", r.Path, r.Timeout, ErrTimeout)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		log.Debugf("%s exited with %d, %d diagnostics", r.Path, res.ExitCode, len(res.Diagnostics))
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("run %s: %w", r.Path, err)
	}
	return res, nil
}
