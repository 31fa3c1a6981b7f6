// Package runner executes fixtures against the external interpreter and
// verifies their output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/AndreyAkinshin/asmcheck/internal/config"
	asmerrors "github.com/AndreyAkinshin/asmcheck/internal/errors"
	"github.com/AndreyAkinshin/asmcheck/internal/fixture"
	"github.com/AndreyAkinshin/asmcheck/internal/output"
)

const (
	// minWorkers ensures at least one worker so the semaphore never deadlocks,
	// even if runtime.NumCPU() reports 0.
	minWorkers = 1

	// waitDelay bounds how long a killed interpreter may keep its output pipes
	// open (e.g. a grandchild started by "cargo run").
	waitDelay = 2 * time.Second
)

// Options configures a run.
type Options struct {
	Command    []string // Interpreter invocation prefix, e.g. cargo -q run
	ExtraArgs  []string // Passed verbatim before the program path
	InputMode  config.InputMode
	InlineFlag string // Flag carrying inline input content
	FileFlag   string // Flag carrying the input file path
	Mode       config.Mode
	Jobs       int           // Worker-pool size; 0 means one per CPU
	Timeout    time.Duration // Per-fixture limit; 0 disables it
	Incomplete config.IncompletePolicy
	Dir        string // Working directory for the interpreter
	Verbose    bool   // Print a diff for mismatches
}

// OptionsFromConfig builds run options from a validated configuration.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	timeout, err := config.ParseTimeout(cfg.Timeout)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Command:    cfg.Runner,
		ExtraArgs:  cfg.ExtraArgs,
		InputMode:  config.InputMode(cfg.InputMode),
		InlineFlag: cfg.InlineInputFlag,
		FileFlag:   cfg.FileInputFlag,
		Mode:       config.Mode(cfg.Mode),
		Jobs:       cfg.Jobs,
		Timeout:    timeout,
		Incomplete: config.IncompletePolicy(cfg.Incomplete),
	}, nil
}

// ExecFunc runs argv in dir and returns its captured stdout and stderr.
type ExecFunc func(ctx context.Context, dir string, argv []string) (stdout, stderr string, err error)

// Runner executes fixtures and reports their outcome.
type Runner struct {
	opts Options
	out  *output.Writer
	exec ExecFunc
}

// New creates a new Runner that reports through w.
func New(opts Options, w *output.Writer) *Runner {
	return &Runner{
		opts: opts,
		out:  w,
		exec: execCommand,
	}
}

// WithExec replaces the process executor.
func (r *Runner) WithExec(fn ExecFunc) *Runner {
	r.exec = fn
	return r
}

// Args returns the full interpreter invocation for a fixture.
func (r *Runner) Args(f *fixture.Fixture) []string {
	args := make([]string, 0, len(r.opts.Command)+len(r.opts.ExtraArgs)+3)
	args = append(args, r.opts.Command...)
	args = append(args, r.opts.ExtraArgs...)
	args = append(args, f.ProgramPath)

	if f.HasInput() {
		if r.opts.InputMode == config.InputModeFile {
			args = append(args, r.opts.FileFlag, f.InputPath)
		} else {
			args = append(args, r.opts.InlineFlag, f.Input)
		}
	}
	return args
}

// RunAll executes every fixture in the set and reports the results in
// ascending ID order, whatever order the interpreters finish in.
//
// At most Options.Jobs interpreters run at once. In strict mode the first
// failure in ID order ends the run: the remaining fixtures are not reported,
// queued ones never start, and running ones are killed before RunAll returns.
func (r *Runner) RunAll(ctx context.Context, set *fixture.Set) Summary {
	start := time.Now()
	fixtures := set.Sorted()
	summary := Summary{Total: len(fixtures), incomplete: r.opts.Incomplete}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Bounded parallelism: a worker holds a semaphore slot while its
	// interpreter runs. Each fixture gets its own buffered result channel so
	// the reporter can await them in order without blocking workers.
	sem := make(chan struct{}, r.workers())
	results := make([]chan Result, len(fixtures))
	var wg sync.WaitGroup

	for i, f := range fixtures {
		ch := make(chan Result, 1)
		results[i] = ch

		wg.Add(1)
		go func(f *fixture.Fixture) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				ch <- Result{Fixture: f, Status: StatusNotRun, Err: ctx.Err()}
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			ch <- r.runOne(ctx, f)
		}(f)
	}

	for i, ch := range results {
		res := <-ch
		summary.add(res)
		r.report(res)

		if r.opts.Mode == config.ModeStrict && res.IsFailure(r.opts.Incomplete) {
			summary.Aborted = true
			summary.NotRun = len(results) - i - 1
			cancel()
			break
		}
	}

	// No interpreter outlives the run.
	wg.Wait()
	summary.Duration = time.Since(start)
	return summary
}

// runOne executes a single fixture: Pending → Running → {Passed, Failed, Error}.
// Incomplete fixtures are never run.
func (r *Runner) runOne(ctx context.Context, f *fixture.Fixture) Result {
	if !f.Complete() {
		return Result{
			Fixture: f,
			Status:  StatusIncomplete,
			Err:     asmerrors.Incomplete(f.ID, f.MissingDescription()),
		}
	}
	if err := ctx.Err(); err != nil {
		return Result{Fixture: f, Status: StatusNotRun, Err: err}
	}

	runCtx := ctx
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	stdout, stderr, err := r.exec(runCtx, r.opts.Dir, r.Args(f))
	res := Result{
		Fixture:  f,
		Stdout:   stdout,
		Stderr:   stderr,
		Duration: time.Since(start),
	}

	switch {
	case ctx.Err() != nil:
		// The run was aborted while this fixture was in flight.
		res.Status = StatusNotRun
		res.Err = ctx.Err()
		return res
	case runCtx.Err() != nil:
		res.Status = StatusError
		res.Err = asmerrors.Execution(f.ID, fmt.Errorf("timed out after %s", r.opts.Timeout))
		return res
	case err != nil && !isExitError(err):
		res.Status = StatusError
		res.Err = asmerrors.Execution(f.ID, err)
		return res
	}

	// The interpreter's exit status is not inspected; only stdout counts.
	if stdout == f.Expected {
		res.Status = StatusPassed
	} else {
		res.Status = StatusFailed
	}
	return res
}

// report prints one result. NotRun results are silent.
func (r *Runner) report(res Result) {
	f := res.Fixture
	rep := output.CaseReport{Program: f.DisplayName()}

	switch res.Status {
	case StatusPassed:
		rep.Status = output.StatusPassed
	case StatusFailed:
		rep.Status = output.StatusFailed
		rep.Expected = f.Expected
		rep.Actual = res.Stdout
		rep.Stderr = res.Stderr
		if r.opts.Verbose {
			rep.Diff = cmp.Diff(f.Expected, res.Stdout)
		}
	case StatusError:
		rep.Status = output.StatusError
		rep.Detail = errorDetail(res.Err)
		rep.Stderr = res.Stderr
	case StatusIncomplete:
		rep.Status = output.StatusIncomplete
		rep.Detail = f.MissingDescription()
	default:
		return
	}

	r.out.Case(rep)
}

// workers returns the worker-pool size.
func (r *Runner) workers() int {
	n := r.opts.Jobs
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return min(max(minWorkers, n), config.MaxJobs)
}

// errorDetail strips the fixture prefix, which the status line already shows.
func errorDetail(err error) string {
	var ae *asmerrors.AsmcheckError
	if errors.As(err, &ae) {
		detail := ae.Message
		if ae.Cause != nil {
			detail = fmt.Sprintf("%s: %v", detail, ae.Cause)
		}
		return detail
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

// execCommand runs argv with no stdin and captures stdout and stderr separately.
func execCommand(ctx context.Context, dir string, argv []string) (string, string, error) {
	if len(argv) == 0 {
		return "", "", fmt.Errorf("empty interpreter command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
