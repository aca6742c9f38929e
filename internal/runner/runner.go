package runner

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"time"
)

// Invocation is the uniform outcome of one external tool run.
//
// Design decision: We use a generic record rather than tool-specific
// results because the pipeline needs a single way to collect outcomes,
// and exit status plus captured text is all any of the wrapped tools
// expose. Tool-specific interpretation happens in the pipeline steps.
type Invocation struct {
	// Tool is the binary name that was invoked.
	Tool string

	// Available indicates whether the binary was found on PATH.
	// When false, no process was started and the other fields are zero.
	Available bool

	// ExitCode is the process exit status. Most analysis tools exit
	// non-zero when they have findings, so non-zero is not a failure.
	ExitCode int

	// Output is the combined stdout and stderr of the process.
	Output string

	// Duration is the wall-clock time of the invocation.
	Duration time.Duration
}

// Runner executes external tools in a fixed working directory.
// The working directory is the check target, matching how the analysis
// tools expect relative paths and per-project configuration files.
type Runner struct {
	// dir is the working directory for all invocations.
	dir string

	// lookPath resolves a binary name on PATH. Injected for tests.
	lookPath func(string) (string, error)

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets a custom logger for the runner.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithLookPath overrides binary resolution. Used by tests to simulate
// missing tools without manipulating PATH.
func WithLookPath(lookPath func(string) (string, error)) Option {
	return func(r *Runner) {
		r.lookPath = lookPath
	}
}

// New creates a Runner that executes tools with dir as working directory.
func New(dir string, opts ...Option) *Runner {
	r := &Runner{
		dir:      dir,
		lookPath: exec.LookPath,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Dir returns the working directory used for invocations.
func (r *Runner) Dir() string {
	return r.dir
}

// Available reports whether the named tool can be found on PATH.
func (r *Runner) Available(tool string) bool {
	_, err := r.lookPath(tool)
	return err == nil
}

// Run invokes the named tool with the given arguments and captures its
// combined output. A missing binary yields Available=false and a nil
// error; the caller decides how to present the skip. A non-zero exit
// status is recorded, not returned as an error.
//
// The returned error is reserved for invocation-level failures: the
// process could not be started, or the context was cancelled.
func (r *Runner) Run(ctx context.Context, tool string, args ...string) (*Invocation, error) {
	inv := &Invocation{Tool: tool}

	if _, err := r.lookPath(tool); err != nil {
		r.logger.Debug("tool not found on PATH", "tool", tool)
		return inv, nil
	}
	inv.Available = true

	r.logger.Debug("running tool", "tool", tool, "args", args, "dir", r.dir)

	start := time.Now()
	cmd := exec.CommandContext(ctx, tool, args...) //nolint:gosec // Tool names and args are fixed by the pipeline
	cmd.Dir = r.dir
	out, err := cmd.CombinedOutput()
	inv.Duration = time.Since(start)
	inv.Output = string(out)

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The tool ran and reported findings via its exit status.
			inv.ExitCode = exitErr.ExitCode()
			return inv, nil
		}
		if ctx.Err() != nil {
			return inv, ctx.Err()
		}
		return inv, err
	}

	return inv, nil
}
