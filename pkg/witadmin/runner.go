// Package witadmin invokes the witadmin administrative tool to move global lists
// between a team project collection and a local XML file.
package witadmin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single witadmin invocation.
const DefaultTimeout = 2 * time.Minute

// Result is the captured outcome of one process run.
type Result struct {
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Runner runs an external program to completion.
// A non-nil error means the program could not be run or did not exit cleanly;
// the Result is filled in as far as the run got.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct {
	// Timeout applies to each run. Zero uses DefaultTimeout.
	Timeout time.Duration

	// Dir is the working directory. Empty uses the current directory.
	Dir string
}

// NewExecRunner creates a runner with the given per-run timeout.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{Timeout: timeout}
}

// Run executes name with args and captures stdout and stderr separately.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, name, args...)
	cmd.Dir = r.Dir
	// Children that inherit the output pipes must not hold Wait open after a kill
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	res := Result{
		Command:  formatCommand(name, args),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
	} else {
		// Command failed to start
		res.ExitCode = -1
	}

	switch execCtx.Err() {
	case context.DeadlineExceeded:
		return res, fmt.Errorf("%s timed out after %s: %w", name, timeout, execCtx.Err())
	case context.Canceled:
		return res, fmt.Errorf("%s was canceled: %w", name, execCtx.Err())
	}
	return res, err
}

// formatCommand renders a command line for display and logs
func formatCommand(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		if strings.ContainsAny(a, " \t\"") {
			a = fmt.Sprintf("%q", a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
