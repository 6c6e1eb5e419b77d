package witadmin

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/surivin/Global-List-Editor/pkg/logging"
)

// DefaultBinary is the executable looked up on PATH when none is configured.
const DefaultBinary = "witadmin"

const (
	opExport = "exportgloballist"
	opImport = "importgloballist"
)

// ExitError reports a witadmin run that finished with a non-zero exit code.
type ExitError struct {
	Op       string
	ExitCode int
	Stderr   string
	Stdout   string
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = strings.TrimSpace(e.Stdout)
	}
	if msg == "" {
		return fmt.Sprintf("witadmin %s failed with exit code %d", e.Op, e.ExitCode)
	}
	return fmt.Sprintf("witadmin %s failed with exit code %d: %s", e.Op, e.ExitCode, msg)
}

// Client wraps the global list operations of witadmin.
type Client struct {
	binary string
	runner Runner
	logger *logging.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBinary sets the witadmin executable path.
func WithBinary(path string) ClientOption {
	return func(c *Client) {
		if path != "" {
			c.binary = path
		}
	}
}

// WithRunner replaces the process runner.
func WithRunner(r Runner) ClientOption {
	return func(c *Client) {
		c.runner = r
	}
}

// WithLogger sets the logger used for invocation records.
func WithLogger(l *logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client that runs witadmin through an ExecRunner by default.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		binary: DefaultBinary,
		runner: NewExecRunner(DefaultTimeout),
		logger: logging.NewNop("witadmin"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Binary returns the configured executable.
func (c *Client) Binary() string {
	return c.binary
}

// ExportGlobalLists writes the collection's global lists to file.
func (c *Client) ExportGlobalLists(ctx context.Context, collectionURL, file string) (Result, error) {
	return c.run(ctx, opExport, collectionURL, file)
}

// ImportGlobalLists uploads the global lists in file to the collection.
func (c *Client) ImportGlobalLists(ctx context.Context, collectionURL, file string) (Result, error) {
	return c.run(ctx, opImport, collectionURL, file)
}

// Args builds the argument vector for op. The collection argument is omitted
// when no URL is known.
func Args(op, collectionURL, file string) []string {
	args := []string{op}
	if strings.TrimSpace(collectionURL) != "" {
		args = append(args, "/collection:"+collectionURL)
	}
	args = append(args, "/f:"+file)
	return args
}

// run performs exactly one invocation; there is no retry
func (c *Client) run(ctx context.Context, op, collectionURL, file string) (Result, error) {
	if strings.TrimSpace(file) == "" {
		return Result{}, fmt.Errorf("witadmin %s: file path is required", op)
	}

	args := Args(op, collectionURL, file)
	c.logger.Infof("running %s %s", c.binary, strings.Join(args, " "))

	res, err := c.runner.Run(ctx, c.binary, args...)
	if err == nil {
		c.logger.Infof("witadmin %s completed in %s", op, res.Duration)
		return res, nil
	}

	var execErr *exec.ExitError
	if errors.As(err, &execErr) || res.ExitCode > 0 {
		exitErr := &ExitError{Op: op, ExitCode: res.ExitCode, Stderr: res.Stderr, Stdout: res.Stdout}
		c.logger.Warnf("%v", exitErr)
		return res, exitErr
	}

	c.logger.Errorf("witadmin %s could not run: %v", op, err)
	return res, fmt.Errorf("failed to run %s: %w", c.binary, err)
}
