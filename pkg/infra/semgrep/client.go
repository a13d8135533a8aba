package semgrep

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/domain/model"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/utils/logging"
)

const (
	DefaultConfig  = "p/default"
	DefaultTimeout = 10 * time.Minute
)

// Client runs the semgrep CLI.
type Client struct {
	executor interfaces.Executor
	path     string
	configs  []string
}

var _ interfaces.Scanner = (*Client)(nil)

type Option func(*Client)

// WithPath sets the semgrep binary. Default is "semgrep" looked up in PATH.
func WithPath(path string) Option {
	return func(x *Client) {
		x.path = path
	}
}

// WithConfig sets the rule configurations passed with --config. Each entry is a
// registry name (p/default), a URL or a local file or directory.
func WithConfig(configs ...string) Option {
	return func(x *Client) {
		x.configs = configs
	}
}

func New(executor interfaces.Executor, options ...Option) *Client {
	x := &Client{
		executor: executor,
		path:     "semgrep",
		configs:  []string{DefaultConfig},
	}
	for _, opt := range options {
		opt(x)
	}
	return x
}

func (x *Client) args(path string) []string {
	args := []string{"scan", "--json", "--quiet", "--metrics=off", "--disable-version-check"}
	for _, cfg := range x.configs {
		args = append(args, "--config", cfg)
	}
	return append(args, path)
}

// Scan runs semgrep over path and returns its JSON report. A non-zero exit
// with a JSON report on stdout is treated as a completed scan, because semgrep
// exits non-zero for some finding and error conditions while still emitting
// a full report. A timeout of zero or less uses DefaultTimeout.
func (x *Client) Scan(ctx context.Context, path string, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	result, err := x.executor.Execute(ctx, &model.ExecCommand{
		Name:    x.path,
		Args:    x.args(path),
		Timeout: timeout,
	})
	if err != nil {
		switch {
		case errors.Is(err, types.ErrProcessTimeout):
			return nil, goerr.Wrap(types.ErrScanTimeout, "semgrep exceeded its timeout",
				goerr.V("path", path),
				goerr.V("timeout", timeout),
			)
		case errors.Is(err, types.ErrCancelled):
			return nil, goerr.Wrap(types.ErrCancelled, "semgrep was cancelled", goerr.V("path", path))
		case errors.Is(err, types.ErrOutputTooLarge):
			return nil, goerr.Wrap(types.ErrScanProcess, "semgrep report is too large",
				goerr.V("path", path),
				goerr.V("cause", err.Error()),
			)
		default:
			return nil, goerr.Wrap(types.ErrScanProcess, "failed to run semgrep",
				goerr.V("path", path),
				goerr.V("cause", err.Error()),
			)
		}
	}

	if result.ExitCode == 0 {
		return result.Stdout, nil
	}

	out := bytes.TrimSpace(result.Stdout)
	if len(out) == 0 || !json.Valid(out) {
		return nil, goerr.Wrap(types.ErrScanProcess, "semgrep failed without a report",
			goerr.V("path", path),
			goerr.V("exit_code", result.ExitCode),
			goerr.V("stderr_tail", string(result.Stderr)),
		)
	}

	logging.From(ctx).Info("semgrep exited non-zero with a report",
		"path", path,
		"exit_code", result.ExitCode,
	)
	return result.Stdout, nil
}
