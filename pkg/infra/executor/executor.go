package executor

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/domain/model"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/utils/logging"
)

const (
	DefaultStderrLimit = 4 * 1024
	DefaultStdoutLimit = 512 * 1024 * 1024
	DefaultGracePeriod = 5 * time.Second
)

// Executor runs external processes in their own process group so that a
// timeout or cancellation terminates every descendant, not only the direct child.
type Executor struct {
	stdoutLimit int
	stderrLimit int
	gracePeriod time.Duration
	baseEnv     []string
}

var _ interfaces.Executor = (*Executor)(nil)

type Option func(*Executor)

// WithStderrLimit sets how many trailing bytes of stderr are kept.
func WithStderrLimit(n int) Option {
	return func(x *Executor) {
		x.stderrLimit = n
	}
}

// WithStdoutLimit caps the captured stdout. A process writing more is killed and
// Execute fails with types.ErrOutputTooLarge. Zero or less disables the cap.
func WithStdoutLimit(n int) Option {
	return func(x *Executor) {
		x.stdoutLimit = n
	}
}

// WithGracePeriod sets how long Execute waits for output pipes to close after
// the process group was killed.
func WithGracePeriod(d time.Duration) Option {
	return func(x *Executor) {
		x.gracePeriod = d
	}
}

// WithBaseEnv replaces the inherited process environment.
func WithBaseEnv(env []string) Option {
	return func(x *Executor) {
		x.baseEnv = env
	}
}

func New(options ...Option) *Executor {
	x := &Executor{
		stdoutLimit: DefaultStdoutLimit,
		stderrLimit: DefaultStderrLimit,
		gracePeriod: DefaultGracePeriod,
		baseEnv:     os.Environ(),
	}
	for _, opt := range options {
		opt(x)
	}
	return x
}

// Execute runs c and waits for it to exit. A non-zero exit code is returned in
// the result. The returned error wraps types.ErrProcessTimeout when c.Timeout
// elapsed, types.ErrCancelled when ctx was done, types.ErrOutputTooLarge when
// stdout exceeded the limit, or the start failure.
//
// Only c.Timeout is reported as a timeout. A deadline carried by ctx itself,
// such as a per-request timeout, ends in types.ErrCancelled.
func (x *Executor) Execute(ctx context.Context, c *model.ExecCommand) (*model.ExecResult, error) {
	if c == nil || c.Name == "" {
		return nil, goerr.Wrap(types.ErrInvalidInput, "command name is empty")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if c.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, c.Timeout)
	}
	defer cancel()

	cmd := exec.CommandContext(runCtx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = append(append([]string{}, x.baseEnv...), c.Env...)
	cmd.WaitDelay = x.gracePeriod
	setProcessGroup(cmd)

	stdout := newLimitBuffer(x.stdoutLimit, cancel)
	stderr := newTailBuffer(x.stderrLimit)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	startedAt := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(startedAt)

	if ctx.Err() != nil {
		return nil, goerr.Wrap(types.ErrCancelled, "process was cancelled",
			goerr.V("command", c.Name),
			goerr.V("elapsed", elapsed),
		)
	}
	if stdout.Overflowed() {
		return nil, goerr.Wrap(types.ErrOutputTooLarge, "process output exceeded the limit",
			goerr.V("command", c.Name),
			goerr.V("limit", x.stdoutLimit),
			goerr.V("stderr_tail", string(stderr.Bytes())),
		)
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return nil, goerr.Wrap(types.ErrProcessTimeout, "process exceeded its timeout",
			goerr.V("command", c.Name),
			goerr.V("timeout", c.Timeout),
		)
	}

	result := &model.ExecResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, goerr.Wrap(runErr, "failed to run process", goerr.V("command", c.Name))
		}
		result.ExitCode = exitErr.ExitCode()
	}

	logging.From(ctx).Debug("process exited",
		"command", c.Name,
		"exit_code", result.ExitCode,
		"elapsed", elapsed,
		"stdout_bytes", len(result.Stdout),
	)

	return result, nil
}
