package git

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/domain/model"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/utils/logging"
)

// DefaultCloneTimeout bounds a clone when no other timeout is configured.
const DefaultCloneTimeout = 10 * time.Minute

// CommandFetcher clones with the git command line tool.
type CommandFetcher struct {
	executor interfaces.Executor
	gitPath  string
	timeout  time.Duration
}

var _ interfaces.RepositoryFetcher = (*CommandFetcher)(nil)

type CommandOption func(*CommandFetcher)

func WithGitPath(path string) CommandOption {
	return func(x *CommandFetcher) {
		x.gitPath = path
	}
}

// WithCloneTimeout bounds each git invocation. Zero means no limit other than ctx.
func WithCloneTimeout(d time.Duration) CommandOption {
	return func(x *CommandFetcher) {
		x.timeout = d
	}
}

func NewCommandFetcher(executor interfaces.Executor, options ...CommandOption) *CommandFetcher {
	x := &CommandFetcher{
		executor: executor,
		gitPath:  "git",
		timeout:  DefaultCloneTimeout,
	}
	for _, opt := range options {
		opt(x)
	}
	return x
}

// gitEnv keeps git from ever asking for credentials on a terminal.
var gitEnv = []string{
	"GIT_TERMINAL_PROMPT=0",
	"GIT_ASKPASS=",
	"GCM_INTERACTIVE=never",
}

// Fetch runs a shallow clone of target into dst and then resets the origin
// remote to the credential-free URL, so the credential does not remain in
// dst/.git/config.
func (x *CommandFetcher) Fetch(ctx context.Context, target *model.AuthTarget, dst string) error {
	if err := target.Validate(); err != nil {
		return err
	}

	logging.From(ctx).Info("cloning repository", "repository", target, "dst", dst)

	if err := x.run(ctx, target, "git clone failed",
		"clone", "--depth", "1", "--quiet", "--", target.AuthenticatedURL(), dst,
	); err != nil {
		return err
	}

	if err := x.run(ctx, target, "failed to reset origin URL",
		"-C", dst, "remote", "set-url", "origin", target.URL(),
	); err != nil {
		return err
	}

	return nil
}

func (x *CommandFetcher) run(ctx context.Context, target *model.AuthTarget, msg string, args ...string) error {
	result, err := x.executor.Execute(ctx, &model.ExecCommand{
		Name:    x.gitPath,
		Args:    args,
		Env:     gitEnv,
		Timeout: x.timeout,
	})
	if err != nil {
		switch {
		case errors.Is(err, types.ErrCancelled):
			return goerr.Wrap(types.ErrCancelled, "git was cancelled", goerr.V("repository", target.URL()))
		case errors.Is(err, types.ErrProcessTimeout):
			return goerr.Wrap(types.ErrFetch, "git timed out",
				goerr.V("repository", target.URL()),
				goerr.V("timeout", x.timeout),
			)
		default:
			return goerr.Wrap(types.ErrFetch, "failed to run git",
				goerr.V("repository", target.URL()),
				goerr.V("cause", Redact(err.Error(), target.Secrets()...)),
			)
		}
	}

	if result.ExitCode != 0 {
		return goerr.Wrap(types.ErrFetch, msg,
			goerr.V("repository", target.URL()),
			goerr.V("exit_code", result.ExitCode),
			goerr.V("stderr_tail", Redact(string(result.Stderr), target.Secrets()...)),
		)
	}

	return nil
}
