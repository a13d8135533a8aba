package git

import (
	"context"
	"time"

	gogit "github.com/go-git/go-git/v5"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/m-mizutani/goerr/v2"

	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/domain/model"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/utils/logging"
)

// GoGitFetcher clones in-process with go-git. The credential is passed as HTTP
// basic auth and never becomes part of a URL.
type GoGitFetcher struct {
	timeout time.Duration
}

var _ interfaces.RepositoryFetcher = (*GoGitFetcher)(nil)

func NewGoGitFetcher(timeout time.Duration) *GoGitFetcher {
	return &GoGitFetcher{timeout: timeout}
}

func (x *GoGitFetcher) Fetch(ctx context.Context, target *model.AuthTarget, dst string) error {
	if err := target.Validate(); err != nil {
		return err
	}

	cloneCtx := ctx
	if x.timeout > 0 {
		var cancel context.CancelFunc
		cloneCtx, cancel = context.WithTimeout(ctx, x.timeout)
		defer cancel()
	}

	logging.From(ctx).Info("cloning repository with go-git", "repository", target, "dst", dst)

	_, err := gogit.PlainCloneContext(cloneCtx, dst, false, &gogit.CloneOptions{
		URL: target.URL(),
		Auth: &githttp.BasicAuth{
			Username: model.CloneUsername,
			Password: string(target.Credential()),
		},
		Depth:        1,
		SingleBranch: true,
		Tags:         gogit.NoTags,
	})
	if err != nil {
		if ctx.Err() != nil {
			return goerr.Wrap(types.ErrCancelled, "clone was cancelled", goerr.V("repository", target.URL()))
		}
		return goerr.Wrap(types.ErrFetch, "go-git clone failed",
			goerr.V("repository", target.URL()),
			goerr.V("cause", Redact(err.Error(), target.Secrets()...)),
		)
	}

	return nil
}
