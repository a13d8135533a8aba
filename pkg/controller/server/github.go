package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v53/github"
	"github.com/m-mizutani/goerr/v2"

	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/domain/model"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/utils/errutil"
	"github.com/devstudio-sec/devscan/pkg/utils/logging"
)

func handleGitHubWebhook(uc interfaces.UseCase, secret types.GitHubWebhookSecret, token types.GitHubToken) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		repoURL, err := validateGitHubEvent(r, secret)
		if err != nil {
			errutil.HandleError(r.Context(), "fail to validate GitHub event", err)
			writeJSON(w, http.StatusBadRequest, errorResponse("invalid webhook"))
			return
		}

		if repoURL == "" {
			writeJSON(w, http.StatusOK, &StatusResponse{Status: "ok", Message: "no scan required"})
			return
		}

		// The request context is cancelled once the response is sent.
		bgCtx := DetachContext(r.Context())
		go runWebhookScan(bgCtx, uc, &model.RunScanInput{
			RepositoryURL: repoURL,
			Credential:    token.Credential(),
		})

		writeJSON(w, http.StatusAccepted, &StatusResponse{Status: "accepted", Message: "scan enqueued"})
	}
}

// validateGitHubEvent verifies the signature of a webhook delivery and returns
// the clone URL to scan, or an empty string if the event needs no scan.
func validateGitHubEvent(r *http.Request, secret types.GitHubWebhookSecret) (string, error) {
	payload, err := github.ValidatePayload(r, []byte(secret))
	if err != nil {
		return "", goerr.Wrap(types.ErrInvalidWebhook, "validating payload", goerr.V("cause", err.Error()))
	}

	event, err := github.ParseWebHook(github.WebHookType(r), payload)
	if err != nil {
		return "", goerr.Wrap(types.ErrInvalidWebhook, "parsing webhook", goerr.V("cause", err.Error()))
	}

	logging.From(r.Context()).Info("Received GitHub event", slog.String("type", github.WebHookType(r)))
	return githubEventToRepoURL(event), nil
}

func githubEventToRepoURL(event interface{}) string {
	switch ev := event.(type) {
	case *github.PushEvent:
		if ev.GetDeleted() {
			logging.Default().Debug("ignore push event for deleted ref", slog.String("ref", ev.GetRef()))
			return ""
		}
		if ev.HeadCommit == nil || ev.HeadCommit.ID == nil {
			logging.Default().Warn("ignore push event without head commit", slog.String("ref", ev.GetRef()))
			return ""
		}
		return ev.GetRepo().GetCloneURL()

	case *github.PingEvent:
		return ""

	default:
		logging.Default().Warn("unsupported event", slog.Any("event", fmt.Sprintf("%T", event)))
		return ""
	}
}

// runWebhookScan runs a scan for a webhook delivery and stores its summary.
// It is called from a background goroutine.
func runWebhookScan(ctx context.Context, uc interfaces.UseCase, input *model.RunScanInput) {
	logger := logging.From(ctx).With(slog.String("repository", input.RepositoryURL))
	logger.Info("Starting webhook scan")

	env := uc.RunScan(ctx, input)
	if !env.Succeeded() {
		logger.Warn("Webhook scan failed", slog.String("message", env.Message))
	} else {
		logger.Info("Webhook scan completed", slog.Int("findings", len(env.Findings)))
	}

	if _, err := uc.NotifyScanResult(ctx, input.Credential, env); err != nil {
		errutil.HandleError(ctx, "failed to store webhook scan notification", err)
	}
}

// Test helpers - exported for testing
func GithubEventToRepoURLForTest(event interface{}) string {
	return githubEventToRepoURL(event)
}
