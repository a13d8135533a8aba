package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/domain/model"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/utils/logging"
)

func (x *UseCase) notificationRepository() (interfaces.NotificationRepository, error) {
	repo := x.clients.NotificationRepository()
	if repo == nil {
		return nil, goerr.Wrap(types.ErrNotConfigured, "notification repository is not configured")
	}
	return repo, nil
}

// PushNotification stores a notification keyed by the reference of the
// caller's credential. The credential itself is not stored.
func (x *UseCase) PushNotification(ctx context.Context, input *model.PushNotificationInput) (*model.Notification, error) {
	if input == nil {
		return nil, goerr.Wrap(types.ErrInvalidInput, "notification input is required")
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	repo, err := x.notificationRepository()
	if err != nil {
		return nil, err
	}

	n := &model.Notification{
		ID:            types.NewNotificationID(),
		RepositoryURL: stripUserinfo(input.RepositoryURL),
		CredentialRef: input.Credential.Ref(),
		Text:          input.Text,
		CreatedAt:     logging.CtxTime(ctx).UTC(),
	}
	if err := repo.InsertNotification(ctx, n); err != nil {
		return nil, goerr.Wrap(err, "failed to insert notification", goerr.V("id", n.ID))
	}

	logging.From(ctx).Info("notification pushed", "id", n.ID, "repository", n.RepositoryURL)
	return n, nil
}

// GetNotifications returns the notifications of credential, newest first.
func (x *UseCase) GetNotifications(ctx context.Context, credential types.Credential) ([]*model.Notification, error) {
	if credential == "" {
		return nil, goerr.Wrap(types.ErrInvalidInput, "credential is required")
	}
	repo, err := x.notificationRepository()
	if err != nil {
		return nil, err
	}

	notifications, err := repo.ListNotifications(ctx, credential.Ref())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list notifications")
	}
	return notifications, nil
}

func (x *UseCase) DeleteNotification(ctx context.Context, id types.NotificationID) error {
	if strings.TrimSpace(id.String()) == "" {
		return goerr.Wrap(types.ErrInvalidInput, "notification ID is required")
	}
	repo, err := x.notificationRepository()
	if err != nil {
		return err
	}

	if err := repo.DeleteNotification(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete notification", goerr.V("id", id))
	}

	logging.From(ctx).Info("notification deleted", "id", id)
	return nil
}

// NotifyScanResult stores a summary of env as a notification for credential.
// It does nothing and returns nil when no repository is configured.
func (x *UseCase) NotifyScanResult(ctx context.Context, credential types.Credential, env *model.ResultEnvelope) (*model.Notification, error) {
	if x.clients.NotificationRepository() == nil {
		return nil, nil
	}

	return x.PushNotification(ctx, &model.PushNotificationInput{
		RepositoryURL: env.Repository,
		Credential:    credential,
		Text:          SummarizeEnvelope(env),
	})
}

var severityOrder = []model.Severity{
	model.SeverityError,
	model.SeverityWarning,
	model.SeverityInfo,
	model.SeverityUnknown,
}

// SummarizeEnvelope renders env as a one-line notification text.
func SummarizeEnvelope(env *model.ResultEnvelope) string {
	repo := env.Repository
	if repo == "" {
		repo = "repository"
	}

	if !env.Succeeded() {
		return fmt.Sprintf("Scan of %s failed: %s", repo, env.Message)
	}
	if len(env.Findings) == 0 {
		return fmt.Sprintf("Scan of %s completed: no findings", repo)
	}

	counts := env.CountBySeverity()
	var parts []string
	for _, sev := range severityOrder {
		if n := counts[sev]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", sev, n))
		}
	}

	noun := "findings"
	if len(env.Findings) == 1 {
		noun = "finding"
	}
	return fmt.Sprintf("Scan of %s completed: %d %s (%s)", repo, len(env.Findings), noun, strings.Join(parts, ", "))
}

func stripUserinfo(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.User == nil {
		return strings.TrimSpace(raw)
	}
	u.User = nil
	return u.String()
}
