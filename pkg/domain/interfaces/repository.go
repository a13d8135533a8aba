package interfaces

import (
	"context"

	"github.com/devstudio-sec/devscan/pkg/domain/model"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
)

//go:generate moq -out ../mock/notification_repository_mock.go -pkg mock . NotificationRepository

// NotificationRepository stores user-facing notifications.
type NotificationRepository interface {
	InsertNotification(ctx context.Context, n *model.Notification) error
	// GetNotification returns repository.ErrNotFound if id does not exist.
	GetNotification(ctx context.Context, id types.NotificationID) (*model.Notification, error)
	// ListNotifications returns notifications for ref, newest first.
	ListNotifications(ctx context.Context, ref types.CredentialRef) ([]*model.Notification, error)
	// DeleteNotification returns repository.ErrNotFound if id does not exist.
	DeleteNotification(ctx context.Context, id types.NotificationID) error
}
