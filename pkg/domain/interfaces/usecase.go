package interfaces

//go:generate moq -out ../mock/usecase.go -pkg mock . UseCase

import (
	"context"

	"github.com/devstudio-sec/devscan/pkg/domain/model"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
)

type UseCase interface {
	RunScan(ctx context.Context, input *model.RunScanInput) *model.ResultEnvelope

	PushNotification(ctx context.Context, input *model.PushNotificationInput) (*model.Notification, error)
	GetNotifications(ctx context.Context, credential types.Credential) ([]*model.Notification, error)
	DeleteNotification(ctx context.Context, id types.NotificationID) error
	NotifyScanResult(ctx context.Context, credential types.Credential, env *model.ResultEnvelope) (*model.Notification, error)
}
