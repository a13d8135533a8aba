package testhelper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"

	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/domain/model"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/repository"
)

// TestAll runs all test cases for NotificationRepository. Every case uses its
// own random credential reference so that it can run against a shared database.
func TestAll(t *testing.T, repo interfaces.NotificationRepository) {
	t.Run("InsertAndGet", func(t *testing.T) {
		TestInsertAndGet(t, repo)
	})
	t.Run("ListNewestFirst", func(t *testing.T) {
		TestListNewestFirst(t, repo)
	})
	t.Run("ListIsolatedByCredential", func(t *testing.T) {
		TestListIsolatedByCredential(t, repo)
	})
	t.Run("Delete", func(t *testing.T) {
		TestDelete(t, repo)
	})
	t.Run("DuplicateInsert", func(t *testing.T) {
		TestDuplicateInsert(t, repo)
	})
}

func newNotification(ref types.CredentialRef, createdAt time.Time) *model.Notification {
	return &model.Notification{
		ID:            types.NewNotificationID(),
		RepositoryURL: "https://github.com/devstudio-sec/" + uuid.NewString()[:8],
		CredentialRef: ref,
		Text:          "scan finished: " + uuid.NewString()[:8],
		CreatedAt:     createdAt.UTC().Truncate(time.Millisecond),
	}
}

func newRef() types.CredentialRef {
	return types.Credential(uuid.NewString()).Ref()
}

func TestInsertAndGet(t *testing.T, repo interfaces.NotificationRepository) {
	ctx := context.Background()
	n := newNotification(newRef(), time.Now())

	gt.NoError(t, repo.InsertNotification(ctx, n))

	got, err := repo.GetNotification(ctx, n.ID)
	gt.NoError(t, err)
	gt.V(t, got.ID).Equal(n.ID)
	gt.V(t, got.RepositoryURL).Equal(n.RepositoryURL)
	gt.V(t, got.CredentialRef).Equal(n.CredentialRef)
	gt.V(t, got.Text).Equal(n.Text)
	gt.True(t, got.CreatedAt.Equal(n.CreatedAt))

	_, err = repo.GetNotification(ctx, types.NewNotificationID())
	gt.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestListNewestFirst(t *testing.T, repo interfaces.NotificationRepository) {
	ctx := context.Background()
	ref := newRef()
	base := time.Now()

	oldest := newNotification(ref, base.Add(-2*time.Hour))
	newest := newNotification(ref, base)
	middle := newNotification(ref, base.Add(-time.Hour))

	for _, n := range []*model.Notification{oldest, newest, middle} {
		gt.NoError(t, repo.InsertNotification(ctx, n))
	}

	list, err := repo.ListNotifications(ctx, ref)
	gt.NoError(t, err)
	gt.V(t, len(list)).Equal(3)
	gt.V(t, list[0].ID).Equal(newest.ID)
	gt.V(t, list[1].ID).Equal(middle.ID)
	gt.V(t, list[2].ID).Equal(oldest.ID)
}

func TestListIsolatedByCredential(t *testing.T, repo interfaces.NotificationRepository) {
	ctx := context.Background()
	mine := newRef()
	other := newRef()

	gt.NoError(t, repo.InsertNotification(ctx, newNotification(mine, time.Now())))
	gt.NoError(t, repo.InsertNotification(ctx, newNotification(other, time.Now())))

	list, err := repo.ListNotifications(ctx, mine)
	gt.NoError(t, err)
	gt.V(t, len(list)).Equal(1)
	gt.V(t, list[0].CredentialRef).Equal(mine)

	empty, err := repo.ListNotifications(ctx, newRef())
	gt.NoError(t, err)
	gt.V(t, len(empty)).Equal(0)
}

func TestDelete(t *testing.T, repo interfaces.NotificationRepository) {
	ctx := context.Background()
	n := newNotification(newRef(), time.Now())
	gt.NoError(t, repo.InsertNotification(ctx, n))

	gt.NoError(t, repo.DeleteNotification(ctx, n.ID))

	_, err := repo.GetNotification(ctx, n.ID)
	gt.True(t, errors.Is(err, repository.ErrNotFound))

	err = repo.DeleteNotification(ctx, n.ID)
	gt.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestDuplicateInsert(t *testing.T, repo interfaces.NotificationRepository) {
	ctx := context.Background()
	n := newNotification(newRef(), time.Now())
	gt.NoError(t, repo.InsertNotification(ctx, n))

	err := repo.InsertNotification(ctx, n)
	gt.True(t, errors.Is(err, repository.ErrAlreadyExists))
}
