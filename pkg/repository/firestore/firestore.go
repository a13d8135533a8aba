package firestore

import (
	"context"
	"sort"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/domain/model"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/repository"
)

const collectionNotification = "notifications"

type notificationRepository struct {
	client *firestore.Client
}

var _ interfaces.NotificationRepository = (*notificationRepository)(nil)

// New creates a new Firestore-based notification repository
func New(ctx context.Context, projectID, databaseID string) (interfaces.NotificationRepository, error) {
	var client *firestore.Client
	var err error

	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}

	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID),
		)
	}

	return &notificationRepository{
		client: client,
	}, nil
}

// ToDocID validates a notification ID for use as a Firestore document ID.
func ToDocID(id types.NotificationID) (string, error) {
	s := string(id)
	if s == "" || s == "." || s == ".." || strings.Contains(s, "/") || strings.HasPrefix(s, "__") {
		return "", goerr.Wrap(repository.ErrInvalidInput, "invalid notification ID", goerr.V("id", id))
	}
	return s, nil
}

func (r *notificationRepository) doc(id types.NotificationID) (*firestore.DocumentRef, error) {
	docID, err := ToDocID(id)
	if err != nil {
		return nil, err
	}
	return r.client.Collection(collectionNotification).Doc(docID), nil
}

func (r *notificationRepository) InsertNotification(ctx context.Context, n *model.Notification) error {
	if n == nil {
		return goerr.Wrap(repository.ErrInvalidInput, "notification is nil")
	}
	docRef, err := r.doc(n.ID)
	if err != nil {
		return err
	}

	if _, err := docRef.Create(ctx, n); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return goerr.Wrap(repository.ErrAlreadyExists, "notification already exists", goerr.V("id", n.ID))
		}
		return goerr.Wrap(err, "failed to insert notification", goerr.V("id", n.ID))
	}

	return nil
}

func (r *notificationRepository) GetNotification(ctx context.Context, id types.NotificationID) (*model.Notification, error) {
	docRef, err := r.doc(id)
	if err != nil {
		return nil, err
	}

	snap, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(repository.ErrNotFound, "notification not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get notification", goerr.V("id", id))
	}

	var n model.Notification
	if err := snap.DataTo(&n); err != nil {
		return nil, goerr.Wrap(err, "failed to decode notification", goerr.V("id", id))
	}

	return &n, nil
}

// ListNotifications sorts in memory so that no composite index on
// (credential_ref, created_at) is required.
func (r *notificationRepository) ListNotifications(ctx context.Context, ref types.CredentialRef) ([]*model.Notification, error) {
	iter := r.client.Collection(collectionNotification).
		Where("credential_ref", "==", ref.String()).
		Documents(ctx)
	defer iter.Stop()

	var result []*model.Notification
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate notifications")
		}

		var n model.Notification
		if err := snap.DataTo(&n); err != nil {
			return nil, goerr.Wrap(err, "failed to decode notification", goerr.V("docID", snap.Ref.ID))
		}
		result = append(result, &n)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if result == nil {
		result = []*model.Notification{}
	}
	return result, nil
}

func (r *notificationRepository) DeleteNotification(ctx context.Context, id types.NotificationID) error {
	docRef, err := r.doc(id)
	if err != nil {
		return err
	}

	if _, err := docRef.Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(repository.ErrNotFound, "notification not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to delete notification", goerr.V("id", id))
	}

	return nil
}
