package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/domain/model"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/repository"
)

type entry struct {
	n   model.Notification
	seq uint64
}

type notificationRepository struct {
	mu      sync.RWMutex
	seq     uint64
	entries map[types.NotificationID]*entry
}

// New creates a new in-memory notification repository
func New() interfaces.NotificationRepository {
	return &notificationRepository{
		entries: make(map[types.NotificationID]*entry),
	}
}

func (r *notificationRepository) InsertNotification(ctx context.Context, n *model.Notification) error {
	if n == nil || n.ID == "" {
		return goerr.Wrap(repository.ErrInvalidInput, "notification ID is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[n.ID]; exists {
		return goerr.Wrap(repository.ErrAlreadyExists, "notification already exists", goerr.V("id", n.ID))
	}

	r.seq++
	r.entries[n.ID] = &entry{n: *n, seq: r.seq}
	return nil
}

func (r *notificationRepository) GetNotification(ctx context.Context, id types.NotificationID) (*model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.entries[id]
	if !exists {
		return nil, goerr.Wrap(repository.ErrNotFound, "notification not found", goerr.V("id", id))
	}

	n := e.n
	return &n, nil
}

func (r *notificationRepository) ListNotifications(ctx context.Context, ref types.CredentialRef) ([]*model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*entry
	for _, e := range r.entries {
		if e.n.CredentialRef == ref {
			matched = append(matched, e)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].n.CreatedAt.Equal(matched[j].n.CreatedAt) {
			return matched[i].n.CreatedAt.After(matched[j].n.CreatedAt)
		}
		return matched[i].seq > matched[j].seq
	})

	result := make([]*model.Notification, 0, len(matched))
	for _, e := range matched {
		n := e.n
		result = append(result, &n)
	}
	return result, nil
}

func (r *notificationRepository) DeleteNotification(ctx context.Context, id types.NotificationID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; !exists {
		return goerr.Wrap(repository.ErrNotFound, "notification not found", goerr.V("id", id))
	}
	delete(r.entries, id)
	return nil
}
