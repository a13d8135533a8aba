package model

import (
	"time"

	"github.com/devstudio-sec/devscan/pkg/domain/types"
)

// Notification is a user-facing message about a repository, keyed by the
// reference of the credential that requested it.
type Notification struct {
	ID            types.NotificationID `json:"id" firestore:"id"`
	RepositoryURL string               `json:"repository_url" firestore:"repository_url"`
	CredentialRef types.CredentialRef  `json:"credential_ref" firestore:"credential_ref"`
	Text          string               `json:"notification" firestore:"notification"`
	CreatedAt     time.Time            `json:"created_at" firestore:"created_at"`
}
