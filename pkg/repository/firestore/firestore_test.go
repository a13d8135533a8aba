package firestore_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/repository/firestore"
	"github.com/devstudio-sec/devscan/pkg/repository/testhelper"
	"github.com/devstudio-sec/devscan/pkg/utils/testutil"
)

func TestFirestoreNotificationRepository(t *testing.T) {
	projectID := testutil.GetEnvOrSkip(t, "TEST_FIRESTORE_PROJECT_ID")
	databaseID := testutil.GetEnvOrSkip(t, "TEST_FIRESTORE_DATABASE_ID")

	repo, err := firestore.New(context.Background(), projectID, databaseID)
	gt.NoError(t, err)

	testhelper.TestAll(t, repo)
}

func TestToDocID(t *testing.T) {
	id, err := firestore.ToDocID("4f1c1e8e-9a57-4f0f-8d2b-5b8f0a9b8d21")
	gt.NoError(t, err)
	gt.V(t, id).Equal("4f1c1e8e-9a57-4f0f-8d2b-5b8f0a9b8d21")

	for _, invalid := range []string{"", ".", "..", "a/b", "__reserved__"} {
		_, err := firestore.ToDocID(types.NotificationID(invalid))
		gt.Error(t, err)
	}
}
