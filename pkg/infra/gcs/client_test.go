package gcs_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/devstudio-sec/devscan/pkg/infra/gcs"
	"github.com/devstudio-sec/devscan/pkg/utils/testutil"
)

func TestObjectName(t *testing.T) {
	gt.V(t, gcs.ObjectName("", "repo/job.json")).Equal("repo/job.json")
	gt.V(t, gcs.ObjectName("devscan/raw", "repo/job.json")).Equal("devscan/raw/repo/job.json")
}

func TestPut(t *testing.T) {
	bucket := testutil.GetEnvOrSkip(t, "TEST_GCS_BUCKET")

	ctx := context.Background()
	client := gt.R1(gcs.New(ctx, bucket, "devscan-test")).NoError(t)

	key := time.Now().Format("put_test_20060102_150405.json")
	url := gt.R1(client.Put(ctx, key, []byte(`{"results":[]}`))).NoError(t)
	gt.True(t, strings.HasPrefix(url, "gs://"+bucket+"/devscan-test/"))
}
