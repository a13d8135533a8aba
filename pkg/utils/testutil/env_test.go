package testutil_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/devstudio-sec/devscan/pkg/utils/testutil"
)

func TestGetEnvOrSkip(t *testing.T) {
	key := "DEVSCAN_TEST_ENV_VAR_SET"
	t.Setenv(key, "test_value")

	gt.V(t, testutil.GetEnvOrSkip(t, key)).Equal("test_value")
}

func TestLookPathOrSkip(t *testing.T) {
	path := testutil.LookPathOrSkip(t, "sh")
	gt.V(t, path).NotEqual("")
}
