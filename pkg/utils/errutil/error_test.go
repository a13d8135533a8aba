package errutil_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"

	"github.com/devstudio-sec/devscan/pkg/utils/errutil"
	"github.com/devstudio-sec/devscan/pkg/utils/logging"
)

func TestHandleError(t *testing.T) {
	t.Run("plain error", func(t *testing.T) {
		errutil.HandleError(context.Background(), "test message", errors.New("test error"))
	})

	t.Run("goerr with values and request ID", func(t *testing.T) {
		_, ctx := logging.CtxRequestID(context.Background())
		err := goerr.New("failed", goerr.V("repository", "https://host/org/repo.git"))
		errutil.HandleError(ctx, "test message", err)
	})

	t.Run("nil error", func(t *testing.T) {
		errutil.HandleError(context.Background(), "test message", nil)
	})
}
