package logging_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/devstudio-sec/devscan/pkg/utils/logging"
)

func TestFrom(t *testing.T) {
	t.Run("get logger from context with logger", func(t *testing.T) {
		logger := slog.Default()
		ctx := logging.With(context.Background(), logger)
		gt.V(t, logging.From(ctx)).Equal(logger)
	})

	t.Run("get logger from context without logger", func(t *testing.T) {
		retrieved := logging.From(context.Background())
		gt.V(t, retrieved.Handler()).Equal(logging.Default().Handler())
	})
}

func TestCtxRequestID(t *testing.T) {
	t.Run("new request ID is attached", func(t *testing.T) {
		ctx := context.Background()
		_, ok := logging.RequestIDFrom(ctx)
		gt.False(t, ok)

		reqID, newCtx := logging.CtxRequestID(ctx)
		gt.V(t, reqID).NotEqual("")

		retrieved, ok := logging.RequestIDFrom(newCtx)
		gt.True(t, ok)
		gt.V(t, retrieved).Equal(reqID)
	})

	t.Run("existing request ID is kept", func(t *testing.T) {
		reqID1, ctx1 := logging.CtxRequestID(context.Background())
		reqID2, _ := logging.CtxRequestID(ctx1)
		gt.V(t, reqID1).Equal(reqID2)
	})
}

func TestCtxWithTime(t *testing.T) {
	ctx := logging.CtxWithTime(context.Background(), func() time.Time {
		return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	})
	gt.V(t, logging.CtxTime(ctx).Year()).Equal(2024)
	gt.False(t, logging.CtxTime(context.Background()).IsZero())
}

func TestInheritContextValues(t *testing.T) {
	logger := slog.Default()
	reqID, src := logging.CtxRequestID(context.Background())
	src = logging.With(src, logger)
	src = logging.CtxWithTime(src, func() time.Time {
		return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	})

	dst := logging.InheritContextValues(context.Background(), src)

	got, ok := logging.RequestIDFrom(dst)
	gt.True(t, ok)
	gt.V(t, got).Equal(reqID)
	gt.V(t, logging.CtxTime(dst).Year()).Equal(2024)
	gt.V(t, logging.From(dst)).Equal(logger)
}
