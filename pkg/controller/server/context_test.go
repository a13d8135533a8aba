package server_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/devstudio-sec/devscan/pkg/controller/server"
	"github.com/devstudio-sec/devscan/pkg/utils/logging"
)

func TestDetachContext(t *testing.T) {
	logger := slog.Default().With("component", "webhook")
	fixedTime := time.Date(2024, 12, 25, 10, 30, 0, 0, time.UTC)

	reqCtx, cancel := context.WithCancel(logging.With(context.Background(), logger))
	reqID, reqCtx := logging.CtxRequestID(reqCtx)
	reqCtx = logging.CtxWithTime(reqCtx, func() time.Time { return fixedTime })

	bgCtx := server.DetachContext(reqCtx)
	cancel()

	t.Run("request values are kept", func(t *testing.T) {
		gt.V(t, logging.From(bgCtx)).Equal(logger)

		inherited, ok := logging.RequestIDFrom(bgCtx)
		gt.True(t, ok)
		gt.V(t, inherited).Equal(reqID)

		gt.V(t, logging.CtxTime(bgCtx)).Equal(fixedTime)
	})

	t.Run("cancelling the request does not cancel the detached context", func(t *testing.T) {
		gt.V(t, reqCtx.Err()).Equal(context.Canceled)
		gt.NoError(t, bgCtx.Err())
	})

	t.Run("empty context stays empty", func(t *testing.T) {
		ctx := server.DetachContext(context.Background())
		_, ok := logging.RequestIDFrom(ctx)
		gt.False(t, ok)
	})
}
