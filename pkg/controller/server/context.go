package server

import (
	"context"

	"github.com/devstudio-sec/devscan/pkg/utils/logging"
)

// DetachContext returns a context that is never cancelled but keeps the
// logger, request ID and time function of ctx. Webhook scans run with it after
// the HTTP response has been sent.
func DetachContext(ctx context.Context) context.Context {
	return logging.InheritContextValues(context.Background(), ctx)
}
