package types

import "github.com/m-mizutani/goerr/v2"

var (
	ErrInvalidOption = goerr.New("invalid option")
	ErrInvalidInput  = goerr.New("invalid input")

	// Scan pipeline. Every one of these is terminal for a job.
	ErrWorkspace         = goerr.New("workspace error")
	ErrUnsupportedScheme = goerr.New("unsupported scheme")
	ErrFetch             = goerr.New("fetch error")
	ErrScanTimeout       = goerr.New("scan timeout")
	ErrScanProcess       = goerr.New("scan process error")
	ErrMalformedOutput   = goerr.New("malformed output")
	ErrCancelled         = goerr.New("cancelled")

	// Executor
	ErrProcessTimeout = goerr.New("process timeout")
	ErrOutputTooLarge = goerr.New("process output too large")

	ErrInvalidWebhook = goerr.New("invalid webhook")
	ErrNotConfigured  = goerr.New("not configured")
	ErrRemoteAPI      = goerr.New("remote API error")
)
