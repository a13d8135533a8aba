package safe

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/devstudio-sec/devscan/pkg/utils/logging"
)

// Close closes the resource and logs a warning on failure. io.EOF is ignored.
func Close(closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil && !errors.Is(err, io.EOF) {
		logging.Default().Warn("Fail to close resource", slog.Any("error", err))
	}
}

// Remove removes a single file. A file that is already gone is not reported.
func Remove(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.From(ctx).Warn("Fail to remove file", slog.String("path", path), slog.Any("error", err))
	}
}

// RemoveAll removes path and everything under it and reports whether the path
// is gone afterwards.
func RemoveAll(ctx context.Context, path string) bool {
	if err := os.RemoveAll(path); err != nil {
		logging.From(ctx).Warn("Fail to remove directory", slog.String("path", path), slog.Any("error", err))
		return false
	}
	return true
}

// Rollback rolls back tx unless it was already committed.
func Rollback(tx *sql.Tx) {
	if tx == nil {
		return
	}
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logging.Default().Warn("Fail to rollback transaction", slog.Any("error", err))
	}
}
