package safe_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/devstudio-sec/devscan/pkg/utils/safe"
	"github.com/m-mizutani/gt"
)

func TestClose(t *testing.T) {
	t.Run("close valid reader", func(t *testing.T) {
		safe.Close(io.NopCloser(bytes.NewReader([]byte("test"))))
	})

	t.Run("close nil reader", func(t *testing.T) {
		safe.Close(nil)
	})

	t.Run("close reader that returns error", func(t *testing.T) {
		safe.Close(&errorCloser{err: io.ErrUnexpectedEOF})
	})

	t.Run("close reader that returns EOF", func(t *testing.T) {
		safe.Close(&errorCloser{err: io.EOF})
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("remove existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file.txt")
		gt.NoError(t, os.WriteFile(path, []byte("test"), 0600))

		safe.Remove(ctx, path)

		_, err := os.Stat(path)
		gt.True(t, os.IsNotExist(err))
	})

	t.Run("remove non-existing file", func(t *testing.T) {
		safe.Remove(ctx, filepath.Join(t.TempDir(), "missing.txt"))
	})
}

func TestRemoveAll(t *testing.T) {
	ctx := context.Background()

	t.Run("remove nested directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "ws")
		gt.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "b"), 0700))
		gt.NoError(t, os.WriteFile(filepath.Join(dir, "a", "b", "file.txt"), []byte("test"), 0600))

		gt.True(t, safe.RemoveAll(ctx, dir))

		_, err := os.Stat(dir)
		gt.True(t, os.IsNotExist(err))
	})

	t.Run("remove non-existing directory", func(t *testing.T) {
		gt.True(t, safe.RemoveAll(ctx, filepath.Join(t.TempDir(), "missing")))
	})
}

func TestRollback(t *testing.T) {
	safe.Rollback(nil)
}

type errorCloser struct {
	err error
}

func (x *errorCloser) Close() error {
	return x.err
}
