package workspace_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/infra/workspace"
)

func TestPrepare(t *testing.T) {
	ctx := context.Background()

	t.Run("creates base directory with parents", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "a", "b", "ws")
		ws := workspace.New()

		path := gt.R1(ws.Prepare(ctx, base, "repo")).NoError(t)
		gt.V(t, path).Equal(filepath.Join(base, "repo"))

		entries := gt.R1(os.ReadDir(path)).NoError(t)
		gt.V(t, len(entries)).Equal(0)
	})

	t.Run("second call destroys previous contents", func(t *testing.T) {
		base := t.TempDir()
		ws := workspace.New()

		path := gt.R1(ws.Prepare(ctx, base, "repo")).NoError(t)
		gt.NoError(t, os.MkdirAll(filepath.Join(path, "nested"), 0o700))
		gt.NoError(t, os.WriteFile(filepath.Join(path, "nested", "stale.txt"), []byte("x"), 0o600))

		again := gt.R1(ws.Prepare(ctx, base, "repo")).NoError(t)
		gt.V(t, again).Equal(path)

		entries := gt.R1(os.ReadDir(again)).NoError(t)
		gt.V(t, len(entries)).Equal(0)
	})

	t.Run("existing file at workspace path is replaced", func(t *testing.T) {
		base := t.TempDir()
		gt.NoError(t, os.WriteFile(filepath.Join(base, "repo"), []byte("x"), 0o600))

		path := gt.R1(workspace.New().Prepare(ctx, base, "repo")).NoError(t)
		info := gt.R1(os.Stat(path)).NoError(t)
		gt.True(t, info.IsDir())
	})

	t.Run("base directory that cannot be created", func(t *testing.T) {
		parent := t.TempDir()
		blocker := filepath.Join(parent, "file")
		gt.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

		_, err := workspace.New().Prepare(ctx, filepath.Join(blocker, "ws"), "repo")
		gt.True(t, errors.Is(err, types.ErrWorkspace))
	})

	t.Run("identifier must not escape base directory", func(t *testing.T) {
		ws := workspace.New()
		for _, id := range []string{"", ".", "..", "../repo", "a/b", `a\b`} {
			_, err := ws.Prepare(ctx, t.TempDir(), id)
			gt.True(t, errors.Is(err, types.ErrWorkspace))
		}
	})

	t.Run("dots inside a name are allowed", func(t *testing.T) {
		base := t.TempDir()
		for _, id := range []string{"foo..bar", "my.repo", "..."} {
			path := gt.R1(workspace.New().Prepare(ctx, base, id)).NoError(t)
			gt.V(t, path).Equal(filepath.Join(base, id))
		}
	})
}

func TestRelease(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	ws := workspace.New()

	path := gt.R1(ws.Prepare(ctx, base, "repo")).NoError(t)
	gt.NoError(t, os.WriteFile(filepath.Join(path, "file"), []byte("x"), 0o600))

	ws.Release(ctx, path)
	_, err := os.Stat(path)
	gt.True(t, os.IsNotExist(err))

	// Releasing twice is harmless.
	ws.Release(ctx, path)
	ws.Release(ctx, "")
}

func TestLock(t *testing.T) {
	t.Run("same identifier is serialized", func(t *testing.T) {
		ws := workspace.New()
		var active, maxActive int32
		var wg sync.WaitGroup

		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock := ws.Lock("repo")
				defer unlock()

				n := atomic.AddInt32(&active, 1)
				for {
					m := atomic.LoadInt32(&maxActive)
					if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&active, -1)
			}()
		}
		wg.Wait()

		gt.V(t, atomic.LoadInt32(&maxActive)).Equal(int32(1))
		gt.V(t, ws.LockCountForTest()).Equal(0)
	})

	t.Run("different identifiers do not block each other", func(t *testing.T) {
		ws := workspace.New()
		unlockA := ws.Lock("a")
		defer unlockA()

		done := make(chan struct{})
		go func() {
			unlockB := ws.Lock("b")
			unlockB()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("lock on a different identifier was blocked")
		}
	})

	t.Run("unlock is idempotent", func(t *testing.T) {
		ws := workspace.New()
		unlock := ws.Lock("repo")
		unlock()
		unlock()
		gt.V(t, ws.LockCountForTest()).Equal(0)
	})
}
