package workspace

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/utils/logging"
	"github.com/devstudio-sec/devscan/pkg/utils/safe"
)

// Manager hands out per-repository working directories under a base directory.
// The path is derived from the repository identifier, so callers serialize jobs
// for the same identifier with Lock.
type Manager struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

var _ interfaces.Workspace = (*Manager)(nil)

func New() *Manager {
	return &Manager{
		locks: make(map[string]*keyLock),
	}
}

// Prepare returns baseDir/repoIdentifier as an empty directory. An existing
// directory at that path is removed first.
func (x *Manager) Prepare(ctx context.Context, baseDir, repoIdentifier string) (string, error) {
	if err := validateIdentifier(repoIdentifier); err != nil {
		return "", err
	}

	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return "", goerr.Wrap(types.ErrWorkspace, "failed to create base directory",
			goerr.V("base_dir", baseDir),
			goerr.V("cause", err.Error()),
		)
	}

	path := filepath.Join(baseDir, repoIdentifier)

	if _, err := os.Lstat(path); err == nil {
		logging.From(ctx).Warn("removing existing workspace", "path", path)
		if err := os.RemoveAll(path); err != nil {
			return "", goerr.Wrap(types.ErrWorkspace, "failed to remove existing workspace",
				goerr.V("path", path),
				goerr.V("cause", err.Error()),
			)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", goerr.Wrap(types.ErrWorkspace, "failed to inspect workspace",
			goerr.V("path", path),
			goerr.V("cause", err.Error()),
		)
	}

	if err := os.Mkdir(path, 0o700); err != nil {
		return "", goerr.Wrap(types.ErrWorkspace, "failed to create workspace",
			goerr.V("path", path),
			goerr.V("cause", err.Error()),
		)
	}

	logging.From(ctx).Debug("workspace prepared", "path", path)
	return path, nil
}

// Release removes the workspace. Failures are logged only.
func (x *Manager) Release(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if safe.RemoveAll(ctx, path) {
		logging.From(ctx).Debug("workspace released", "path", path)
	}
}

// Lock blocks until no other holder of repoIdentifier remains and returns the
// function that releases it.
func (x *Manager) Lock(repoIdentifier string) func() {
	x.mu.Lock()
	l, ok := x.locks[repoIdentifier]
	if !ok {
		l = &keyLock{}
		x.locks[repoIdentifier] = l
	}
	l.refs++
	x.mu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()

			x.mu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(x.locks, repoIdentifier)
			}
			x.mu.Unlock()
		})
	}
}

func validateIdentifier(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return goerr.Wrap(types.ErrWorkspace, "invalid repository identifier", goerr.V("identifier", id))
	}
	return nil
}
