package usecase

import (
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/infra"
)

const (
	DefaultScanTimeout        = 10 * time.Minute
	DefaultMaxConcurrentScans = 4
)

type UseCase struct {
	clients      *infra.Clients
	workspaceDir string
	scanTimeout  time.Duration
	maxScans     int64
	scanSem      *semaphore.Weighted
}

var _ interfaces.UseCase = (*UseCase)(nil)

type Option func(*UseCase)

// WithWorkspaceDir sets the base directory under which per-repository
// workspaces are created.
func WithWorkspaceDir(dir string) Option {
	return func(x *UseCase) {
		x.workspaceDir = dir
	}
}

func WithScanTimeout(d time.Duration) Option {
	return func(x *UseCase) {
		x.scanTimeout = d
	}
}

// WithMaxConcurrentScans limits the number of jobs that run at the same time.
// Values below 1 are ignored.
func WithMaxConcurrentScans(n int) Option {
	return func(x *UseCase) {
		if n > 0 {
			x.maxScans = int64(n)
		}
	}
}

func New(clients *infra.Clients, options ...Option) *UseCase {
	uc := &UseCase{
		clients:      clients,
		workspaceDir: filepath.Join(os.TempDir(), "devscan"),
		scanTimeout:  DefaultScanTimeout,
		maxScans:     DefaultMaxConcurrentScans,
	}

	for _, opt := range options {
		opt(uc)
	}

	uc.scanSem = semaphore.NewWeighted(uc.maxScans)
	return uc
}
