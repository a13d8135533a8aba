package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/infra"
	"github.com/devstudio-sec/devscan/pkg/infra/executor"
	"github.com/devstudio-sec/devscan/pkg/infra/git"
	"github.com/devstudio-sec/devscan/pkg/infra/semgrep"
	"github.com/devstudio-sec/devscan/pkg/infra/workspace"
	"github.com/devstudio-sec/devscan/pkg/usecase"
)

const (
	FetcherGit   = "git"
	FetcherGoGit = "go-git"
)

// Pipeline holds the settings of the clone and scan pipeline.
type Pipeline struct {
	workspaceDir   string
	fetcher        string
	gitPath        string
	cloneTimeout   time.Duration
	semgrepPath    string
	semgrepConfigs []string
	scanTimeout    time.Duration
	maxScans       int64
	maxOutput      int64
}

func (x *Pipeline) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "workspace-dir",
			Usage:       "Base directory of per-repository workspaces (default: $TMPDIR/devscan)",
			Category:    "Pipeline",
			Destination: &x.workspaceDir,
			Sources:     cli.EnvVars("DEVSCAN_WORKSPACE_DIR"),
		},
		&cli.StringFlag{
			Name:        "fetcher",
			Usage:       "Repository fetcher [git|go-git]",
			Category:    "Pipeline",
			Value:       FetcherGit,
			Destination: &x.fetcher,
			Sources:     cli.EnvVars("DEVSCAN_FETCHER"),
		},
		&cli.StringFlag{
			Name:        "git-path",
			Usage:       "Path to git binary",
			Category:    "Pipeline",
			Value:       "git",
			Destination: &x.gitPath,
			Sources:     cli.EnvVars("DEVSCAN_GIT_PATH"),
		},
		&cli.DurationFlag{
			Name:        "clone-timeout",
			Usage:       "Timeout of a repository clone",
			Category:    "Pipeline",
			Value:       git.DefaultCloneTimeout,
			Destination: &x.cloneTimeout,
			Sources:     cli.EnvVars("DEVSCAN_CLONE_TIMEOUT"),
		},
		&cli.StringFlag{
			Name:        "semgrep-path",
			Usage:       "Path to semgrep binary",
			Category:    "Pipeline",
			Value:       "semgrep",
			Destination: &x.semgrepPath,
			Sources:     cli.EnvVars("DEVSCAN_SEMGREP_PATH"),
		},
		&cli.StringSliceFlag{
			Name:        "semgrep-config",
			Usage:       "semgrep rule configuration, can be repeated",
			Category:    "Pipeline",
			Value:       []string{semgrep.DefaultConfig},
			Destination: &x.semgrepConfigs,
			Sources:     cli.EnvVars("DEVSCAN_SEMGREP_CONFIG"),
		},
		&cli.DurationFlag{
			Name:        "scan-timeout",
			Usage:       "Wall-clock timeout of a scan",
			Category:    "Pipeline",
			Value:       usecase.DefaultScanTimeout,
			Destination: &x.scanTimeout,
			Sources:     cli.EnvVars("DEVSCAN_SCAN_TIMEOUT"),
		},
		&cli.Int64Flag{
			Name:        "max-concurrent-scans",
			Usage:       "Maximum number of scans running at the same time",
			Category:    "Pipeline",
			Value:       usecase.DefaultMaxConcurrentScans,
			Destination: &x.maxScans,
			Sources:     cli.EnvVars("DEVSCAN_MAX_CONCURRENT_SCANS"),
		},
		&cli.Int64Flag{
			Name:        "max-output-bytes",
			Usage:       "Maximum stdout captured from git and semgrep, 0 for no limit",
			Category:    "Pipeline",
			Value:       executor.DefaultStdoutLimit,
			Destination: &x.maxOutput,
			Sources:     cli.EnvVars("DEVSCAN_MAX_OUTPUT_BYTES"),
		},
	}
}

func (x *Pipeline) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("WorkspaceDir", x.workspaceDir),
		slog.String("Fetcher", x.fetcher),
		slog.String("GitPath", x.gitPath),
		slog.Duration("CloneTimeout", x.cloneTimeout),
		slog.String("SemgrepPath", x.semgrepPath),
		slog.Any("SemgrepConfigs", x.semgrepConfigs),
		slog.Duration("ScanTimeout", x.scanTimeout),
		slog.Int64("MaxConcurrentScans", x.maxScans),
		slog.Int64("MaxOutputBytes", x.maxOutput),
	)
}

// InfraOptions builds the executor, fetcher, scanner and workspace clients.
func (x *Pipeline) InfraOptions() ([]infra.Option, error) {
	exec := executor.New(executor.WithStdoutLimit(int(x.maxOutput)))

	var fetcher interfaces.RepositoryFetcher
	switch x.fetcher {
	case FetcherGit, "":
		fetcher = git.NewCommandFetcher(exec,
			git.WithGitPath(x.gitPath),
			git.WithCloneTimeout(x.cloneTimeout),
		)
	case FetcherGoGit:
		fetcher = git.NewGoGitFetcher(x.cloneTimeout)
	default:
		return nil, goerr.Wrap(types.ErrInvalidOption, "unknown fetcher", goerr.V("fetcher", x.fetcher))
	}

	return []infra.Option{
		infra.WithExecutor(exec),
		infra.WithFetcher(fetcher),
		infra.WithScanner(semgrep.New(exec,
			semgrep.WithPath(x.semgrepPath),
			semgrep.WithConfig(x.semgrepConfigs...),
		)),
		infra.WithWorkspace(workspace.New()),
	}, nil
}

// JobTimeout bounds a whole synchronous scan request: clone, scan and the
// response write.
func (x *Pipeline) JobTimeout() time.Duration {
	return x.cloneTimeout + x.scanTimeout + time.Minute
}

func (x *Pipeline) UseCaseOptions() []usecase.Option {
	options := []usecase.Option{
		usecase.WithScanTimeout(x.scanTimeout),
		usecase.WithMaxConcurrentScans(int(x.maxScans)),
	}
	if x.workspaceDir != "" {
		options = append(options, usecase.WithWorkspaceDir(x.workspaceDir))
	}
	return options
}
