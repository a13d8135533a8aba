package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gots/slice"
	"github.com/urfave/cli/v3"

	"github.com/devstudio-sec/devscan/pkg/cli/config"
	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/domain/model"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/infra"
	"github.com/devstudio-sec/devscan/pkg/usecase"
	"github.com/devstudio-sec/devscan/pkg/utils/logging"
)

// ErrScanFailed is returned when the envelope of a scan has the error status so
// that the process exits non-zero.
var ErrScanFailed = goerr.New("scan failed")

type scanOptions struct {
	repoURL  string
	token    string
	asJSON   bool
	noBanner bool
}

func scanCommand(stdout io.Writer) *cli.Command {
	var (
		opts scanOptions

		pipeline config.Pipeline
		bigQuery config.BigQuery
		artifact config.Artifact
		sentry   config.Sentry
	)

	return &cli.Command{
		Name:    "scan",
		Aliases: []string{"sc"},
		Usage:   "Clone a repository, scan it with semgrep and print the findings",
		Flags: slice.Flatten([]cli.Flag{
			&cli.StringFlag{
				Name:        "repo",
				Aliases:     []string{"r"},
				Usage:       "https URL of the repository to scan",
				Required:    true,
				Destination: &opts.repoURL,
			},
			&cli.StringFlag{
				Name:        "token",
				Aliases:     []string{"t"},
				Usage:       "Access token used to clone the repository",
				Required:    true,
				Sources:     cli.EnvVars("DEVSCAN_TOKEN"),
				Destination: &opts.token,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "Print the result envelope as JSON",
				Destination: &opts.asJSON,
			},
			&cli.BoolFlag{
				Name:        "no-banner",
				Usage:       "Do not print the banner",
				Sources:     cli.EnvVars("DEVSCAN_NO_BANNER"),
				Destination: &opts.noBanner,
			},
		}, pipeline.Flags(), bigQuery.Flags(), artifact.Flags(), sentry.Flags()),
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Debug("starting scan",
				slog.Any("repository", opts.repoURL),
				slog.Any("Pipeline", &pipeline),
				slog.Any("BigQuery", &bigQuery),
				slog.Any("Artifact", &artifact),
			)

			if err := sentry.Configure(ctx); err != nil {
				return err
			}

			infraOptions, err := pipeline.InfraOptions()
			if err != nil {
				return err
			}
			exportOptions, err := exportInfraOptions(ctx, &bigQuery, &artifact)
			if err != nil {
				return err
			}
			infraOptions = append(infraOptions, exportOptions...)

			uc := usecase.New(infra.New(infraOptions...), pipeline.UseCaseOptions()...)

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runScan(ctx, uc, stdout, opts)
		},
	}
}

func runScan(ctx context.Context, uc interfaces.UseCase, w io.Writer, opts scanOptions) error {
	if !opts.asJSON && !opts.noBanner {
		printBanner(w)
	}

	env := uc.RunScan(ctx, &model.RunScanInput{
		RepositoryURL: opts.repoURL,
		Credential:    types.Credential(opts.token),
	})

	if opts.asJSON {
		if err := writeJSON(w, env); err != nil {
			return err
		}
	} else {
		writeReport(w, env)
	}

	if !env.Succeeded() {
		return goerr.Wrap(ErrScanFailed, env.Message, goerr.V("job_id", env.JobID))
	}
	return nil
}
