package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gots/slice"
	"github.com/urfave/cli/v3"

	"github.com/devstudio-sec/devscan/pkg/cli/config"
	"github.com/devstudio-sec/devscan/pkg/controller/server"
	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/infra"
	"github.com/devstudio-sec/devscan/pkg/repository/memory"
	"github.com/devstudio-sec/devscan/pkg/usecase"
	"github.com/devstudio-sec/devscan/pkg/utils/logging"
	"github.com/devstudio-sec/devscan/pkg/utils/safe"
)

func serveCommand() *cli.Command {
	var (
		addr        string
		corsOrigins []string

		pipeline  config.Pipeline
		firestore config.Firestore
		postgres  config.Postgres
		bigQuery  config.BigQuery
		artifact  config.Artifact
		github    config.GitHub
		sentry    config.Sentry
	)
	serveFlags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Binding address",
			Value:       "127.0.0.1:8000",
			Sources:     cli.EnvVars("DEVSCAN_ADDR"),
			Destination: &addr,
		},
		&cli.StringSliceFlag{
			Name:        "cors-origin",
			Usage:       "Origin allowed to call the API from a browser (repeatable)",
			Sources:     cli.EnvVars("DEVSCAN_CORS_ORIGIN"),
			Destination: &corsOrigins,
		},
	}

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Server mode",
		Flags: slice.Flatten(
			serveFlags,
			pipeline.Flags(),
			firestore.Flags(),
			postgres.Flags(),
			bigQuery.Flags(),
			artifact.Flags(),
			github.Flags(),
			sentry.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("starting serve",
				slog.Any("Addr", addr),
				slog.Any("CORSOrigins", corsOrigins),
				slog.Any("Pipeline", &pipeline),
				slog.Any("Firestore", &firestore),
				slog.Any("Postgres", &postgres),
				slog.Any("BigQuery", &bigQuery),
				slog.Any("Artifact", &artifact),
				slog.Any("GitHub", github),
				slog.Any("Sentry", &sentry),
			)

			if err := sentry.Configure(ctx); err != nil {
				return err
			}

			infraOptions, err := pipeline.InfraOptions()
			if err != nil {
				return err
			}

			repo, closeRepo, err := newNotificationRepository(ctx, &firestore, &postgres)
			if err != nil {
				return err
			}
			defer closeRepo()
			infraOptions = append(infraOptions, infra.WithNotificationRepository(repo))

			exportOptions, err := exportInfraOptions(ctx, &bigQuery, &artifact)
			if err != nil {
				return err
			}
			infraOptions = append(infraOptions, exportOptions...)

			clients := infra.New(infraOptions...)
			uc := usecase.New(clients, pipeline.UseCaseOptions()...)

			serverOptions := []server.Option{
				server.WithGitHubSecret(github.Secret()),
				server.WithGitHubToken(github.Token()),
			}
			if len(corsOrigins) > 0 {
				serverOptions = append(serverOptions, server.WithCORSOrigins(corsOrigins...))
			}
			s := server.New(uc, serverOptions...)

			serverErr := make(chan error, 1)
			httpServer := &http.Server{
				Addr:    addr,
				Handler: s.Mux(),

				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				// send_query holds the connection for the whole scan
				WriteTimeout: pipeline.JobTimeout(),
			}

			go func() {
				logging.Default().Info("starting http server", "addr", addr)
				if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
					serverErr <- goerr.Wrap(err, "failed to listen and serve")
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-serverErr:
				return err

			case sig := <-quit:
				logging.Default().Info("shutting down server", "signal", sig)

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := httpServer.Shutdown(ctx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server")
				}
			}

			return nil
		},
	}
}

// newNotificationRepository picks the configured notification backend. Without
// one, notifications are kept in memory and lost on restart.
func newNotificationRepository(ctx context.Context, fs *config.Firestore, pg *config.Postgres) (interfaces.NotificationRepository, func(), error) {
	nop := func() {}

	switch {
	case fs.Enabled() && pg.Enabled():
		return nil, nop, goerr.Wrap(types.ErrInvalidOption, "firestore and postgres are mutually exclusive")

	case fs.Enabled():
		repo, err := fs.NewRepository(ctx)
		if err != nil {
			return nil, nop, err
		}
		return repo, nop, nil

	case pg.Enabled():
		repo, err := pg.NewRepository(ctx)
		if err != nil {
			return nil, nop, err
		}
		return repo, func() { safe.Close(repo) }, nil

	default:
		logging.From(ctx).Warn("no notification database configured, notifications are kept in memory")
		return memory.New(), nop, nil
	}
}

// exportInfraOptions builds the optional BigQuery and artifact store clients.
func exportInfraOptions(ctx context.Context, bq *config.BigQuery, artifact *config.Artifact) ([]infra.Option, error) {
	var options []infra.Option

	bqClient, err := bq.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	if bqClient != nil {
		options = append(options, infra.WithBigQuery(bqClient))
	}

	store, err := artifact.NewStore(ctx)
	if err != nil {
		return nil, err
	}
	if store != nil {
		options = append(options, infra.WithArtifactStore(store))
	}

	return options, nil
}
