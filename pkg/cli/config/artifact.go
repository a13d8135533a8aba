package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
	"github.com/devstudio-sec/devscan/pkg/domain/types"
	"github.com/devstudio-sec/devscan/pkg/infra/gcs"
	"github.com/devstudio-sec/devscan/pkg/infra/s3"
)

// Artifact selects where raw scanner output is archived: a Cloud Storage
// bucket or an S3 compatible endpoint such as MinIO.
type Artifact struct {
	gcsBucket string
	gcsPrefix string

	s3Endpoint  string
	s3Region    string
	s3Bucket    string
	s3AccessKey string
	s3SecretKey string `masq:"secret"`
	s3UseSSL    bool
}

func (x *Artifact) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "artifact-gcs-bucket",
			Usage:       "Cloud Storage bucket for raw scanner output (optional)",
			Category:    "Artifact",
			Sources:     cli.EnvVars("DEVSCAN_ARTIFACT_GCS_BUCKET"),
			Destination: &x.gcsBucket,
		},
		&cli.StringFlag{
			Name:        "artifact-gcs-prefix",
			Usage:       "Object name prefix in the Cloud Storage bucket",
			Category:    "Artifact",
			Sources:     cli.EnvVars("DEVSCAN_ARTIFACT_GCS_PREFIX"),
			Destination: &x.gcsPrefix,
		},
		&cli.StringFlag{
			Name:        "artifact-s3-endpoint",
			Usage:       "S3 compatible endpoint (host:port) for raw scanner output (optional)",
			Category:    "Artifact",
			Sources:     cli.EnvVars("DEVSCAN_ARTIFACT_S3_ENDPOINT"),
			Destination: &x.s3Endpoint,
		},
		&cli.StringFlag{
			Name:        "artifact-s3-region",
			Usage:       "S3 region",
			Category:    "Artifact",
			Sources:     cli.EnvVars("DEVSCAN_ARTIFACT_S3_REGION"),
			Destination: &x.s3Region,
		},
		&cli.StringFlag{
			Name:        "artifact-s3-bucket",
			Usage:       "S3 bucket",
			Category:    "Artifact",
			Value:       "devscan",
			Sources:     cli.EnvVars("DEVSCAN_ARTIFACT_S3_BUCKET"),
			Destination: &x.s3Bucket,
		},
		&cli.StringFlag{
			Name:        "artifact-s3-access-key",
			Usage:       "S3 access key",
			Category:    "Artifact",
			Sources:     cli.EnvVars("DEVSCAN_ARTIFACT_S3_ACCESS_KEY"),
			Destination: &x.s3AccessKey,
		},
		&cli.StringFlag{
			Name:        "artifact-s3-secret-key",
			Usage:       "S3 secret key",
			Category:    "Artifact",
			Sources:     cli.EnvVars("DEVSCAN_ARTIFACT_S3_SECRET_KEY"),
			Destination: &x.s3SecretKey,
		},
		&cli.BoolFlag{
			Name:        "artifact-s3-use-ssl",
			Usage:       "Use TLS for the S3 endpoint",
			Category:    "Artifact",
			Value:       true,
			Sources:     cli.EnvVars("DEVSCAN_ARTIFACT_S3_USE_SSL"),
			Destination: &x.s3UseSSL,
		},
	}
}

func (x *Artifact) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("GCSBucket", x.gcsBucket),
		slog.String("GCSPrefix", x.gcsPrefix),
		slog.String("S3Endpoint", x.s3Endpoint),
		slog.String("S3Bucket", x.s3Bucket),
		slog.Int("S3SecretKey.len", len(x.s3SecretKey)),
	)
}

// NewStore returns nil without an error if no store is configured.
func (x *Artifact) NewStore(ctx context.Context) (interfaces.ArtifactStore, error) {
	switch {
	case x.gcsBucket != "" && x.s3Endpoint != "":
		return nil, goerr.Wrap(types.ErrInvalidOption, "only one of Cloud Storage and S3 artifact stores can be configured")

	case x.gcsBucket != "":
		return gcs.New(ctx, x.gcsBucket, x.gcsPrefix)

	case x.s3Endpoint != "":
		return s3.New(ctx, s3.Config{
			Endpoint:  x.s3Endpoint,
			Region:    x.s3Region,
			Bucket:    x.s3Bucket,
			AccessKey: x.s3AccessKey,
			SecretKey: x.s3SecretKey,
			UseSSL:    x.s3UseSSL,
		})

	default:
		return nil, nil
	}
}
