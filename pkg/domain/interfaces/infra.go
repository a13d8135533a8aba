package interfaces

//go:generate moq -out ../mock/infra.go -pkg mock . Executor RepositoryFetcher Scanner Workspace BigQuery ArtifactStore

import (
	"context"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/devstudio-sec/devscan/pkg/domain/model"
)

// Executor runs an external process. A non-zero exit code is reported in the
// result, not as an error.
type Executor interface {
	Execute(ctx context.Context, cmd *model.ExecCommand) (*model.ExecResult, error)
}

// RepositoryFetcher clones target into dst. dst must be empty or absent.
type RepositoryFetcher interface {
	Fetch(ctx context.Context, target *model.AuthTarget, dst string) error
}

// Scanner runs the static-analysis tool over path and returns its raw structured output.
type Scanner interface {
	Scan(ctx context.Context, path string, timeout time.Duration) ([]byte, error)
}

type Workspace interface {
	Prepare(ctx context.Context, baseDir, repoIdentifier string) (string, error)
	Release(ctx context.Context, path string)
	Lock(repoIdentifier string) (unlock func())
}

type BigQueryInsertOption func(*BigQueryInsertConfig)

type BigQueryInsertConfig struct {
	EnableRetry bool
}

func WithRetry(retry bool) BigQueryInsertOption {
	return func(c *BigQueryInsertConfig) {
		c.EnableRetry = retry
	}
}

type BigQuery interface {
	Insert(ctx context.Context, schema bigquery.Schema, data any, opts ...BigQueryInsertOption) error

	GetMetadata(ctx context.Context) (*bigquery.TableMetadata, error)
	UpdateTable(ctx context.Context, md bigquery.TableMetadataToUpdate, eTag string) error
	CreateTable(ctx context.Context, md *bigquery.TableMetadata) error
}

// ArtifactStore keeps raw scanner output. Put returns a URL identifying the stored object.
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
}
