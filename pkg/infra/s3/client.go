package s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
)

// Client stores scanner output in an S3 compatible bucket such as MinIO.
type Client struct {
	client *minio.Client
	bucket string
}

var _ interfaces.ArtifactStore = (*Client)(nil)

type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string `masq:"secret"`
	UseSSL    bool
}

// New connects to the endpoint and creates the bucket if it does not exist.
func New(ctx context.Context, cfg Config) (*Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create S3 client", goerr.V("endpoint", cfg.Endpoint))
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to check bucket", goerr.V("bucket", cfg.Bucket))
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, goerr.Wrap(err, "failed to create bucket", goerr.V("bucket", cfg.Bucket))
		}
	}

	return &Client{client: client, bucket: cfg.Bucket}, nil
}

// Put implements interfaces.ArtifactStore and returns an s3:// URL.
func (x *Client) Put(ctx context.Context, key string, data []byte) (string, error) {
	_, err := x.client.PutObject(ctx, x.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to put object", goerr.V("bucket", x.bucket), goerr.V("key", key))
	}

	return fmt.Sprintf("s3://%s/%s", x.bucket, key), nil
}
