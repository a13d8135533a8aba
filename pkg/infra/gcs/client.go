package gcs

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"

	"github.com/devstudio-sec/devscan/pkg/domain/interfaces"
)

// Client stores scanner output in a Cloud Storage bucket.
type Client struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ interfaces.ArtifactStore = (*Client)(nil)

func New(ctx context.Context, bucket, prefix string, options ...option.ClientOption) (*Client, error) {
	client, err := storage.NewClient(ctx, options...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client", goerr.V("bucket", bucket))
	}

	return &Client{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

// ObjectName joins prefix and key into an object name.
func ObjectName(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return path.Join(prefix, key)
}

// Put implements interfaces.ArtifactStore and returns a gs:// URL.
func (x *Client) Put(ctx context.Context, key string, data []byte) (string, error) {
	name := ObjectName(x.prefix, key)

	w := x.client.Bucket(x.bucket).Object(name).NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to write object", goerr.V("bucket", x.bucket), goerr.V("object", name))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize object", goerr.V("bucket", x.bucket), goerr.V("object", name))
	}

	return "gs://" + x.bucket + "/" + name, nil
}
