package storage

import (
	"context"
	"io"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/interfaces"
	"github.com/secmon-lab/hra/pkg/utils/logging"
	"github.com/secmon-lab/hra/pkg/utils/safe"
)

const defaultPublicBaseURL = "https://storage.googleapis.com"

// GCS uploads photos to a Cloud Storage bucket and returns their public URL
type GCS struct {
	client        *storage.Client
	bucket        string
	prefix        string
	publicBaseURL string
}

var _ interfaces.PhotoStorage = &GCS{}

type Option func(*GCS)

// WithPrefix places every object under the given path prefix
func WithPrefix(prefix string) Option {
	return func(g *GCS) {
		g.prefix = strings.Trim(prefix, "/")
	}
}

// WithPublicBaseURL replaces https://storage.googleapis.com, e.g. for a CDN in front of the bucket
func WithPublicBaseURL(base string) Option {
	return func(g *GCS) {
		g.publicBaseURL = strings.TrimRight(base, "/")
	}
}

func NewGCS(ctx context.Context, bucket string, opts ...Option) (*GCS, error) {
	if bucket == "" {
		return nil, goerr.New("bucket is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	g := &GCS{
		client:        client,
		bucket:        bucket,
		publicBaseURL: defaultPublicBaseURL,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *GCS) objectName(object string) string {
	if g.prefix == "" {
		return object
	}
	return g.prefix + "/" + object
}

func (g *GCS) Upload(ctx context.Context, object string, contentType string, r io.Reader) (string, error) {
	name := g.objectName(object)
	w := g.client.Bucket(g.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(w, r); err != nil {
		safe.Close(ctx, "gcs object writer", w)
		return "", goerr.Wrap(err, "failed to write object", goerr.V("bucket", g.bucket), goerr.V("object", name))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize object", goerr.V("bucket", g.bucket), goerr.V("object", name))
	}

	logging.From(ctx).Info("photo uploaded", "bucket", g.bucket, "object", name, "content_type", contentType)
	return publicURL(g.publicBaseURL, g.bucket, name), nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}

func publicURL(base, bucket, object string) string {
	segments := strings.Split(object, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return base + "/" + bucket + "/" + strings.Join(segments, "/")
}
