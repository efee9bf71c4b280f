package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/hra/pkg/domain/interfaces"
	"github.com/secmon-lab/hra/pkg/service/storage"
	"github.com/secmon-lab/hra/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Storage holds CLI flags for the photo store
type Storage struct {
	bucket        string
	prefix        string
	publicBaseURL string
	memory        bool
}

func (s *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-bucket",
			Usage:       "Google Cloud Storage bucket for hazard, risk and profile photos",
			Category:    "Storage",
			Sources:     cli.EnvVars("HRA_STORAGE_BUCKET"),
			Destination: &s.bucket,
		},
		&cli.StringFlag{
			Name:        "storage-prefix",
			Usage:       "Object name prefix inside the bucket",
			Category:    "Storage",
			Sources:     cli.EnvVars("HRA_STORAGE_PREFIX"),
			Destination: &s.prefix,
		},
		&cli.StringFlag{
			Name:        "storage-public-base-url",
			Usage:       "Base URL of returned photo links (default https://storage.googleapis.com/<bucket>)",
			Category:    "Storage",
			Sources:     cli.EnvVars("HRA_STORAGE_PUBLIC_BASE_URL"),
			Destination: &s.publicBaseURL,
		},
		&cli.BoolFlag{
			Name:        "storage-memory",
			Usage:       "Keep uploaded photos in memory (development only)",
			Category:    "Storage",
			Sources:     cli.EnvVars("HRA_STORAGE_MEMORY"),
			Destination: &s.memory,
		},
	}
}

func (s Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("bucket", s.bucket),
		slog.String("prefix", s.prefix),
		slog.Bool("memory", s.memory),
	)
}

// Configure returns the photo store, or nil when uploads are disabled. The returned function
// releases the client.
func (s *Storage) Configure(ctx context.Context) (interfaces.PhotoStorage, func(), error) {
	switch {
	case s.bucket != "" && s.memory:
		return nil, nil, goerr.New("storage-bucket and storage-memory are mutually exclusive")

	case s.bucket != "":
		var opts []storage.Option
		if s.prefix != "" {
			opts = append(opts, storage.WithPrefix(s.prefix))
		}
		if s.publicBaseURL != "" {
			opts = append(opts, storage.WithPublicBaseURL(s.publicBaseURL))
		}
		gcs, err := storage.NewGCS(ctx, s.bucket, opts...)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to initialize photo storage", goerr.V("bucket", s.bucket))
		}
		logging.Default().Info("Using Cloud Storage for photos", "bucket", s.bucket)
		return gcs, func() {
			if err := gcs.Close(); err != nil {
				logging.Default().Error("failed to close storage client", "error", err)
			}
		}, nil

	case s.memory:
		logging.Default().Info("Using in-memory photo storage (development mode)")
		return storage.NewMemory(), func() {}, nil

	default:
		logging.Default().Warn("Photo storage not configured, uploads are disabled")
		return nil, func() {}, nil
	}
}
