// Package storage builds the backend described by a config.StorageConfig.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sgaunet/s3dfs/pkg/backend"
	"github.com/sgaunet/s3dfs/pkg/backend/awss3"
	"github.com/sgaunet/s3dfs/pkg/backend/localfs"
	"github.com/sgaunet/s3dfs/pkg/backend/oss"
	"github.com/sgaunet/s3dfs/pkg/config"
)

// Open validates cfg and creates the matching backend.
// The logger is handed to the backend for per-call debug traces.
func Open(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (backend.Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid storage configuration: %w", err)
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log = log.With(slog.String("provider", cfg.Provider.String()))

	switch cfg.Provider {
	case config.ProviderOSS:
		b, err := oss.New(oss.Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKeyID,
			SecretKey: cfg.AccessKeySecret,
		})
		if err != nil {
			return nil, err
		}
		b.SetLogger(log)
		return b, nil
	case config.ProviderS3:
		b, err := awss3.New(ctx, awss3.Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKeyID,
			SecretKey: cfg.AccessKeySecret,
			Profile:   cfg.Profile,
		})
		if err != nil {
			return nil, err
		}
		b.SetLogger(log)
		return b, nil
	case config.ProviderFS:
		b, err := localfs.New(localfs.Config{RootPath: cfg.RootPath})
		if err != nil {
			return nil, err
		}
		b.SetLogger(log)
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownProvider, cfg.Provider.String())
	}
}
