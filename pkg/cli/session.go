package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sgaunet/s3dfs/pkg/backend"
	"github.com/sgaunet/s3dfs/pkg/dfs"
	"github.com/sgaunet/s3dfs/pkg/metrics"
	"github.com/sgaunet/s3dfs/pkg/storage"
)

// session is the backend and client of one command run.
type session struct {
	log         *slog.Logger
	be          backend.Backend
	client      *dfs.Client
	collector   *metrics.Collector
	metricsFile string
}

// openSession resolves the configuration and connects to the backend.
func openSession(ctx context.Context, v *viper.Viper, stdout, stderr io.Writer) (*session, error) {
	cfg, err := resolveConfig(v)
	if err != nil {
		return nil, err
	}
	log := initTrace(cfg.LogLevel, stderr)

	storageCfg, err := cfg.Storage()
	if err != nil {
		return nil, err
	}
	be, err := storage.Open(ctx, storageCfg, log)
	if err != nil {
		return nil, err
	}

	s := &session{
		log:         log,
		metricsFile: v.GetString(flagMetricsFile),
	}
	if s.metricsFile != "" {
		s.collector = metrics.NewCollector(metrics.DefaultNamespace)
		be = backend.NewInstrumented(be, s.collector)
	}
	s.be = be

	s.client = dfs.NewClient(be, stdout)
	s.client.SetLogger(log)
	s.client.SetMetrics(s.collector)
	log.Debug("session opened",
		slog.String("provider", storageCfg.Provider.String()),
		slog.String("bucket", storageCfg.Bucket))
	return s, nil
}

// Close releases the backend and writes the metrics file if requested.
func (s *session) Close() error {
	err := s.be.Close()
	if s.collector != nil {
		if werr := s.collector.WriteToTextfile(s.metricsFile); werr != nil {
			err = errors.Join(err, werr)
		}
	}
	return err
}

// runE adapts an operation on the client into a cobra RunE function.
func runE(v *viper.Viper, stdout, stderr io.Writer, fn func(ctx context.Context, c *dfs.Client, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		s, err := openSession(ctx, v, stdout, stderr)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := s.Close(); cerr != nil {
				err = errors.Join(err, fmt.Errorf("error closing session: %w", cerr))
			}
		}()
		return fn(ctx, s.client, args)
	}
}
