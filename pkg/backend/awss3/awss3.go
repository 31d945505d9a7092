// Package awss3 implements the storage backend on Amazon S3 and S3-compatible endpoints
// (MinIO, Ceph...) with the aws-sdk-go-v2.
package awss3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ProviderName is the identifier returned by Provider.
const ProviderName = "s3"

// DefaultRetryMaxAttempts is the number of attempts of the SDK retryer.
const DefaultRetryMaxAttempts = 3

// ErrBucketRequired is returned by New when no bucket is configured.
var ErrBucketRequired = errors.New("bucket is required")

// Config holds the S3 backend settings.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Profile   string
	// PathStyle forces path-style addressing. It is enabled automatically with a custom endpoint.
	PathStyle        bool
	RetryMaxAttempts int
}

// API is the subset of *s3.Client used by the backend.
type API interface {
	s3.ListObjectsV2APIClient
	s3.HeadObjectAPIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	manager.UploadAPIClient
}

// Backend implements backend.Backend on an S3 bucket.
type Backend struct {
	bucket   string
	client   API
	uploader *manager.Uploader
	log      *slog.Logger
}

// New loads the aws configuration described by cfg and creates the backend.
func New(ctx context.Context, cfg Config) (*Backend, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("awss3: %w", ErrBucketRequired)
	}
	awsCfg, err := LoadAwsConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
	})
	return NewWithClient(cfg.Bucket, client), nil
}

// NewWithClient creates the backend on an existing client.
// By default the logger is set to write to /dev/null
func NewWithClient(bucket string, client API) *Backend {
	return &Backend{
		bucket:   bucket,
		client:   client,
		uploader: manager.NewUploader(client),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// LoadAwsConfig returns an aws.Config.
// Static keys win over a shared profile, which wins over the default credential chain.
func LoadAwsConfig(ctx context.Context, cfg Config) (aws.Config, error) {
	attempts := cfg.RetryMaxAttempts
	if attempts <= 0 {
		attempts = DefaultRetryMaxAttempts
	}
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRetryMaxAttempts(attempts),
	}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	switch {
	case cfg.AccessKey != "" || cfg.SecretKey != "":
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	case cfg.Profile != "":
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return awsCfg, fmt.Errorf("awss3: error loading aws config: %w", err)
	}
	return awsCfg, nil
}

// SetLogger sets the logger
func (b *Backend) SetLogger(log *slog.Logger) {
	b.log = log
}

// Provider returns "s3".
func (b *Backend) Provider() string {
	return ProviderName
}

// Close is a no-op, the SDK client holds no resource that needs releasing.
func (b *Backend) Close() error {
	return nil
}
