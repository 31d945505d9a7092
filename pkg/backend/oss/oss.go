// Package oss implements the storage backend on Alibaba Cloud OSS.
// OSS speaks the S3 protocol with virtual-hosted buckets, so the backend relies on minio-go.
package oss

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v6"
	"github.com/minio/minio-go/v6/pkg/credentials"
)

// ProviderName is the identifier returned by Provider.
const ProviderName = "oss"

// DefaultRegion is used when neither a region nor an endpoint is configured.
const DefaultRegion = "cn-hangzhou"

var (
	// ErrBucketRequired is returned by New when no bucket is configured.
	ErrBucketRequired = errors.New("bucket is required")
	// ErrCredentialsRequired is returned by New when the access key pair is incomplete.
	ErrCredentialsRequired = errors.New("access key id and secret are required")
)

// Config holds the OSS backend settings.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// API is the subset of the minio client used by the backend.
type API interface {
	ListObjectsV2(bucketName, objectPrefix string, recursive bool, doneCh <-chan struct{}) <-chan minio.ObjectInfo
	StatObjectWithContext(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PutObjectWithContext(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (int64, error)
	GetObjectReader(ctx context.Context, bucketName, objectName string) (io.ReadCloser, error)
}

// Backend implements backend.Backend on an OSS bucket.
type Backend struct {
	bucket string
	client API
	log    *slog.Logger
}

// New creates the OSS backend. No request is sent to the service.
func New(cfg Config) (*Backend, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("oss: %w", ErrBucketRequired)
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("oss: %w", ErrCredentialsRequired)
	}
	endpoint, secure := Endpoint(cfg.Region, cfg.Endpoint)
	client, err := minio.NewWithOptions(endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       secure,
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupDNS,
	})
	if err != nil {
		return nil, fmt.Errorf("oss: error creating client: %w", err)
	}
	return NewWithClient(cfg.Bucket, &minioClient{Client: client}), nil
}

// NewWithClient creates the backend on an existing client.
func NewWithClient(bucket string, client API) *Backend {
	return &Backend{
		bucket: bucket,
		client: client,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Endpoint returns the host to contact and whether TLS must be used.
// An explicit endpoint may carry an http:// or https:// scheme.
func Endpoint(region, endpoint string) (string, bool) {
	if endpoint == "" {
		if region == "" {
			region = DefaultRegion
		}
		return fmt.Sprintf("oss-%s.aliyuncs.com", strings.TrimPrefix(region, "oss-")), true
	}
	switch {
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "http://"), "/"), false
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "https://"), "/"), true
	}
	return strings.TrimSuffix(endpoint, "/"), true
}

// SetLogger sets the logger
func (b *Backend) SetLogger(log *slog.Logger) {
	b.log = log
}

// Provider returns "oss".
func (b *Backend) Provider() string {
	return ProviderName
}

// Close is a no-op.
func (b *Backend) Close() error {
	return nil
}

// minioClient adds an eager GetObject to *minio.Client.
type minioClient struct {
	*minio.Client
}

// GetObjectReader opens the object and stats it so that a missing key fails here
// rather than on the first Read.
func (c *minioClient) GetObjectReader(ctx context.Context, bucketName, objectName string) (io.ReadCloser, error) {
	obj, err := c.GetObjectWithContext(ctx, bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}
