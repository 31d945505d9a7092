// Package config describes how to reach a storage backend.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// Provider identifies a storage backend.
type Provider string

const (
	// ProviderOSS is Alibaba Cloud Object Storage Service.
	ProviderOSS Provider = "oss"
	// ProviderS3 is Amazon S3 or any S3-compatible service such as MinIO.
	ProviderS3 Provider = "s3"
	// ProviderFS is a local directory tree.
	ProviderFS Provider = "fs"
)

// LocalBucket is the bucket name reported by the local filesystem provider.
const LocalBucket = "local"

var (
	// ErrUnknownProvider is returned when the provider name is not supported.
	ErrUnknownProvider = errors.New("unknown storage provider")
	// ErrBucketRequired is returned when a cloud provider has no bucket.
	ErrBucketRequired = errors.New("bucket is required")
	// ErrCredentialsRequired is returned when a cloud provider has no usable credentials.
	ErrCredentialsRequired = errors.New("access key id and secret are required")
	// ErrRootPathRequired is returned when the local provider has no root path.
	ErrRootPathRequired = errors.New("root path is required")
)

// ParseProvider converts a provider name, case insensitive. "minio" is an alias of "s3".
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "oss":
		return ProviderOSS, nil
	case "s3", "minio":
		return ProviderS3, nil
	case "fs", "local":
		return ProviderFS, nil
	}
	return "", fmt.Errorf("%w: %q (expected oss, s3, minio or fs)", ErrUnknownProvider, s)
}

func (p Provider) String() string {
	return string(p)
}

// StorageConfig is the immutable description of a backend.
type StorageConfig struct {
	Provider        Provider
	Bucket          string
	AccessKeyID     string
	AccessKeySecret string
	Endpoint        string
	Region          string
	RootPath        string
	Profile         string
}

// NewOSSConfig returns the configuration of an OSS bucket.
func NewOSSConfig(bucket, accessKeyID, accessKeySecret, region string) StorageConfig {
	return StorageConfig{
		Provider:        ProviderOSS,
		Bucket:          bucket,
		AccessKeyID:     accessKeyID,
		AccessKeySecret: accessKeySecret,
		Region:          region,
	}
}

// NewS3Config returns the configuration of an S3 (or MinIO) bucket.
func NewS3Config(bucket, accessKeyID, accessKeySecret, region string) StorageConfig {
	return StorageConfig{
		Provider:        ProviderS3,
		Bucket:          bucket,
		AccessKeyID:     accessKeyID,
		AccessKeySecret: accessKeySecret,
		Region:          region,
	}
}

// NewFSConfig returns the configuration of a local tree rooted at rootPath.
func NewFSConfig(rootPath string) StorageConfig {
	return StorageConfig{
		Provider: ProviderFS,
		Bucket:   LocalBucket,
		RootPath: rootPath,
	}
}

// WithEndpoint returns a copy of c using a custom endpoint.
func (c StorageConfig) WithEndpoint(endpoint string) StorageConfig {
	c.Endpoint = endpoint
	return c
}

// Validate checks that c is well-formed. It never contacts the backend.
func (c StorageConfig) Validate() error {
	switch c.Provider {
	case ProviderOSS:
		if c.Bucket == "" {
			return fmt.Errorf("oss: %w", ErrBucketRequired)
		}
		if c.AccessKeyID == "" || c.AccessKeySecret == "" {
			return fmt.Errorf("oss: %w", ErrCredentialsRequired)
		}
	case ProviderS3:
		if c.Bucket == "" {
			return fmt.Errorf("s3: %w", ErrBucketRequired)
		}
		// an incomplete pair is an error, no keys at all means profile or default chain
		if (c.AccessKeyID == "") != (c.AccessKeySecret == "") {
			return fmt.Errorf("s3: %w", ErrCredentialsRequired)
		}
	case ProviderFS:
		if c.RootPath == "" {
			return fmt.Errorf("fs: %w", ErrRootPathRequired)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, string(c.Provider))
	}
	return nil
}

// Config is the struct for the configuration file
type Config struct {
	Provider  string `yaml:"provider"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"accesskey"`
	SecretKey string `yaml:"secretkey"`
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	RootPath  string `yaml:"rootpath"`
	Profile   string `yaml:"profile"`
	LogLevel  string `yaml:"loglevel"`
}

// ReadYamlCnxFile reads a yaml file and returns a Config struct
func ReadYamlCnxFile(filename string) (Config, error) {
	var config Config

	yamlFile, err := os.ReadFile(filename)
	if err != nil {
		return config, fmt.Errorf("error reading YAML file: %w", err)
	}

	err = yaml.Unmarshal(yamlFile, &config)
	if err != nil {
		return config, fmt.Errorf("error parsing YAML file: %w", err)
	}
	return config, nil
}

// Storage converts the file configuration into a StorageConfig.
// An empty provider defaults to s3.
func (c Config) Storage() (StorageConfig, error) {
	name := c.Provider
	if name == "" {
		name = string(ProviderS3)
	}
	provider, err := ParseProvider(name)
	if err != nil {
		return StorageConfig{}, err
	}

	var sc StorageConfig
	switch provider {
	case ProviderOSS:
		sc = NewOSSConfig(c.Bucket, c.AccessKey, c.SecretKey, c.Region)
	case ProviderS3:
		sc = NewS3Config(c.Bucket, c.AccessKey, c.SecretKey, c.Region)
		sc.Profile = c.Profile
	case ProviderFS:
		sc = NewFSConfig(c.RootPath)
	}
	if provider != ProviderFS {
		sc = sc.WithEndpoint(c.Endpoint)
	}
	return sc, nil
}
