package awss3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sgaunet/s3dfs/pkg/backend"
	"github.com/sgaunet/s3dfs/pkg/dto"
	"github.com/sgaunet/s3dfs/pkg/pathutil"
)

// Exists returns true if path is an object or a prefix holding at least one object.
// The bucket root always exists.
func (b *Backend) Exists(ctx context.Context, path string) (bool, error) {
	key := pathutil.ObjectKey(path)
	if key == "" {
		return true, nil
	}
	if !pathutil.IsDirKey(path) {
		_, err := b.statObject(ctx, key)
		if err == nil {
			return true, nil
		}
		if !backend.IsNotFound(err) {
			return false, err
		}
	}
	return b.hasChildren(ctx, path)
}

// Read downloads the whole object.
func (b *Backend) Read(ctx context.Context, path string) ([]byte, error) {
	key := pathutil.ObjectKey(path)
	b.log.Debug("Read", slog.String("key", key))
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, translateError("read", path, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, translateError("read", path, fmt.Errorf("error reading body: %w", err))
	}
	return data, nil
}

// CreateDir puts an empty "path/" marker object.
func (b *Backend) CreateDir(ctx context.Context, path string) error {
	key := pathutil.DirKey(path)
	if key == "" {
		return nil
	}
	b.log.Debug("CreateDir", slog.String("key", key))
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(nil),
		ContentLength: aws.Int64(0),
	})
	if err != nil {
		return translateError("create_dir", path, err)
	}
	return nil
}

// Stat returns the metadata of the object, or a directory entry when path is a prefix.
func (b *Backend) Stat(ctx context.Context, path string) (dto.Entry, error) {
	key := pathutil.ObjectKey(path)
	if key == "" {
		return dto.Entry{Path: "", Kind: dto.KindDir}, nil
	}
	if !pathutil.IsDirKey(path) {
		e, err := b.statObject(ctx, key)
		if err == nil || !backend.IsNotFound(err) {
			return e, err
		}
	}
	ok, err := b.hasChildren(ctx, path)
	if err != nil {
		return dto.Entry{}, err
	}
	if !ok {
		return dto.Entry{}, backend.NewError("stat", path, backend.ErrNotFound, nil)
	}
	return dto.Entry{Path: pathutil.DirKey(path), Kind: dto.KindDir}, nil
}

func (b *Backend) statObject(ctx context.Context, key string) (dto.Entry, error) {
	out, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return dto.Entry{}, translateError("stat", key, err)
	}
	e := dto.Entry{
		Path: key,
		Kind: dto.KindFile,
		Size: uint64(aws.ToInt64(out.ContentLength)),
	}
	if out.LastModified != nil {
		mtime := *out.LastModified
		e.Modified = &mtime
	}
	return e, nil
}
