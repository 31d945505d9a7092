package oss

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sort"

	"github.com/minio/minio-go/v6"

	"github.com/sgaunet/s3dfs/pkg/backend"
	"github.com/sgaunet/s3dfs/pkg/dto"
	"github.com/sgaunet/s3dfs/pkg/pathutil"
)

// List returns the objects and common prefixes directly under path.
func (b *Backend) List(ctx context.Context, path string) ([]dto.Entry, error) {
	prefix := pathutil.DirKey(path)
	b.log.Debug("List", slog.String("path", path), slog.String("prefix", prefix))

	doneCh := make(chan struct{})
	defer close(doneCh)

	result := []dto.Entry{}
	for obj := range b.client.ListObjectsV2(b.bucket, prefix, false, doneCh) {
		if obj.Err != nil {
			return nil, translateError("list", path, obj.Err)
		}
		if err := ctx.Err(); err != nil {
			return nil, translateError("list", path, err)
		}
		if obj.Key == prefix {
			continue
		}
		if pathutil.IsDirKey(obj.Key) {
			result = append(result, dto.Entry{Path: obj.Key, Kind: dto.KindDir})
			continue
		}
		e := dto.Entry{Path: obj.Key, Kind: dto.KindFile, Size: uint64(obj.Size)}
		if !obj.LastModified.IsZero() {
			mtime := obj.LastModified
			e.Modified = &mtime
		}
		result = append(result, e)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})

	if len(result) == 0 && !pathutil.IsDirKey(path) {
		e, err := b.statObject(ctx, pathutil.ObjectKey(path))
		if err != nil {
			if backend.IsNotFound(err) {
				return result, nil
			}
			return nil, err
		}
		result = append(result, e)
	}
	return result, nil
}

// Exists returns true if path is an object or a prefix holding at least one object.
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
	r, err := b.client.GetObjectReader(ctx, b.bucket, key)
	if err != nil {
		return nil, translateError("read", path, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, translateError("read", path, err)
	}
	return data, nil
}

// OpenWriter streams to PutObject with an unknown size.
func (b *Backend) OpenWriter(ctx context.Context, path string) (backend.Writer, error) {
	key := pathutil.ObjectKey(path)
	if key == "" || pathutil.IsDirKey(path) {
		return nil, backend.NewError("open_writer", path, backend.ErrOther, nil)
	}
	b.log.Debug("OpenWriter", slog.String("key", key))
	return backend.NewPipeWriter(func(r io.Reader) error {
		_, err := b.client.PutObjectWithContext(ctx, b.bucket, key, r, -1, minio.PutObjectOptions{
			ContentType: "application/octet-stream",
		})
		if err != nil {
			return translateError("write", path, err)
		}
		return nil
	}), nil
}

// CreateDir puts an empty "path/" marker object.
func (b *Backend) CreateDir(ctx context.Context, path string) error {
	key := pathutil.DirKey(path)
	if key == "" {
		return nil
	}
	b.log.Debug("CreateDir", slog.String("key", key))
	_, err := b.client.PutObjectWithContext(ctx, b.bucket, key, bytes.NewReader(nil), 0, minio.PutObjectOptions{})
	if err != nil {
		return translateError("create_dir", path, err)
	}
	return nil
}

// Stat returns the metadata of the object, or a directory entry when path is a prefix.
func (b *Backend) Stat(ctx context.Context, path string) (dto.Entry, error) {
	key := pathutil.ObjectKey(path)
	if key == "" {
		return dto.Entry{Kind: dto.KindDir}, nil
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
	info, err := b.client.StatObjectWithContext(ctx, b.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return dto.Entry{}, translateError("stat", key, err)
	}
	e := dto.Entry{Path: key, Kind: dto.KindFile, Size: uint64(info.Size)}
	if !info.LastModified.IsZero() {
		mtime := info.LastModified
		e.Modified = &mtime
	}
	return e, nil
}

func (b *Backend) hasChildren(ctx context.Context, path string) (bool, error) {
	doneCh := make(chan struct{})
	defer close(doneCh)
	obj, ok := <-b.client.ListObjectsV2(b.bucket, pathutil.DirKey(path), false, doneCh)
	if err := ctx.Err(); err != nil {
		return false, translateError("list", path, err)
	}
	if !ok {
		return false, nil
	}
	if obj.Err != nil {
		return false, translateError("list", path, obj.Err)
	}
	return true, nil
}

func translateError(op, path string, err error) error {
	return backend.NewError(op, path, classify(err), err)
}

func classify(err error) error {
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return backend.ErrNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "Forbidden":
		return backend.ErrPermissionDenied
	}
	switch resp.StatusCode {
	case http.StatusNotFound:
		return backend.ErrNotFound
	case http.StatusForbidden, http.StatusUnauthorized:
		return backend.ErrPermissionDenied
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return backend.ErrNetwork
	}
	return backend.ErrOther
}
