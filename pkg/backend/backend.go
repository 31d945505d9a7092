// Package backend defines the storage capability consumed by the dfs client
// and the typed errors every concrete backend returns.
package backend

import (
	"context"
	"io"

	"github.com/sgaunet/s3dfs/pkg/dto"
)

// Backend is the interface implemented by every storage provider.
// Paths are slash separated keys relative to the bucket (or the root directory
// of the local provider). A trailing slash designates a directory.
type Backend interface {
	// List returns one level of entries under path.
	// A non-existent path yields an empty slice, not an error.
	// Listing a path that designates a single file returns that file.
	List(ctx context.Context, path string) ([]dto.Entry, error)

	// Exists reports whether path designates a file or a non-empty directory.
	Exists(ctx context.Context, path string) (bool, error)

	// Read returns the whole content of the file at path.
	Read(ctx context.Context, path string) ([]byte, error)

	// OpenWriter opens a streaming writer to path. The object becomes visible on Close.
	OpenWriter(ctx context.Context, path string) (Writer, error)

	// CreateDir creates a directory marker. It succeeds if the directory already exists.
	CreateDir(ctx context.Context, path string) error

	// Stat returns the metadata of the entry at path.
	Stat(ctx context.Context, path string) (dto.Entry, error)

	// Provider returns the provider identifier ("oss", "s3", "fs").
	Provider() string

	// Close releases any resources held by the backend.
	Close() error
}

// Writer is a streaming handle returned by OpenWriter.
// Close finalizes the object, Abort discards what has been written so far.
type Writer interface {
	io.WriteCloser
	Abort(err error) error
}
