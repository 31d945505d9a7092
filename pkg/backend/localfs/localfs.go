// Package localfs provides a local filesystem storage backend rooted at a directory.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sgaunet/s3dfs/pkg/backend"
	"github.com/sgaunet/s3dfs/pkg/dto"
	"github.com/sgaunet/s3dfs/pkg/pathutil"
)

// ProviderName is the identifier returned by Provider.
const ProviderName = "fs"

const tmpPattern = ".s3dfs-*.tmp"

// ErrRootNotDir is returned by New when the root path is not a directory.
var ErrRootNotDir = errors.New("root path is not a directory")

// Config holds the local backend settings.
type Config struct {
	RootPath   string
	CreateRoot bool
}

// Backend implements backend.Backend on top of the local filesystem.
type Backend struct {
	root string
	log  *slog.Logger
}

// New creates a local backend. The root directory is created when CreateRoot is set.
func New(cfg Config) (*Backend, error) {
	if cfg.RootPath == "" {
		return nil, fmt.Errorf("localfs: %w", errors.New("root path is required"))
	}
	root, err := filepath.Abs(cfg.RootPath)
	if err != nil {
		return nil, fmt.Errorf("localfs: resolve root path %s: %w", cfg.RootPath, err)
	}

	info, err := os.Stat(root)
	switch {
	case err != nil && os.IsNotExist(err) && cfg.CreateRoot:
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("localfs: create root path %s: %w", root, err)
		}
	case err != nil:
		return nil, fmt.Errorf("localfs: stat root path %s: %w", root, err)
	case !info.IsDir():
		return nil, fmt.Errorf("localfs: %s: %w", root, ErrRootNotDir)
	}

	return &Backend{
		root: root,
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// SetLogger sets the logger
func (b *Backend) SetLogger(log *slog.Logger) {
	b.log = log
}

// Root returns the absolute root directory.
func (b *Backend) Root() string {
	return b.root
}

func (b *Backend) fullPath(op, key string) (string, error) {
	p, err := pathutil.SecureJoin(b.root, key)
	if err != nil {
		return "", backend.NewError(op, key, backend.ErrPermissionDenied, err)
	}
	return p, nil
}

func (b *Backend) entryFromInfo(key string, info fs.FileInfo) dto.Entry {
	mtime := info.ModTime()
	if info.IsDir() {
		return dto.Entry{Path: pathutil.DirKey(key), Kind: dto.KindDir, Modified: &mtime}
	}
	return dto.Entry{Path: pathutil.ObjectKey(key), Kind: dto.KindFile, Size: uint64(info.Size()), Modified: &mtime}
}

// List returns one level of entries, in directory order (sorted by name).
func (b *Backend) List(_ context.Context, path string) ([]dto.Entry, error) {
	b.log.Debug("List", slog.String("path", path))
	full, err := b.fullPath("list", path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(full)
	if err != nil {
		if isMissing(err) {
			return []dto.Entry{}, nil
		}
		return nil, translateError("list", path, err)
	}
	if !info.IsDir() {
		if pathutil.IsDirKey(path) {
			return []dto.Entry{}, nil
		}
		return []dto.Entry{b.entryFromInfo(path, info)}, nil
	}

	dirEntries, err := os.ReadDir(full)
	if err != nil {
		return nil, translateError("list", path, err)
	}
	prefix := pathutil.DirKey(path)
	result := make([]dto.Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if isTemp(de.Name()) {
			continue
		}
		fi, err := de.Info()
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, translateError("list", path, err)
		}
		result = append(result, b.entryFromInfo(prefix+de.Name(), fi))
	}
	return result, nil
}

// Exists reports whether path exists.
func (b *Backend) Exists(_ context.Context, path string) (bool, error) {
	full, err := b.fullPath("exists", path)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); err != nil {
		if isMissing(err) {
			return false, nil
		}
		return false, translateError("exists", path, err)
	}
	return true, nil
}

// Read returns the content of the file at path.
func (b *Backend) Read(_ context.Context, path string) ([]byte, error) {
	b.log.Debug("Read", slog.String("path", path))
	full, err := b.fullPath("read", path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, translateError("read", path, err)
	}
	return data, nil
}

// OpenWriter writes to a temp file in the target directory and renames it on Close.
func (b *Backend) OpenWriter(_ context.Context, path string) (backend.Writer, error) {
	b.log.Debug("OpenWriter", slog.String("path", path))
	full, err := b.fullPath("open_writer", path)
	if err != nil {
		return nil, err
	}
	if full == b.root || pathutil.IsDirKey(path) {
		return nil, backend.NewError("open_writer", path, backend.ErrOther, errors.New("path designates a directory"))
	}
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, translateError("open_writer", path, err)
	}
	tmp, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return nil, translateError("open_writer", path, err)
	}
	return &fileWriter{tmp: tmp, target: full, key: path}, nil
}

// CreateDir creates the directory and its parents.
func (b *Backend) CreateDir(_ context.Context, path string) error {
	b.log.Debug("CreateDir", slog.String("path", path))
	full, err := b.fullPath("create_dir", path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(full, 0o755); err != nil {
		return translateError("create_dir", path, err)
	}
	return nil
}

// Stat returns the metadata of path.
func (b *Backend) Stat(_ context.Context, path string) (dto.Entry, error) {
	full, err := b.fullPath("stat", path)
	if err != nil {
		return dto.Entry{}, err
	}
	info, err := os.Stat(full)
	if err != nil {
		return dto.Entry{}, translateError("stat", path, err)
	}
	return b.entryFromInfo(path, info), nil
}

// Provider returns "fs".
func (b *Backend) Provider() string {
	return ProviderName
}

// Close is a no-op.
func (b *Backend) Close() error {
	return nil
}

type fileWriter struct {
	tmp    *os.File
	target string
	key    string
	closed bool
}

func (w *fileWriter) Write(p []byte) (int, error) {
	n, err := w.tmp.Write(p)
	if err != nil {
		return n, translateError("write", w.key, err)
	}
	return n, nil
}

func (w *fileWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	tmpName := w.tmp.Name()
	if err := w.tmp.Close(); err != nil {
		os.Remove(tmpName)
		return translateError("write", w.key, err)
	}
	if err := os.Rename(tmpName, w.target); err != nil {
		os.Remove(tmpName)
		return translateError("write", w.key, err)
	}
	return nil
}

func (w *fileWriter) Abort(error) error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.tmp.Close()
	return os.Remove(w.tmp.Name())
}

// isMissing reports whether err means that nothing exists at the path,
// including a path that goes through a regular file.
func isMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

func isTemp(name string) bool {
	return strings.HasPrefix(name, ".s3dfs-") && strings.HasSuffix(name, ".tmp")
}

func translateError(op, path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return backend.NewError(op, path, backend.ErrNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return backend.NewError(op, path, backend.ErrPermissionDenied, err)
	case errors.Is(err, syscall.ENOTDIR):
		return backend.NewError(op, path, backend.ErrNotFound, err)
	default:
		return backend.NewError(op, path, backend.ErrOther, err)
	}
}
