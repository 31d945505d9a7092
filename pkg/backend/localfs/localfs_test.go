package localfs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/s3dfs/pkg/backend"
	"github.com/sgaunet/s3dfs/pkg/backend/localfs"
	"github.com/sgaunet/s3dfs/pkg/dto"
)

func newBackend(t *testing.T) (*localfs.Backend, string) {
	t.Helper()
	root := t.TempDir()
	b, err := localfs.New(localfs.Config{RootPath: root})
	require.NoError(t, err)
	return b, b.Root()
}

func writeFile(t *testing.T, root, rel string, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestNew(t *testing.T) {
	_, err := localfs.New(localfs.Config{})
	assert.Error(t, err, "empty root must be rejected")

	missing := filepath.Join(t.TempDir(), "missing")
	_, err = localfs.New(localfs.Config{RootPath: missing})
	assert.Error(t, err)

	b, err := localfs.New(localfs.Config{RootPath: missing, CreateRoot: true})
	require.NoError(t, err)
	assert.DirExists(t, b.Root())
	assert.Equal(t, "fs", b.Provider())

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = localfs.New(localfs.Config{RootPath: file})
	assert.ErrorIs(t, err, localfs.ErrRootNotDir)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	b, root := newBackend(t)
	writeFile(t, root, "data/a.txt", "aaa")
	writeFile(t, root, "data/sub/b.txt", "bb")

	entries, err := b.List(ctx, "data")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "data/a.txt", entries[0].Path)
	assert.Equal(t, dto.KindFile, entries[0].Kind)
	assert.Equal(t, uint64(3), entries[0].Size)
	assert.NotNil(t, entries[0].Modified)
	assert.Equal(t, "data/sub/", entries[1].Path)
	assert.Equal(t, dto.KindDir, entries[1].Kind)
	assert.Equal(t, uint64(0), entries[1].Size)

	t.Run("trailing slash", func(t *testing.T) {
		entries, err := b.List(ctx, "data/")
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("root", func(t *testing.T) {
		entries, err := b.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "data/", entries[0].Path)
	})

	t.Run("missing path is empty", func(t *testing.T) {
		entries, err := b.List(ctx, "nope")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("single file", func(t *testing.T) {
		entries, err := b.List(ctx, "data/a.txt")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "data/a.txt", entries[0].Path)
	})
}

func TestListSkipsTempFiles(t *testing.T) {
	ctx := context.Background()
	b, root := newBackend(t)
	writeFile(t, root, "d/.s3dfs-123.tmp", "partial")
	writeFile(t, root, "d/ok.txt", "ok")

	entries, err := b.List(ctx, "d")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "d/ok.txt", entries[0].Path)
}

func TestExistsAndStat(t *testing.T) {
	ctx := context.Background()
	b, root := newBackend(t)
	writeFile(t, root, "x/y.bin", "12345")

	ok, err := b.Exists(ctx, "x")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.Exists(ctx, "x/none")
	require.NoError(t, err)
	assert.False(t, ok)

	e, err := b.Stat(ctx, "x/y.bin")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), e.Size)
	assert.False(t, e.IsDir())

	e, err = b.Stat(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "x/", e.Path)
	assert.True(t, e.IsDir())

	_, err = b.Stat(ctx, "x/none")
	assert.ErrorIs(t, err, backend.ErrNotFound)
}

func TestPathUnderFile(t *testing.T) {
	ctx := context.Background()
	b, root := newBackend(t)
	writeFile(t, root, "a.txt", "a")

	ok, err := b.Exists(ctx, "a.txt/b")
	require.NoError(t, err)
	assert.False(t, ok)

	entries, err := b.List(ctx, "a.txt/b")
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = b.Stat(ctx, "a.txt/b")
	assert.ErrorIs(t, err, backend.ErrNotFound)
}

func TestRead(t *testing.T) {
	ctx := context.Background()
	b, root := newBackend(t)
	writeFile(t, root, "f.txt", "hello")

	data, err := b.Read(ctx, "f.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = b.Read(ctx, "missing.txt")
	assert.ErrorIs(t, err, backend.ErrNotFound)
	assert.True(t, backend.IsNotFound(err))
}

func TestOpenWriter(t *testing.T) {
	ctx := context.Background()
	b, root := newBackend(t)

	w, err := b.OpenWriter(ctx, "out/new.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("part1-"))
	require.NoError(t, err)
	_, err = w.Write([]byte("part2"))
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(root, "out", "new.txt"), "object must not be visible before Close")
	require.NoError(t, w.Close())

	data, err := os.ReadFile(filepath.Join(root, "out", "new.txt"))
	require.NoError(t, err)
	assert.Equal(t, "part1-part2", string(data))
}

func TestOpenWriterAbort(t *testing.T) {
	ctx := context.Background()
	b, root := newBackend(t)

	w, err := b.OpenWriter(ctx, "aborted.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("garbage"))
	require.NoError(t, err)
	require.NoError(t, w.Abort(errors.New("read failure")))

	assert.NoFileExists(t, filepath.Join(root, "aborted.txt"))
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp file must be removed")
}

func TestOpenWriterOnDirectory(t *testing.T) {
	b, _ := newBackend(t)
	_, err := b.OpenWriter(context.Background(), "dir/")
	assert.Error(t, err)
}

func TestCreateDir(t *testing.T) {
	ctx := context.Background()
	b, root := newBackend(t)

	require.NoError(t, b.CreateDir(ctx, "a/b/c"))
	assert.DirExists(t, filepath.Join(root, "a", "b", "c"))
	require.NoError(t, b.CreateDir(ctx, "a/b/c"), "CreateDir must be idempotent")
}

func TestPathTraversalRejected(t *testing.T) {
	b, _ := newBackend(t)
	_, err := b.Read(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, backend.ErrPermissionDenied)
}
