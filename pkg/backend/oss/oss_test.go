package oss

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/minio/minio-go/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/s3dfs/pkg/backend"
	"github.com/sgaunet/s3dfs/pkg/dto"
)

type fakeMinio struct {
	mu      sync.Mutex
	objects map[string][]byte
	listErr error
}

func (f *fakeMinio) ListObjectsV2(_, prefix string, recursive bool, doneCh <-chan struct{}) <-chan minio.ObjectInfo {
	f.mu.Lock()
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	f.mu.Unlock()
	sort.Strings(keys)

	ch := make(chan minio.ObjectInfo)
	go func() {
		defer close(ch)
		send := func(o minio.ObjectInfo) bool {
			select {
			case ch <- o:
				return true
			case <-doneCh:
				return false
			}
		}
		if f.listErr != nil {
			send(minio.ObjectInfo{Err: f.listErr})
			return
		}
		var prefixes []string
		seen := map[string]bool{}
		for _, k := range keys {
			if !strings.HasPrefix(k, prefix) {
				continue
			}
			rest := strings.TrimPrefix(k, prefix)
			if !recursive {
				if i := strings.Index(rest, "/"); i >= 0 {
					cp := prefix + rest[:i+1]
					if !seen[cp] {
						seen[cp] = true
						prefixes = append(prefixes, cp)
					}
					continue
				}
			}
			if !send(minio.ObjectInfo{Key: k, Size: int64(len(f.objects[k])), LastModified: time.Unix(1700000000, 0)}) {
				return
			}
		}
		// minio-go delivers common prefixes after the objects of a page
		for _, cp := range prefixes {
			if !send(minio.ObjectInfo{Key: cp}) {
				return
			}
		}
	}()
	return ch
}

func (f *fakeMinio) StatObjectWithContext(_ context.Context, _, objectName string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[objectName]
	if !ok {
		return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}
	}
	return minio.ObjectInfo{Key: objectName, Size: int64(len(data)), LastModified: time.Unix(1700000000, 0)}, nil
}

func (f *fakeMinio) PutObjectWithContext(_ context.Context, _, objectName string, reader io.Reader, _ int64, _ minio.PutObjectOptions) (int64, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[objectName] = data
	return int64(len(data)), nil
}

func (f *fakeMinio) GetObjectReader(_ context.Context, _, objectName string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[objectName]
	if !ok {
		return nil, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func newTestBackend() (*Backend, *fakeMinio) {
	f := &fakeMinio{objects: map[string][]byte{
		"logs/":          nil,
		"logs/app.log":   []byte("line1\nline2\n"),
		"logs/old/a.log": []byte("a"),
		"readme.md":      []byte("# hi"),
	}}
	return NewWithClient("bucket", f), f
}

func TestNew(t *testing.T) {
	_, err := New(Config{AccessKey: "a", SecretKey: "b"})
	assert.ErrorIs(t, err, ErrBucketRequired)

	_, err = New(Config{Bucket: "b"})
	assert.ErrorIs(t, err, ErrCredentialsRequired)

	b, err := New(Config{Bucket: "b", AccessKey: "a", SecretKey: "s", Region: "cn-shanghai"})
	require.NoError(t, err)
	assert.Equal(t, "oss", b.Provider())
}

func TestEndpoint(t *testing.T) {
	testCases := []struct {
		name     string
		region   string
		endpoint string
		host     string
		secure   bool
	}{
		{"default region", "", "", "oss-cn-hangzhou.aliyuncs.com", true},
		{"region", "cn-beijing", "", "oss-cn-beijing.aliyuncs.com", true},
		{"region with prefix", "oss-eu-central-1", "", "oss-eu-central-1.aliyuncs.com", true},
		{"explicit host", "", "oss-accelerate.aliyuncs.com", "oss-accelerate.aliyuncs.com", true},
		{"http endpoint", "", "http://127.0.0.1:9000/", "127.0.0.1:9000", false},
		{"https endpoint", "", "https://oss.internal", "oss.internal", true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			host, secure := Endpoint(tc.region, tc.endpoint)
			assert.Equal(t, tc.host, host)
			assert.Equal(t, tc.secure, secure)
		})
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBackend()

	entries, err := b.List(ctx, "logs")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "logs/app.log", entries[0].Path)
	assert.Equal(t, uint64(12), entries[0].Size)
	assert.Equal(t, dto.KindFile, entries[0].Kind)
	assert.Equal(t, "logs/old/", entries[1].Path)
	assert.Equal(t, dto.KindDir, entries[1].Kind)

	entries, err = b.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "logs/", entries[0].Path)
	assert.Equal(t, "readme.md", entries[1].Path)

	entries, err = b.List(ctx, "readme.md")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint64(4), entries[0].Size)

	entries, err = b.List(ctx, "missing/")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestList_Error(t *testing.T) {
	b, f := newTestBackend()
	f.listErr = minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}
	_, err := b.List(context.Background(), "logs")
	assert.ErrorIs(t, err, backend.ErrPermissionDenied)
}

func TestExistsReadStat(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBackend()

	ok, err := b.Exists(ctx, "logs/old")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = b.Exists(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	data, err := b.Read(ctx, "/logs/old/a.log")
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))

	_, err = b.Read(ctx, "logs/none")
	assert.ErrorIs(t, err, backend.ErrNotFound)

	e, err := b.Stat(ctx, "logs")
	require.NoError(t, err)
	assert.True(t, e.IsDir())

	e, err = b.Stat(ctx, "logs/app.log")
	require.NoError(t, err)
	assert.False(t, e.IsDir())
	require.NotNil(t, e.Modified)
}

func TestWriteAndCreateDir(t *testing.T) {
	ctx := context.Background()
	b, f := newTestBackend()

	w, err := b.OpenWriter(ctx, "up/data.bin")
	require.NoError(t, err)
	_, err = w.Write([]byte("0123456789"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, "0123456789", string(f.objects["up/data.bin"]))

	w, err = b.OpenWriter(ctx, "up/aborted.bin")
	require.NoError(t, err)
	_, err = w.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, w.Abort(errors.New("stop")))
	_, exists := f.objects["up/aborted.bin"]
	assert.False(t, exists)

	require.NoError(t, b.CreateDir(ctx, "newdir"))
	_, exists = f.objects["newdir/"]
	assert.True(t, exists)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, backend.ErrNotFound, classify(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.Equal(t, backend.ErrNotFound, classify(minio.ErrorResponse{StatusCode: http.StatusNotFound}))
	assert.Equal(t, backend.ErrPermissionDenied, classify(minio.ErrorResponse{Code: "AccessDenied"}))
	assert.Equal(t, backend.ErrPermissionDenied, classify(minio.ErrorResponse{StatusCode: http.StatusForbidden}))
	assert.Equal(t, backend.ErrNetwork, classify(&net.DNSError{Err: "no such host", Name: "oss"}))
	assert.Equal(t, backend.ErrOther, classify(errors.New("boom")))
}
