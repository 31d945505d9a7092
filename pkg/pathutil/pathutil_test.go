package pathutil_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/s3dfs/pkg/pathutil"
)

func TestJoin(t *testing.T) {
	testCases := []struct {
		name     string
		base     string
		elem     string
		expected string
	}{
		{"empty base", "", "file.txt", "file.txt"},
		{"empty name", "dir", "", "dir"},
		{"simple", "dir", "file.txt", "dir/file.txt"},
		{"base with trailing slash", "dir/", "file.txt", "dir/file.txt"},
		{"name with leading slash", "dir/", "/file.txt", "dir/file.txt"},
		{"keeps trailing slash", "dir", "sub/", "dir/sub/"},
		{"absolute base", "/data", "x", "/data/x"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, pathutil.Join(tc.base, tc.elem))
		})
	}
}

func TestRelative(t *testing.T) {
	testCases := []struct {
		name     string
		full     string
		base     string
		expected string
	}{
		{"same path returns last segment", "/a/b/c.txt", "/a/b/c.txt", "c.txt"},
		{"descendant", "/a/b/c.txt", "/a/", "b/c.txt"},
		{"descendant without trailing slash", "/a/b/c.txt", "/a", "b/c.txt"},
		{"directory entry", "data/sub/", "data", "sub/"},
		{"not prefixed", "other/c.txt", "data", "other/c.txt"},
		{"same directory", "data/", "data/", "data"},
		{"empty base", "x/y", "", "x/y"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, pathutil.Relative(tc.full, tc.base))
		})
	}
}

func TestRelativeToRoot(t *testing.T) {
	testCases := []struct {
		name     string
		full     string
		base     string
		expected string
	}{
		{"leading slash ignored", "/a/b/c.txt", "a", "b/c.txt"},
		{"same path", "/a/b.txt", "a/b.txt", "b.txt"},
		{"mismatch falls back to last segment", "/x/y/z.txt", "/a", "z.txt"},
		{"descendant", "a/b/c.txt", "/a/", "b/c.txt"},
		{"directory entry", "r/x/", "/r", "x"},
		{"root base", "/a/b.txt", "/", "a/b.txt"},
		{"trailing slash on same path", "a/b/", "a/b", "b"},
		{"sibling sharing a prefix", "ab/c", "a", "c"},
		{"sibling directory sharing a prefix", "/data2/x.txt", "/data", "x.txt"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, pathutil.RelativeToRoot(tc.full, tc.base))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a/b", pathutil.Normalize("/a/b"))
	assert.Equal(t, "a/b", pathutil.Normalize("a/b"))
	assert.Equal(t, "/a", pathutil.Normalize("//a"), "only one separator is stripped")
	assert.Equal(t, "", pathutil.Normalize(""))
}

func TestBase(t *testing.T) {
	assert.Equal(t, "c.txt", pathutil.Base("a/b/c.txt"))
	assert.Equal(t, "b", pathutil.Base("a/b/"))
	assert.Equal(t, "a", pathutil.Base("a"))
	assert.Equal(t, "", pathutil.Base("/"))
	assert.Equal(t, "", pathutil.Base(""))
}

func TestDirKeyAndObjectKey(t *testing.T) {
	assert.Equal(t, "", pathutil.DirKey(""))
	assert.Equal(t, "", pathutil.DirKey("/"))
	assert.Equal(t, "a/b/", pathutil.DirKey("/a/b"))
	assert.Equal(t, "a/b/", pathutil.DirKey("a//b/"))
	assert.Equal(t, "a/b", pathutil.ObjectKey("/a/b/"))
	assert.True(t, pathutil.IsDirKey("a/"))
	assert.True(t, pathutil.IsDirKey(""))
	assert.False(t, pathutil.IsDirKey("a"))
}

func TestSecureJoin(t *testing.T) {
	root := t.TempDir()

	p, err := pathutil.SecureJoin(root, "a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a", "b.txt"), p)

	p, err = pathutil.SecureJoin(root, "/a/")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "a"), p)

	p, err = pathutil.SecureJoin(root, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(root), p)

	_, err = pathutil.SecureJoin(root, "../escape")
	assert.ErrorIs(t, err, pathutil.ErrPathTraversal)
}
