// Package pathutil maps paths between the remote namespace and the local filesystem.
// All functions are pure: they never touch the filesystem and never fail.
package pathutil

import (
	"errors"
	"path"
	"path/filepath"
	"strings"
)

// Separator is the separator of the remote namespace.
const Separator = "/"

// ErrPathTraversal is returned by SecureJoin when the key escapes the root.
var ErrPathTraversal = errors.New("path traversal detected")

// Join concatenates base and name, collapsing duplicated separators.
// A trailing separator on name is kept so that directory keys stay directory keys.
func Join(base, name string) string {
	switch {
	case base == "":
		return collapse(name)
	case name == "":
		return collapse(base)
	}
	return collapse(base + Separator + name)
}

// Relative returns fullPath relative to basePath.
// When both are equal the final segment of fullPath is returned, which covers a single file
// listed by its own path. When fullPath is not under basePath it is returned unchanged.
func Relative(fullPath, basePath string) string {
	if fullPath == basePath {
		return Base(fullPath)
	}
	if !strings.HasPrefix(fullPath, basePath) {
		return fullPath
	}
	return strings.TrimLeft(strings.TrimPrefix(fullPath, basePath), Separator)
}

// RelativeToRoot works like Relative but ignores a single leading and a trailing separator
// on both sides. basePath must match whole segments of fullPath, otherwise the final
// segment of fullPath is returned.
func RelativeToRoot(fullPath, basePath string) string {
	full := strings.TrimSuffix(Normalize(fullPath), Separator)
	base := strings.TrimSuffix(Normalize(basePath), Separator)
	if full == base {
		return Base(full)
	}
	if base != "" && !strings.HasPrefix(full, base+Separator) {
		return Base(full)
	}
	return Relative(full, base)
}

// Normalize strips a single leading separator.
func Normalize(p string) string {
	return strings.TrimPrefix(p, Separator)
}

// Base returns the final segment of p, ignoring a trailing separator.
// It returns an empty string for the root.
func Base(p string) string {
	p = strings.TrimRight(p, Separator)
	if p == "" {
		return ""
	}
	if i := strings.LastIndex(p, Separator); i >= 0 {
		return p[i+1:]
	}
	return p
}

// DirKey returns the object key prefix used for the directory p:
// no leading separator and exactly one trailing separator. The root maps to "".
func DirKey(p string) string {
	p = strings.Trim(collapse(p), Separator)
	if p == "" || p == "." {
		return ""
	}
	return p + Separator
}

// ObjectKey returns the key of the object p: no leading nor trailing separator.
func ObjectKey(p string) string {
	return strings.Trim(collapse(p), Separator)
}

// IsDirKey reports whether p designates a directory by convention.
func IsDirKey(p string) bool {
	return p == "" || strings.HasSuffix(p, Separator)
}

// SecureJoin joins the slash separated key onto root and makes sure the result stays inside root.
func SecureJoin(root, key string) (string, error) {
	cleanRoot := filepath.Clean(root)
	full := filepath.Join(cleanRoot, filepath.FromSlash(Normalize(path.Clean(key))))
	if full != cleanRoot && !strings.HasPrefix(full, cleanRoot+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}
	return full, nil
}

func collapse(p string) string {
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}
