// Package dto provides the data transfer objects shared by the backends and the dfs client.
package dto

import "time"

// EntryKind tells whether an entry is a file or a directory.
type EntryKind int

const (
	// KindFile is a regular object / file.
	KindFile EntryKind = iota
	// KindDir is a directory or a common prefix.
	KindDir
)

func (k EntryKind) String() string {
	if k == KindDir {
		return "DIR"
	}
	return "FILE"
}

// Entry is the structure to store the metadata of one node of a storage tree.
// Directory paths end with "/" and have a zero size.
// Modified is nil when the backend does not know it.
type Entry struct {
	Path     string     `json:"path"`
	Kind     EntryKind  `json:"kind"`
	Size     uint64     `json:"size"`
	Modified *time.Time `json:"modified,omitempty"`
}

// IsDir returns true if the entry is a directory
func (e Entry) IsDir() bool {
	return e.Kind == KindDir
}

// Usage is the aggregate of a subtree: total bytes and number of files.
type Usage struct {
	TotalBytes uint64 `json:"totalBytes"`
	FileCount  uint64 `json:"fileCount"`
}

// Add accumulates other into u.
func (u *Usage) Add(other Usage) {
	u.TotalBytes += other.TotalBytes
	u.FileCount += other.FileCount
}
