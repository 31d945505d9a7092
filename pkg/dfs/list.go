package dfs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sgaunet/s3dfs/pkg/backend"
	"github.com/sgaunet/s3dfs/pkg/dto"
	"github.com/sgaunet/s3dfs/pkg/pathutil"
)

// unknownTime is displayed when the backend does not report a modification time.
const unknownTime = "Unknown"

// WalkFunc is called for every entry met by Walk.
type WalkFunc func(e dto.Entry) error

// Walk calls fn for every entry under path in backend order.
// When recursive is set, the subtree of a directory is visited right after the
// directory itself (pre-order). A path that does not exist yields no entry.
func (c *Client) Walk(ctx context.Context, path string, recursive bool, fn WalkFunc) error {
	entries, err := c.be.List(ctx, path)
	if err != nil {
		if backend.IsNotFound(err) {
			c.log.Debug("Walk: path not found", slog.String("path", path))
			return nil
		}
		return fmt.Errorf("list %s: %w", path, err)
	}
	for _, e := range entries {
		if err := fn(e); err != nil {
			return err
		}
		if recursive && e.IsDir() && e.Path != path {
			if err := c.Walk(ctx, e.Path, true, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// List prints the entries under path, one per line.
func (c *Client) List(ctx context.Context, path string, long, recursive bool) error {
	return c.Walk(ctx, pathutil.Normalize(path), recursive, func(e dto.Entry) error {
		_, err := fmt.Fprintln(c.out, FormatEntry(e, long))
		return err
	})
}

// FormatEntry renders e as a listing line.
// The long format has four left-aligned columns: kind, size, modification time and path.
func FormatEntry(e dto.Entry, long bool) string {
	if !long {
		return e.Path
	}
	size := "-"
	if !e.IsDir() {
		size = FormatSize(e.Size)
	}
	modified := unknownTime
	if e.Modified != nil {
		modified = e.Modified.Format(time.RFC3339)
	}
	return fmt.Sprintf("%-6s %-10s %s %s", e.Kind, size, modified, e.Path)
}
