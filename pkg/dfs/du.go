package dfs

import (
	"context"
	"fmt"

	"github.com/sgaunet/s3dfs/pkg/dto"
	"github.com/sgaunet/s3dfs/pkg/pathutil"
)

var sizeUnits = []string{"B", "K", "M", "G", "T"}

// Usage returns the total size and the number of files under path.
func (c *Client) Usage(ctx context.Context, path string) (dto.Usage, error) {
	var u dto.Usage
	entries, err := c.be.List(ctx, path)
	if err != nil {
		return u, fmt.Errorf("du: error listing %s: %w", path, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			u.Add(dto.Usage{TotalBytes: e.Size, FileCount: 1})
			continue
		}
		if e.Path == path {
			continue
		}
		sub, err := c.Usage(ctx, e.Path)
		if err != nil {
			return u, err
		}
		u.Add(sub)
	}
	return u, nil
}

// DiskUsage prints the usage of path.
// In summary mode a single total is printed followed by the number of files,
// otherwise one line per immediate child.
func (c *Client) DiskUsage(ctx context.Context, path string, summary bool) error {
	remote := pathutil.Normalize(path)
	if summary {
		u, err := c.Usage(ctx, remote)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s %s\n", FormatSize(u.TotalBytes), path)
		fmt.Fprintf(c.out, "Total files: %d\n", u.FileCount)
		return nil
	}

	entries, err := c.be.List(ctx, remote)
	if err != nil {
		return fmt.Errorf("du: error listing %s: %w", path, err)
	}
	for _, e := range entries {
		size := e.Size
		if e.IsDir() {
			u, err := c.Usage(ctx, e.Path)
			if err != nil {
				return err
			}
			size = u.TotalBytes
		}
		fmt.Fprintf(c.out, "%s %s\n", FormatSize(size), e.Path)
	}
	return nil
}

// FormatSize renders a byte count with a binary unit: 512B, 2.0K, 1.5M...
func FormatSize(bytes uint64) string {
	size := float64(bytes)
	unit := 0
	for size >= 1024 && unit < len(sizeUnits)-1 {
		size /= 1024
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%dB", bytes)
	}
	return fmt.Sprintf("%.1f%s", size, sizeUnits[unit])
}
