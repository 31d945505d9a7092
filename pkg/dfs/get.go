package dfs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sgaunet/s3dfs/pkg/pathutil"
)

// Get mirrors the remote subtree at remotePath into the local directory localPath.
// Listing a single file downloads that file into localPath.
func (c *Client) Get(ctx context.Context, remotePath, localPath string) error {
	if err := os.MkdirAll(localPath, 0o755); err != nil {
		return fmt.Errorf("Get: error creating %s: %w", localPath, err)
	}
	return c.download(ctx, pathutil.Normalize(remotePath), remotePath, localPath)
}

// download copies one level of current and recurses into directories.
// Local paths are always computed relative to root, the remote path given to Get.
func (c *Client) download(ctx context.Context, current, root, localRoot string) error {
	entries, err := c.be.List(ctx, current)
	if err != nil {
		return fmt.Errorf("Get: error listing %s: %w", current, err)
	}

	for _, e := range entries {
		rel := pathutil.RelativeToRoot(e.Path, root)
		target, err := pathutil.SecureJoin(localRoot, rel)
		if err != nil {
			return fmt.Errorf("Get: %s: %w", e.Path, err)
		}

		if e.IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("Get: error creating %s: %w", target, err)
			}
			if e.Path == current {
				continue
			}
			if err := c.download(ctx, e.Path, root, localRoot); err != nil {
				return err
			}
			continue
		}

		if err := c.downloadFile(ctx, e.Path, target); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) downloadFile(ctx context.Context, remote, local string) error {
	if err := os.MkdirAll(filepath.Dir(local), 0o755); err != nil {
		return fmt.Errorf("Get: error creating %s: %w", filepath.Dir(local), err)
	}
	data, err := c.be.Read(ctx, remote)
	if err != nil {
		return fmt.Errorf("Get: error reading %s: %w", remote, err)
	}
	if err := os.WriteFile(local, data, 0o644); err != nil {
		return fmt.Errorf("Get: error writing %s: %w", local, err)
	}
	c.log.Debug("downloaded", slog.String("remote", remote), slog.String("local", local), slog.Int("size", len(data)))
	c.metrics.FileDownloaded()
	fmt.Fprintf(c.out, "Downloaded: %s → %s\n", remote, local)
	return nil
}
