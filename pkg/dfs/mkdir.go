package dfs

import (
	"context"
	"fmt"

	"github.com/sgaunet/s3dfs/pkg/pathutil"
)

// Mkdir creates the directory path. Creating an existing directory is not an error.
func (c *Client) Mkdir(ctx context.Context, path string) error {
	remote := pathutil.Normalize(path)
	if remote == "" {
		return nil
	}
	if err := c.be.CreateDir(ctx, remote); err != nil {
		return fmt.Errorf("Mkdir: error creating %s: %w", path, err)
	}
	fmt.Fprintf(c.out, "Created: %s\n", pathutil.DirKey(remote))
	return nil
}
