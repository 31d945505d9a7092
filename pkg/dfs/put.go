package dfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sgaunet/s3dfs/pkg/pathutil"
	"github.com/sgaunet/s3dfs/pkg/progress"
)

// Put uploads localPath under remotePath, which must already exist.
// A single file is stored as remotePath/<file name> when recursive is false.
// A directory is stored as remotePath/<directory name>/... when recursive is true.
// Any other combination fails with ErrIllegalLocalPath.
func (c *Client) Put(ctx context.Context, localPath, remotePath string, recursive bool) error {
	info, err := os.Stat(localPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("Put: %s: %w", localPath, ErrLocalPathNotExist)
		}
		return fmt.Errorf("Put: error reading %s: %w", localPath, err)
	}

	remote := pathutil.Normalize(remotePath)
	ok, err := c.be.Exists(ctx, remote)
	if err != nil {
		return fmt.Errorf("Put: error checking %s: %w", remotePath, err)
	}
	if !ok {
		return fmt.Errorf("Put: %s: %w", remotePath, ErrRemotePathNotExist)
	}

	name := localName(localPath)
	switch {
	case !info.IsDir() && !recursive:
		return c.uploadFile(ctx, localPath, pathutil.Join(remote, name))
	case info.IsDir() && recursive:
		return c.uploadDir(ctx, localPath, name, remote)
	default:
		return fmt.Errorf("Put: %s: %w", localPath, ErrIllegalLocalPath)
	}
}

// uploadDir creates remoteParent/name and uploads the children of localDir into it.
func (c *Client) uploadDir(ctx context.Context, localDir, name, remoteParent string) error {
	target := pathutil.Join(remoteParent, name)
	if err := c.be.CreateDir(ctx, target); err != nil {
		return fmt.Errorf("Put: error creating %s: %w", target, err)
	}

	children, err := os.ReadDir(localDir)
	if err != nil {
		return fmt.Errorf("Put: error reading %s: %w", localDir, err)
	}
	for _, child := range children {
		localChild := filepath.Join(localDir, child.Name())
		// follow symlinks
		info, err := os.Stat(localChild)
		if err != nil {
			return fmt.Errorf("Put: error reading %s: %w", localChild, err)
		}
		switch {
		case info.IsDir():
			if err := c.uploadDir(ctx, localChild, child.Name(), target); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			if err := c.uploadFile(ctx, localChild, pathutil.Join(target, child.Name())); err != nil {
				return err
			}
		default:
			c.log.Warn("skipping special file", slog.String("path", localChild))
		}
	}
	return nil
}

// uploadFile streams localFile to remote in ChunkSize chunks.
// On failure the writer is aborted so that no partial object is committed.
func (c *Client) uploadFile(ctx context.Context, localFile, remote string) error {
	f, err := os.Open(localFile)
	if err != nil {
		return fmt.Errorf("Put: error opening %s: %w", localFile, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("Put: error reading %s: %w", localFile, err)
	}

	w, err := c.be.OpenWriter(ctx, remote)
	if err != nil {
		return fmt.Errorf("Put: error opening %s: %w", remote, err)
	}

	tracker := progress.NewTracker(localFile, uint64(info.Size()), c.progress)
	buf := make([]byte, ChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			_ = w.Abort(err)
			return fmt.Errorf("Put: %s: %w", localFile, err)
		}
		n, rerr := f.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				_ = w.Abort(err)
				return fmt.Errorf("Put: error writing %s: %w", remote, err)
			}
			tracker.Chunk(n)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			_ = w.Abort(rerr)
			return fmt.Errorf("Put: error reading %s: %w", localFile, rerr)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("Put: error writing %s: %w", remote, err)
	}
	if tracker.Emitted() > 0 {
		// terminate the progress line
		fmt.Fprintln(c.out)
	}
	c.log.Debug("uploaded", slog.String("local", localFile), slog.String("remote", remote), slog.Uint64("size", tracker.Bytes()))
	c.metrics.FileUploaded()
	fmt.Fprintf(c.out, "Upload: %s → %s (%d bytes)\n", localFile, remote, tracker.Bytes())
	return nil
}

// localName returns the last element of a local path, resolving "." and trailing separators.
func localName(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return filepath.Base(p)
}
