// Package dfs implements the hdfs-like operations (ls, get, put, du) on top of any backend.
//
// Every operation is a synchronous depth-first traversal: backend calls of one
// operation are strictly ordered and the first error aborts the traversal.
// Files already transferred are left in place.
package dfs

import (
	"errors"
	"io"
	"log/slog"

	"github.com/sgaunet/s3dfs/pkg/backend"
	"github.com/sgaunet/s3dfs/pkg/metrics"
	"github.com/sgaunet/s3dfs/pkg/progress"
)

// ChunkSize is the size of the buffer used to stream a local file to the backend.
const ChunkSize = 8 * 1024

var (
	// ErrLocalPathNotExist is returned by Put when the local path does not exist.
	ErrLocalPathNotExist = errors.New("local path does not exist")
	// ErrRemotePathNotExist is returned by Put when the remote anchor does not exist.
	ErrRemotePathNotExist = errors.New("remote path does not exist")
	// ErrIllegalLocalPath is returned by Put for a directory without recursion or a file with recursion.
	ErrIllegalLocalPath = errors.New("local path is illegal")
)

// Client runs the operations against one backend and writes results to out.
type Client struct {
	be       backend.Backend
	out      io.Writer
	log      *slog.Logger
	progress progress.Func
	metrics  *metrics.Collector
}

// NewClient creates a client.
// By default the logger writes to /dev/null and upload progress goes to out.
func NewClient(be backend.Backend, out io.Writer) *Client {
	if out == nil {
		out = io.Discard
	}
	return &Client{
		be:       be,
		out:      out,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		progress: progress.Console(out),
	}
}

// SetLogger sets the logger
func (c *Client) SetLogger(log *slog.Logger) {
	c.log = log
}

// SetProgressFunc replaces the upload progress sink. nil disables progress.
func (c *Client) SetProgressFunc(fn progress.Func) {
	if fn == nil {
		fn = progress.Discard
	}
	c.progress = fn
}

// SetMetrics sets the collector counting transferred files.
func (c *Client) SetMetrics(m *metrics.Collector) {
	c.metrics = m
}
