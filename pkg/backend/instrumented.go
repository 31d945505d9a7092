package backend

import (
	"context"
	"time"

	"github.com/sgaunet/s3dfs/pkg/dto"
)

// OperationRecorder receives one observation per backend call.
type OperationRecorder interface {
	ObserveOperation(provider, op string, err error, elapsed time.Duration)
	AddBytesRead(provider string, n uint64)
	AddBytesWritten(provider string, n uint64)
}

// Instrumented decorates a Backend and reports every call to a recorder.
type Instrumented struct {
	next Backend
	rec  OperationRecorder
}

// NewInstrumented wraps next. A nil recorder returns next unchanged.
func NewInstrumented(next Backend, rec OperationRecorder) Backend {
	if rec == nil {
		return next
	}
	return &Instrumented{next: next, rec: rec}
}

func (i *Instrumented) observe(op string, start time.Time, err error) {
	i.rec.ObserveOperation(i.next.Provider(), op, err, time.Since(start))
}

// List implements Backend.
func (i *Instrumented) List(ctx context.Context, path string) ([]dto.Entry, error) {
	start := time.Now()
	entries, err := i.next.List(ctx, path)
	i.observe("list", start, err)
	return entries, err
}

// Exists implements Backend.
func (i *Instrumented) Exists(ctx context.Context, path string) (bool, error) {
	start := time.Now()
	ok, err := i.next.Exists(ctx, path)
	i.observe("exists", start, err)
	return ok, err
}

// Read implements Backend.
func (i *Instrumented) Read(ctx context.Context, path string) ([]byte, error) {
	start := time.Now()
	data, err := i.next.Read(ctx, path)
	i.observe("read", start, err)
	if err == nil {
		i.rec.AddBytesRead(i.next.Provider(), uint64(len(data)))
	}
	return data, err
}

// OpenWriter implements Backend. Bytes are counted as they are written.
func (i *Instrumented) OpenWriter(ctx context.Context, path string) (Writer, error) {
	start := time.Now()
	w, err := i.next.OpenWriter(ctx, path)
	i.observe("open_writer", start, err)
	if err != nil {
		return nil, err
	}
	return &countingWriter{Writer: w, parent: i}, nil
}

// CreateDir implements Backend.
func (i *Instrumented) CreateDir(ctx context.Context, path string) error {
	start := time.Now()
	err := i.next.CreateDir(ctx, path)
	i.observe("create_dir", start, err)
	return err
}

// Stat implements Backend.
func (i *Instrumented) Stat(ctx context.Context, path string) (dto.Entry, error) {
	start := time.Now()
	e, err := i.next.Stat(ctx, path)
	i.observe("stat", start, err)
	return e, err
}

// Provider implements Backend.
func (i *Instrumented) Provider() string {
	return i.next.Provider()
}

// Close implements Backend.
func (i *Instrumented) Close() error {
	return i.next.Close()
}

type countingWriter struct {
	Writer
	parent *Instrumented
	start  time.Time
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.start.IsZero() {
		c.start = time.Now()
	}
	n, err := c.Writer.Write(p)
	if n > 0 {
		c.parent.rec.AddBytesWritten(c.parent.next.Provider(), uint64(n))
	}
	return n, err
}

func (c *countingWriter) Close() error {
	start := c.start
	if start.IsZero() {
		start = time.Now()
	}
	err := c.Writer.Close()
	c.parent.observe("write", start, err)
	return err
}
