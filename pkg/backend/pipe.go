package backend

import (
	"io"
	"sync"
)

// UploadFunc consumes r until EOF and stores it as one object.
type UploadFunc func(r io.Reader) error

// PipeWriter adapts an SDK upload call that wants an io.Reader into a Writer.
// The upload runs in its own goroutine; Close waits for it and returns its error.
type PipeWriter struct {
	pw   *io.PipeWriter
	done chan struct{}
	err  error
	once sync.Once
}

// NewPipeWriter starts upload in a goroutine fed by the returned writer.
func NewPipeWriter(upload UploadFunc) *PipeWriter {
	pr, pw := io.Pipe()
	w := &PipeWriter{
		pw:   pw,
		done: make(chan struct{}),
	}
	go func() {
		defer close(w.done)
		err := upload(pr)
		// unblock the writer if the upload stopped early
		pr.CloseWithError(err)
		w.err = err
	}()
	return w
}

// Write sends p to the upload.
func (w *PipeWriter) Write(p []byte) (int, error) {
	n, err := w.pw.Write(p)
	if err != nil {
		<-w.done
		if w.err != nil {
			return n, w.err
		}
	}
	return n, err
}

// Close signals EOF to the upload and waits for it to complete.
func (w *PipeWriter) Close() error {
	w.once.Do(func() {
		_ = w.pw.Close()
	})
	<-w.done
	return w.err
}

// Abort makes the upload fail with err so that the object is not committed.
func (w *PipeWriter) Abort(err error) error {
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	w.once.Do(func() {
		_ = w.pw.CloseWithError(err)
	})
	<-w.done
	return nil
}
