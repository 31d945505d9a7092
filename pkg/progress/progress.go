// Package progress reports the advancement of a streaming transfer.
package progress

import (
	"fmt"
	"io"
)

// DefaultEvery is the number of chunks between two events.
const DefaultEvery = 100

// Event describes the state of a transfer when it is reported.
type Event struct {
	Path    string
	Bytes   uint64
	Total   uint64
	Percent int
}

// Func receives progress events. It is called synchronously by the transfer.
type Func func(Event)

// Discard drops every event.
func Discard(Event) {}

// Console returns a Func that rewrites a single line on w.
func Console(w io.Writer) Func {
	return func(e Event) {
		fmt.Fprintf(w, "\rUploading %s: %d%%", e.Path, e.Percent)
	}
}

// Tracker counts the chunks of one transfer and emits an event every N chunks.
// Nothing is emitted for a transfer of unknown or zero size.
type Tracker struct {
	path    string
	total   uint64
	every   int
	fn      Func
	bytes   uint64
	chunks  int
	emitted int
}

// NewTracker creates a tracker for a transfer of total bytes.
func NewTracker(path string, total uint64, fn Func) *Tracker {
	if fn == nil {
		fn = Discard
	}
	return &Tracker{path: path, total: total, every: DefaultEvery, fn: fn}
}

// SetEvery changes the number of chunks between two events.
func (t *Tracker) SetEvery(n int) {
	if n > 0 {
		t.every = n
	}
}

// Chunk records n transferred bytes.
func (t *Tracker) Chunk(n int) {
	if n <= 0 {
		return
	}
	t.bytes += uint64(n)
	t.chunks++
	if t.total == 0 || t.chunks%t.every != 0 {
		return
	}
	t.emitted++
	t.fn(Event{
		Path:    t.path,
		Bytes:   t.bytes,
		Total:   t.total,
		Percent: percent(t.bytes, t.total),
	})
}

// Bytes returns the number of bytes recorded so far.
func (t *Tracker) Bytes() uint64 {
	return t.bytes
}

// Emitted returns the number of events sent.
func (t *Tracker) Emitted() int {
	return t.emitted
}

func percent(done, total uint64) int {
	if total == 0 {
		return 0
	}
	p := int(float64(done) / float64(total) * 100)
	if p > 100 {
		return 100
	}
	return p
}
