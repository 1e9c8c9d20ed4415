// Package wire keeps concurrent writers from interleaving frames on
// a shared connection.
package wire

import (
	"io"
	"sync"
)

// A FrameWriter serializes writes to an underlying io.Writer. 9P
// responses may be produced by any number of handler goroutines, but
// each frame must land on the connection in one contiguous piece; a
// FrameWriter guarantees that by holding a lock for the duration of
// each frame.
type FrameWriter struct {
	W  io.Writer
	mu sync.Mutex
}

// WriteFrame writes one complete frame to the underlying writer.
// Frames written concurrently from multiple goroutines do not
// interleave. A short write is reported as an error by the
// underlying writer per the io.Writer contract.
func (w *FrameWriter) WriteFrame(frame []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := w.W.Write(frame)
	return err
}
