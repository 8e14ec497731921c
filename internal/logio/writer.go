package logio

import (
	"bytes"
	"sync"
)

// Writer implements an io.Writer around a formatted logging function, logging
// one message per completed line.
type Writer struct {
	Logf func(string, ...interface{})

	mu  sync.Mutex
	buf bytes.Buffer
}

// Write buffers p, logging any completed lines. Always succeeds.
func (lw *Writer) Write(p []byte) (n int, err error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.buf.Write(p)
	lw.flushLines(false)
	return len(p), nil
}

// Flush logs any partial line still buffered.
func (lw *Writer) Flush() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.flushLines(true)
	return nil
}

// Close calls Flush.
func (lw *Writer) Close() error { return lw.Flush() }

func (lw *Writer) flushLines(all bool) {
	for lw.buf.Len() > 0 {
		i := bytes.IndexByte(lw.buf.Bytes(), '\n')
		if i < 0 {
			if !all {
				return
			}
			i = lw.buf.Len()
		}
		lw.Logf("%s", lw.buf.Next(i))
		lw.buf.Next(1)
	}
}
