// Package flushio provides the buffered output sink used by the runtime.
package flushio

import (
	"bufio"
	"io"
	"io/ioutil"
)

// WriteFlusher is a flush-able io.Writer.
type WriteFlusher interface {
	io.Writer
	Flush() error
}

// NewWriteFlusher returns a WriteFlusher around w:
// - w itself if it is already a WriteFlusher
// - a noop flusher for in memory buffers and ioutil.Discard
// - otherwise a new bufio.Writer
func NewWriteFlusher(w io.Writer) WriteFlusher {
	switch impl := w.(type) {
	case WriteFlusher:
		return impl
	case buffer:
		return nopFlusher{w}
	}
	if w == ioutil.Discard {
		return nopFlusher{w}
	}
	return bufio.NewWriter(w)
}

// buffer matches in memory writers like bytes.Buffer and strings.Builder.
type buffer interface {
	io.Writer
	Len() int
	Grow(n int)
	Reset()
}

type nopFlusher struct{ io.Writer }

func (nopFlusher) Flush() error { return nil }

// Tee combines any number of WriteFlusher-s into one that writes to, and
// flushes, all of them in order. Nil arguments are skipped.
func Tee(wfs ...WriteFlusher) WriteFlusher {
	var all tee
	for _, wf := range wfs {
		if many, ok := wf.(tee); ok {
			all = append(all, many...)
		} else if wf != nil {
			all = append(all, wf)
		}
	}
	switch len(all) {
	case 0:
		return nil
	case 1:
		return all[0]
	}
	return all
}

type tee []WriteFlusher

func (t tee) Write(p []byte) (int, error) {
	for _, wf := range t {
		if n, err := wf.Write(p); err != nil {
			return n, err
		} else if n != len(p) {
			return n, io.ErrShortWrite
		}
	}
	return len(p), nil
}

func (t tee) Flush() (err error) {
	for _, wf := range t {
		if ferr := wf.Flush(); err == nil {
			err = ferr
		}
	}
	return err
}
