package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/jcorbin/weakforth/internal/flushio"
	"github.com/jcorbin/weakforth/internal/wordio"
)

// core holds the session's input, output, and logging.
type core struct {
	logging
	in      wordio.Source
	out     flushio.WriteFlusher
	closers []io.Closer

	errStyle func(format string, args ...interface{}) string

	// reported is set while the last output is a whole diagnostic line
	reported bool
}

// Close closes any input streams, and other resources, held by the session.
func (c *core) Close() error {
	var errs *multierror.Error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	c.closers = nil
	return errs.ErrorOrNil()
}

// halt stops the session by panicking with a haltError; Run recovers it.
func (c *core) halt(err error) {
	// ignore any panics while trying to flush output
	func() {
		defer func() { recover() }()
		if c.out != nil {
			if ferr := c.out.Flush(); err == nil {
				err = ferr
			}
		}
	}()

	// ignore any panics while logging
	func() {
		defer func() { recover() }()
		c.logf("#", "halt: %v", err)
	}()

	panic(haltError{err})
}

func (c *core) haltif(err error) {
	if err != nil {
		c.halt(err)
	}
}

func (c *core) nextWord() string {
	word, err := c.in.NextWord()
	c.haltif(err)
	if word != "" {
		c.logf(">", "%q from %v", word, c.in.Last)
	}
	return word
}

func (c *core) printf(format string, args ...interface{}) {
	c.reported = false
	_, err := fmt.Fprintf(c.out, format, args...)
	c.haltif(err)
}

func (c *core) write(s string) {
	if s != "" {
		c.reported = false
		_, err := io.WriteString(c.out, s)
		c.haltif(err)
	}
}

// reportf writes a diagnostic line, and discards the rest of the current
// input line.
func (c *core) reportf(format string, args ...interface{}) {
	mess := fmt.Sprintf(format, args...)
	c.logf("!", "%v (discarding %q)", mess, c.in.Buffered())
	if c.errStyle != nil {
		mess = c.errStyle("%s", mess)
	}
	c.write(mess)
	c.write("\n")
	c.reported = true
	c.in.Discard()
}

type haltError struct{ error }

func (err haltError) Error() string {
	if err.error != nil {
		return fmt.Sprintf("halted: %v", err.error)
	}
	return "halted"
}
func (err haltError) Unwrap() error { return err.error }

type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
}

func (log *logging) withLogPrefix(prefix string) func() {
	logfn := log.logfn
	log.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() {
		log.logfn = logfn
	}
}

func (log *logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		mark += strings.Repeat(" ", n)
	} else if n < 0 {
		log.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
