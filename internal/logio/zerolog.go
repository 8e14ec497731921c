// Package logio adapts printf-style trace logging to io.Writer and zerolog.
package logio

import (
	"fmt"

	"github.com/rs/zerolog"
)

// StringFunc adapts a function into a fmt.Stringer.
type StringFunc func() string

func (f StringFunc) String() string { return f() }

// ZeroLogf returns a printf-style logging function that emits debug events
// through the given zerolog logger. If at is non-nil, each event is tagged
// with its current value, e.g. an input file location.
func ZeroLogf(log zerolog.Logger, at fmt.Stringer) func(mess string, args ...interface{}) {
	return func(mess string, args ...interface{}) {
		ev := log.Debug()
		if at != nil {
			if s := at.String(); s != "" {
				ev = ev.Str("at", s)
			}
		}
		ev.Msgf(mess, args...)
	}
}
