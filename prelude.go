package main

import (
	"bytes"
	"io"
)

//// Prelude: a few words built from the primitives

var prelude = preludeSource{}

type preludeSource struct{}

func (preludeSource) Name() string { return "prelude.wf" }

// Every word here is an ordinary colon definition; nothing in the prelude is
// privileged over what a user could type.
func (preludeSource) WriteTo(w io.Writer) (n int64, err error) {
	var buf bytes.Buffer
	line := func(parts ...string) {
		if err != nil {
			return
		}
		for _, s := range parts {
			buf.WriteString(s)
		}
		buf.WriteByte('\n')
		var m int64
		m, err = buf.WriteTo(w)
		n += m
	}

	// There is no negation primitive, but subtracting from zero will do.
	line(`: neg 0 swp - ;`)

	// Powers, by repeated multiplication.
	line(`: sq dup * ;`)
	line(`: cube dup dup * * ;`)

	// Stepping by one is common enough to deserve names.
	line(`: inc 1 + ;`)
	line(`: dec 1 - ;`)

	// Definitions may span lines, and may call each other.
	line(`: sumsq`)
	line(`  sq swp sq + ;`)

	return n, err
}
