package wordio

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Location names a line in a Source input stream.
type Location struct {
	Name string
	Line int
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }

// Source implements line buffered word scanning through a Queue of one or
// more input streams.
//
// Words are split on unicode space and control runes. Every line read
// appends an empty string sentinel after its words, so that callers can tell
// when the current line has been exhausted; the next call after the sentinel
// reads a fresh line.
type Source struct {
	Queue []io.Reader

	// Flush, if non-nil, is called before blocking on a new line read.
	Flush func() error

	// Prompt, if non-nil, is called before reading a new line from the last
	// queued stream; earlier streams, like files, are read without prompting.
	Prompt func()

	// Last is the location of the most recently read line, and Text its content.
	Last Location
	Text string

	rd    *bufio.Reader
	words []string
}

// Empty returns true if no words remain buffered from the current line.
func (src *Source) Empty() bool { return len(src.words) == 0 }

// Buffered returns any words remaining from the current line, not counting
// its end of line sentinel.
func (src *Source) Buffered() []string {
	if n := len(src.words); n > 0 && src.words[n-1] == "" {
		return src.words[:n-1]
	}
	return src.words
}

// Discard drops any remaining words from the current line, leaving only its
// end of line sentinel.
func (src *Source) Discard() {
	src.words = append(src.words[:0], "")
}

// NextWord returns the next word from the current line, reading a new line
// if necessary. An empty string marks the end of a line. Returns io.EOF after
// all queued streams have been exhausted.
func (src *Source) NextWord() (string, error) {
	if len(src.words) == 0 {
		if err := src.readLine(); err != nil {
			return "", err
		}
	}
	word := src.words[0]
	src.words = src.words[1:]
	return word, nil
}

func (src *Source) readLine() error {
	for {
		if src.rd == nil && !src.nextIn() {
			return io.EOF
		}
		if src.Prompt != nil && len(src.Queue) == 0 {
			src.Prompt()
		}
		if src.Flush != nil {
			if err := src.Flush(); err != nil {
				return err
			}
		}
		line, err := src.rd.ReadString('\n')
		if line != "" {
			src.Last.Line++
			src.Text = strings.TrimRight(line, "\r\n")
			src.words = append(src.words, strings.FieldsFunc(line, IsSeparator)...)
			src.words = append(src.words, "")
			return nil
		}
		if err != io.EOF {
			return err
		}
		src.rd = nil
	}
}

func (src *Source) nextIn() bool {
	if len(src.Queue) == 0 {
		return false
	}
	r := src.Queue[0]
	src.Queue = src.Queue[1:]
	if br, ok := r.(*bufio.Reader); ok {
		src.rd = br
	} else {
		src.rd = bufio.NewReader(r)
	}
	src.Last = Location{Name: NameOf(r)}
	return true
}

// IsSeparator returns true for the runes that separate words: unicode space
// and control characters.
func IsSeparator(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsControl(r)
}

// NameOf returns obj's Name(), if it has one, or a placeholder naming its type.
func NameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
