// Package panicerr turns abnormal goroutine exits into error values.
package panicerr

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Recover runs f in a new goroutine, returning its error. Any panic is
// returned as a PanicError, and any runtime.Goexit as an ExitError.
func Recover(name string, f func() error) error {
	errch := make(chan error, 1)
	go func() {
		defer close(errch)
		defer func() {
			// happy path and panic path both send; anything else is a Goexit
			select {
			case errch <- ExitError{name}:
			default:
			}
		}()
		defer func() {
			if e := recover(); e != nil {
				errch <- PanicError{Name: name, Value: e, Stack: debug.Stack()}
			}
		}()
		errch <- f()
	}()
	return <-errch
}

// PanicError is a recovered panic value, along with the stack at recovery.
type PanicError struct {
	Name  string
	Value interface{}
	Stack []byte
}

func (pe PanicError) Error() string { return fmt.Sprint(pe) }

// Format prints the panic stack under the %+v verb.
func (pe PanicError) Format(f fmt.State, c rune) {
	if pe.Name == "" {
		fmt.Fprintf(f, "paniced: %v", pe.Value)
	} else {
		fmt.Fprintf(f, "%v paniced: %v", pe.Name, pe.Value)
	}
	if c == 'v' && f.Flag('+') {
		fmt.Fprintf(f, "\nPanic stack: %s", pe.Stack)
	}
}

// Unwrap returns the panic value if it was an error.
func (pe PanicError) Unwrap() error {
	err, _ := pe.Value.(error)
	return err
}

// ExitError indicates that a Recover-ed function called runtime.Goexit.
type ExitError struct{ Name string }

func (xe ExitError) Error() string {
	if xe.Name == "" {
		return "runtime.Goexit called"
	}
	return fmt.Sprintf("%v called runtime.Goexit", xe.Name)
}

// IsPanic returns true if err indicates a recovered panic.
func IsPanic(err error) bool {
	var pe PanicError
	return errors.As(err, &pe)
}

// IsExit returns true if err indicates a recovered goroutine exit.
func IsExit(err error) bool {
	var xe ExitError
	return errors.As(err, &xe)
}

// Stack returns a non-empty stacktrace string if err is a recovered panic.
func Stack(err error) string {
	var pe PanicError
	if errors.As(err, &pe) {
		return string(pe.Stack)
	}
	return ""
}
