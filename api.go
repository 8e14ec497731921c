package main

import (
	"context"
	"errors"
	"io"

	"github.com/jcorbin/weakforth/internal/panicerr"
)

// New creates a VM with all builtin functions defined, ready to Run its
// top level loop over any given input.
func New(opts ...VMOption) *VM {
	var vm VM
	vm.apply(opts...)
	vm.init()
	return &vm
}

func (vm *VM) init() {
	vm.defining = noFunc
	vm.compileBuiltins(machineBuiltins)
	vm.compileBoot()
	vm.compileBuiltins(interpBuiltins)
	vm.in.Flush = vm.out.Flush
	vm.in.Prompt = vm.showPrompt
	vm.running = true
}

// Run runs the VM's top level loop until either the exit word is run, or all
// input has been consumed; both are a normal halt, returning nil. Any other
// error, like an output failure or context cancellation, is returned.
func (vm *VM) Run(ctx context.Context) error {
	err := panicerr.Recover("VM", func() error {
		vm.run(ctx)
		return nil
	})
	var halted haltError
	if errors.As(err, &halted) {
		err = halted.error
	}
	switch {
	case panicerr.IsPanic(err):
		vm.logf("!", "%v\n%s", err, panicerr.Stack(err))
	case panicerr.IsExit(err):
		vm.logf("!", "%v", err)
	}
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (vm *VM) run(ctx context.Context) {
	vm.exec(ctx)
	vm.haltif(vm.out.Flush())
}

// Location returns the input location of the most recently read line.
func (vm *VM) Location() string {
	if vm.in.Last.Name == "" {
		return ""
	}
	return vm.in.Last.String()
}

// Stack returns a copy of the data stack, bottom first.
func (vm *VM) Stack() []int32 {
	return append([]int32{}, vm.stack...)
}

func WithInput(r io.Reader) VMOption                       { return withInput(r) }
func WithInputWriter(w io.WriterTo) VMOption               { return withInputWriter(w) }
func WithOutput(w io.Writer) VMOption                      { return withOutput(w) }
func WithTee(w io.Writer) VMOption                         { return withTee(w) }
func WithPrompts(execute, compile string) VMOption         { return withPrompts(execute, compile) }
func WithRetLimit(limit int) VMOption                      { return withRetLimit(limit) }
func WithPrelude() VMOption                                { return withInputWriter(prelude) }
func WithLogf(logfn func(string, ...interface{})) VMOption { return withLogfn(logfn) }

// WithErrorStyle sets a formatting function applied to diagnostics, e.g. to
// color them.
func WithErrorStyle(style func(format string, args ...interface{}) string) VMOption {
	return withErrStyle(style)
}

// NamedReader attaches a name to a reader, used to label input locations.
func NamedReader(name string, r io.Reader) io.Reader {
	return namedReader{r, name}
}

type namedReader struct {
	io.Reader
	name string
}

func (nr namedReader) Name() string { return nr.name }
