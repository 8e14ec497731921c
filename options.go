package main

import (
	"bytes"
	"io"
	"io/ioutil"

	"github.com/jcorbin/weakforth/internal/flushio"
	"github.com/jcorbin/weakforth/internal/wordio"
)

// VMOption configures a VM at construction time.
type VMOption interface{ apply(vm *VM) }

const (
	defaultExecutePrompt = "\n> "
	defaultCompilePrompt = "...> "
	defaultRetLimit      = 4096
)

var defaults = []VMOption{
	withOutput(ioutil.Discard),
	withPrompts(defaultExecutePrompt, defaultCompilePrompt),
	withRetLimit(defaultRetLimit),
}

// VMOptions combines any number of options into one, applied in order.
func VMOptions(opts ...VMOption) VMOption {
	var all vmOptions
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil:
		case vmOptions:
			all = append(all, impl...)
		default:
			all = append(all, impl)
		}
	}
	if len(all) == 1 {
		return all[0]
	}
	return all
}

type vmOptions []VMOption

func (opts vmOptions) apply(vm *VM) {
	for _, opt := range opts {
		opt.apply(vm)
	}
}

func (vm *VM) apply(opts ...VMOption) {
	vmOptions(defaults).apply(vm)
	VMOptions(opts...).apply(vm)
}

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(vm *VM) {
	vm.logfn = logfn
}

type withErrStyle func(format string, args ...interface{}) string

func (style withErrStyle) apply(vm *VM) {
	vm.errStyle = style
}

type inputOption struct{ io.Reader }
type inputWriterOption struct{ io.WriterTo }
type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type promptsOption [2]string
type retLimitOption int

func withInput(r io.Reader) inputOption                 { return inputOption{r} }
func withInputWriter(w io.WriterTo) inputWriterOption   { return inputWriterOption{w} }
func withOutput(w io.Writer) outputOption               { return outputOption{w} }
func withTee(w io.Writer) teeOption                     { return teeOption{w} }
func withPrompts(execute, compile string) promptsOption { return promptsOption{execute, compile} }
func withRetLimit(limit int) retLimitOption             { return retLimitOption(limit) }

func (i inputOption) apply(vm *VM) {
	vm.in.Queue = append(vm.in.Queue, i.Reader)
	if cl, ok := i.Reader.(io.Closer); ok {
		vm.closers = append(vm.closers, cl)
	}
}

// Input writers, like the prelude, are rendered into a buffer up front, and
// queued under the writer's name.
func (i inputWriterOption) apply(vm *VM) {
	var buf bytes.Buffer
	if _, err := i.WriteTo(&buf); err != nil {
		panic(err)
	}
	name := wordio.NameOf(i.WriterTo)
	vm.in.Queue = append(vm.in.Queue, NamedReader(name, &buf))
}

func (o outputOption) apply(vm *VM) {
	if vm.out != nil {
		vm.out.Flush()
	}
	vm.out = flushio.NewWriteFlusher(o.Writer)
}

func (o teeOption) apply(vm *VM) {
	vm.out = flushio.Tee(vm.out, flushio.NewWriteFlusher(o.Writer))
}

func (p promptsOption) apply(vm *VM) {
	vm.prompts = [2]string(p)
}

func (lim retLimitOption) apply(vm *VM) {
	vm.retLimit = int(lim)
}
