package main

import "fmt"

// FuncID is a stable index into a Dictionary.
type FuncID int

const noFunc FuncID = -1

// Native implements a dictionary function directly in Go, rather than as
// bytecode. Natives run synchronously, and may use any of the VM's state,
// but never push or pop return frames other than through its methods.
type Native interface {
	Call(vm *VM) error
}

type nativeFunc func(vm *VM) error

func (f nativeFunc) Call(vm *VM) error { return f(vm) }

// Function is a named callable unit: either native (empty Code, non-nil
// Native) or interpreted (non-empty Code, nil Native). A function still under
// definition has neither.
type Function struct {
	Name      string
	Code      []int8
	Native    Native
	Immediate bool
}

func (fn *Function) isNative() bool { return len(fn.Code) == 0 }

func (fn *Function) emit(code ...int8) { fn.Code = append(fn.Code, code...) }

// Dictionary is an append-only, insertion ordered table of functions.
type Dictionary struct {
	funcs []Function
}

// Len returns the number of functions defined.
func (dict *Dictionary) Len() int { return len(dict.funcs) }

// Add appends a new, empty, function entry, returning its id.
func (dict *Dictionary) Add(name string) FuncID {
	dict.funcs = append(dict.funcs, Function{Name: name})
	return FuncID(len(dict.funcs) - 1)
}

// Find returns the id of the first function whose name matches exactly.
func (dict *Dictionary) Find(name string) (FuncID, bool) {
	for i := range dict.funcs {
		if dict.funcs[i].Name == name {
			return FuncID(i), true
		}
	}
	return noFunc, false
}

// Get returns the function with the given id, or nil if there is none.
// The returned pointer is only valid until the next Add.
func (dict *Dictionary) Get(id FuncID) *Function {
	if id < 0 || int(id) >= len(dict.funcs) {
		return nil
	}
	return &dict.funcs[id]
}

// Bind attaches a native implementation to a function that has no code.
func (dict *Dictionary) Bind(id FuncID, native Native) error {
	fn := dict.Get(id)
	if fn == nil {
		return fmt.Errorf("cannot bind native to undefined function #%v", id)
	}
	if len(fn.Code) > 0 {
		return fmt.Errorf("cannot bind native to interpreted function %q", fn.Name)
	}
	fn.Native = native
	return nil
}
