package main

import (
	"errors"
	"strconv"
	"strings"
)

type mode int

const (
	modeExecute mode = iota
	modeCompile
)

func (m mode) String() string {
	if m == modeCompile {
		return "compile"
	}
	return "execute"
}

// interp holds the state of the outer interpreter, which turns input words
// into either immediate action or compiled code.
type interp struct {
	mode     mode
	defining FuncID // function under definition, or noFunc
	boot     FuncID // top level loop

	prompts [2]string // indexed by mode
}

// The top level loop is ordinary bytecode: prompt, then jump back to the
// prompt. The relative jump is taken from its operand, so -2 lands back on
// the prompt.
var bootCode = []int8{
	int8(opPrompt),
	int8(opJump), -2,
}

const bootName = " "

func (vm *VM) compileBoot() {
	vm.boot = vm.dict.Add(bootName)
	vm.dict.Get(vm.boot).emit(bootCode...)
	vm.fn, vm.pc = vm.boot, -1
}

// prompt reads and dispatches words until the end of the current line, or
// until control transfers to an interpreted function. The prompt string
// itself is shown by the input source, whenever it reads a new line.
func (vm *VM) prompt() error {
	for vm.running {
		if more, err := vm.read(); err != nil || !more {
			return err
		}
	}
	return nil
}

// showPrompt writes the current mode's prompt, less any leading line break
// right after a diagnostic line.
func (vm *VM) showPrompt() {
	prompt := vm.prompts[vm.mode]
	if vm.reported {
		prompt = strings.TrimPrefix(prompt, "\n")
	}
	vm.write(prompt)
}

// read reads and dispatches one word, returning false at the end of a line.
func (vm *VM) read() (bool, error) {
	word := vm.nextWord()
	if word == "" {
		return false, nil
	}
	return vm.dispatch(word)
}

// dispatch resolves a word against the dictionary, or as a number, then
// either runs or compiles it according to the current mode. Immediate
// functions always run.
//
// Returns true if reading may continue on the current line; returns false
// when control has transferred to an interpreted function, which must run
// first.
func (vm *VM) dispatch(word string) (bool, error) {
	if id, found := vm.dict.Find(word); found {
		fn := vm.dict.Get(id)
		switch {
		case fn.Immediate:
			vm.logf("run", "immediate %v", word)
			native := fn.isNative()
			return native, vm.call(id)

		case vm.mode == modeExecute:
			native := fn.isNative()
			return native, vm.call(id)

		default:
			return true, vm.compileCall(word, id)
		}
	}

	n, err := strconv.ParseInt(word, 10, 32)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			vm.logf("!", "number %q out of range", word)
		}
		vm.reportf("Error: `%v` not a function or a number", word)
		return true, nil
	}
	if vm.mode == modeExecute {
		vm.push(int32(n))
		return true, nil
	}
	return true, vm.compileLiteral(int32(n))
}

func (vm *VM) compileCall(word string, id FuncID) error {
	def := vm.dict.Get(vm.defining)
	if def == nil {
		return errNotDefining
	}
	if id > maxCallID {
		vm.reportf("Error: `%v` cannot be compiled, function id %v out of range", word, int(id))
		return nil
	}
	vm.logf("compile", "%v call %v", def.Name, word)
	def.emit(int8(opCall), int8(uint8(id)))
	return nil
}

// Compiled literals only have a signed byte of range; wider values are
// truncated to their low 8 bits.
func (vm *VM) compileLiteral(n int32) error {
	def := vm.dict.Get(vm.defining)
	if def == nil {
		return errNotDefining
	}
	lit := int8(n)
	if int32(lit) != n {
		vm.logf("compile", "%v truncating literal %v to %v", def.Name, n, lit)
	} else {
		vm.logf("compile", "%v pushnum %v", def.Name, lit)
	}
	def.emit(int8(opPushNum), lit)
	return nil
}

//// Definitions

// Symbol   Name     Function
//    :     define   read a name, and start compiling a new function under it
func (vm *VM) define() error {
	vm.mode = modeCompile
	name := vm.nextWord()
	for name == "" {
		name = vm.nextWord()
	}

	if _, defined := vm.dict.Find(name); defined {
		vm.mode = modeExecute
		vm.defining = noFunc
		vm.reportf("Function already defined: %v", name)
		return nil
	}

	vm.defining = vm.dict.Add(name)
	vm.logf("define", "%v #%v", name, int(vm.defining))
	return nil
}

// Symbol   Name     Function
//    ;     end      (immediate) finish the current definition, returning to
//                   execute mode
func (vm *VM) endDefine() error {
	vm.mode = modeExecute
	if def := vm.dict.Get(vm.defining); def != nil {
		def.emit(int8(opReturn))
		vm.logf("define", "%v done %v", def.Name, def.Code)
	}
	vm.defining = noFunc
	return nil
}

var errNotDefining = errors.New("compile mode without a definition")
