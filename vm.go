package main

import (
	"context"
	"errors"
	"fmt"
)

// VM is a weakforth session: a bytecode machine, its function dictionary and
// stacks, along with the interpreter that feeds it words from input.
type VM struct {
	core

	dict Dictionary

	// The data stack holds signed 32-bit integers, and is implicitly used
	// by most primitives as an accumulator.
	stack []int32

	// The return stack records where to resume after an interpreted call.
	rstack   []frame
	retLimit int

	fn      FuncID // function whose code is executing
	pc      int    // index into fn's code; -1 before its first instruction
	running bool

	interp
}

//// Instructions

// Each instruction is an opcode byte, optionally followed by a signed operand
// byte.
type opcode int8

const (
	opCall    opcode = iota // call <id>    call a function
	opJump                  // jump <off>   relative jump, from the operand
	opPrompt                // prompt       read and run words until end of line
	opPushNum               // pushnum <n>  push a literal
	opRead                  // read         read and run one word
	opReturn                // return       return to the caller

	opMax
)

var opNames = [opMax]string{
	"call",
	"jump",
	"prompt",
	"pushnum",
	"read",
	"return",
}

func (op opcode) String() string {
	if op >= 0 && op < opMax {
		return opNames[op]
	}
	return fmt.Sprintf("op(%d)", int8(op))
}

func (op opcode) hasOperand() bool {
	return op == opCall || op == opJump || op == opPushNum
}

// Compiled call operands are read as unsigned bytes, so only the first 256
// functions may be called from bytecode.
const maxCallID = 255

func (vm *VM) exec(ctx context.Context) {
	if vm.logfn != nil {
		defer vm.withLogPrefix("	")()
	}
	for vm.running {
		if err := vm.step(); err != nil {
			vm.fault(err)
		}
		vm.haltif(ctx.Err())
	}
}

func (vm *VM) step() error {
	at := vm.pc + 1
	code, err := vm.fetch()
	if err != nil {
		return err
	}
	if vm.logfn != nil {
		vm.logf("exec", "%v@%v %v -- r:%v s:%v", vm.funcName(vm.fn), at, opcode(code), len(vm.rstack), vm.stack)
	}

	switch op := opcode(code); op {
	case opCall:
		arg, err := vm.fetch()
		if err != nil {
			return err
		}
		return vm.call(FuncID(uint8(arg)))

	case opJump:
		arg, err := vm.fetch()
		if err != nil {
			return err
		}
		vm.pc += int(arg) - 1

	case opPrompt:
		return vm.prompt()

	case opPushNum:
		arg, err := vm.fetch()
		if err != nil {
			return err
		}
		vm.push(int32(arg))

	case opRead:
		prompt := vm.in.Prompt
		vm.in.Prompt = nil
		_, err := vm.read()
		vm.in.Prompt = prompt
		return err

	case opReturn:
		return vm.ret()

	default:
		return opcodeError{code, at}
	}
	return nil
}

func (vm *VM) fetch() (int8, error) {
	vm.pc++
	if fn := vm.dict.Get(vm.fn); fn != nil && vm.pc >= 0 && vm.pc < len(fn.Code) {
		return fn.Code[vm.pc], nil
	}
	return 0, progError{vm.fn, vm.pc}
}

// call transfers control to a function: interpreted functions push a return
// frame and start at their first instruction, while natives run to completion
// right now.
func (vm *VM) call(id FuncID) error {
	fn := vm.dict.Get(id)
	if fn == nil {
		return callError(id)
	}
	if !fn.isNative() {
		if err := vm.pushr(frame{vm.fn, vm.pc}); err != nil {
			return err
		}
		vm.logf("call", "%v", fn.Name)
		vm.fn, vm.pc = id, -1
		return nil
	}
	if fn.Native == nil {
		// still under definition
		return nil
	}
	return fn.Native.Call(vm)
}

func (vm *VM) ret() error {
	fr, err := vm.popr()
	if err != nil {
		return err
	}
	vm.fn, vm.pc = fr.fn, fr.pc
	if fn := vm.dict.Get(vm.fn); fn != nil {
		vm.logf("return", "%v", fn.Name)
	}
	return nil
}

// fault reports a runtime error, discards any remaining input on the current
// line, and restarts the top level loop.
func (vm *VM) fault(err error) {
	vm.logf("!", "fault: %v at %v %q", err, vm.in.Last, vm.in.Text)
	vm.reportf("Error: %v", err)
	vm.rstack = vm.rstack[:0]
	vm.fn, vm.pc = vm.boot, -1
	if vm.defining == noFunc {
		vm.mode = modeExecute
	}
}

var (
	errStackUnderflow = errors.New("stack underflow")
	errDivZero        = errors.New("division by zero")
	errRetOverflow    = errors.New("return stack overflow")
	errRetUnderflow   = errors.New("return stack underflow")
)

type opcodeError struct {
	code int8
	at   int
}

type progError struct {
	fn FuncID
	pc int
}

type callError FuncID

func (err opcodeError) Error() string {
	return fmt.Sprintf("invalid opcode %v at instruction %v", err.code, err.at)
}

func (err progError) Error() string {
	return fmt.Sprintf("program counter %v out of bounds in function #%v", err.pc, int(err.fn))
}

func (id callError) Error() string { return fmt.Sprintf("call to undefined function #%v", int(id)) }
