package main

import (
	"strconv"
	"strings"
)

//// Native Primitives

// Natives are dictionary functions with no bytecode. They are all defined
// before any user word, so that bytecode can always reach them with a one
// byte call operand.

//// Integer Operations

// Each binary operation pops the top element b, then the next element a, and
// pushes (a op b); so "10 3 -" leaves 7. Results wrap at 32 bits.

// Symbol   Name           Function
//    +     add            pop top 2 elements of stack, add, push
func (vm *VM) add() error { return vm.binop(func(a, b int32) int32 { return a + b }) }

// Symbol   Name           Function
//    -     subtract       pop top 2 elements of stack, subtract, push
func (vm *VM) sub() error { return vm.binop(func(a, b int32) int32 { return a - b }) }

// Symbol   Name           Function
//    *     multiply       pop top 2 elements of stack, multiply, push
func (vm *VM) mul() error { return vm.binop(func(a, b int32) int32 { return a * b }) }

// Symbol   Name           Function
//    /     divide         pop top 2 elements of stack, divide, push;
//                         truncates towards zero
func (vm *VM) div() error {
	if err := vm.need(2); err != nil {
		return err
	}
	if vm.stack[len(vm.stack)-1] == 0 {
		return errDivZero
	}
	return vm.binop(func(a, b int32) int32 { return a / b })
}

func (vm *VM) binop(op func(a, b int32) int32) error {
	if err := vm.need(2); err != nil {
		return err
	}
	b, a := vm.pop(), vm.pop()
	vm.push(op(a, b))
	return nil
}

//// Stack Operations

// Name   Function
// dup    copy the top of stack
func (vm *VM) dup() error {
	if err := vm.need(1); err != nil {
		return err
	}
	vm.push(vm.stack[len(vm.stack)-1])
	return nil
}

// Name   Function
// pop    discard the top of stack
func (vm *VM) drop() error {
	if err := vm.need(1); err != nil {
		return err
	}
	vm.pop()
	return nil
}

// Name   Function
// clr    discard the entire stack
func (vm *VM) clr() error {
	vm.stack = vm.stack[:0]
	return nil
}

// Name   Function
// swp    exchange the top 2 elements of stack
func (vm *VM) swp() error {
	if err := vm.need(2); err != nil {
		return err
	}
	i := len(vm.stack) - 1
	vm.stack[i], vm.stack[i-1] = vm.stack[i-1], vm.stack[i]
	return nil
}

//// Output Operations

// Symbol   Name    Function
//    .     print   print the top of stack, without popping it; an empty
//                  stack prints <empty>
func (vm *VM) print() error {
	if i := len(vm.stack) - 1; i >= 0 {
		vm.printf("%v\n", vm.stack[i])
	} else {
		vm.write("<empty>\n")
	}
	return nil
}

// Symbol   Name         Function
//   ..     printstack   print the whole stack, bottom first, like [ 1 2 3 ]
func (vm *VM) printStack() error {
	var sb strings.Builder
	sb.WriteString("[ ")
	for _, val := range vm.stack {
		sb.WriteString(strconv.FormatInt(int64(val), 10))
		sb.WriteByte(' ')
	}
	sb.WriteString("]\n")
	vm.write(sb.String())
	return nil
}

//// Execution Operations

// Name   Function
// exit   halt the machine once the current instruction completes
func (vm *VM) exit() error {
	vm.logf("exit", "stack: %v", vm.stack)
	vm.running = false
	return nil
}

//// Introspection Operations

// Name    Function
// words   print the names of all defined functions, oldest first
func (vm *VM) words() error {
	var sb strings.Builder
	for id := FuncID(0); int(id) < vm.dict.Len(); id++ {
		if id == vm.boot {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(vm.dict.Get(id).Name)
	}
	sb.WriteByte('\n')
	vm.write(sb.String())
	return nil
}

// Name   Function
// see    read a name, and print the definition of that function
func (vm *VM) see() error {
	name := vm.nextWord()
	if name == "" {
		vm.reportf("Error: see needs a function name")
		return nil
	}
	id, found := vm.dict.Find(name)
	if !found {
		vm.reportf("Error: `%v` not a function", name)
		return nil
	}
	var sb strings.Builder
	vmDumper{vm: vm, out: &sb}.formatFunc(&sb, id)
	sb.WriteByte('\n')
	vm.write(sb.String())
	return nil
}

//// Registration

type builtin struct {
	name      string
	native    nativeFunc
	immediate bool
}

// machineBuiltins are defined first, then the top level loop, then
// interpBuiltins.
var machineBuiltins, interpBuiltins []builtin

func init() {
	machineBuiltins = []builtin{
		{".", (*VM).print, false},
		{"..", (*VM).printStack, false},
		{"+", (*VM).add, false},
		{"-", (*VM).sub, false},
		{"*", (*VM).mul, false},
		{"/", (*VM).div, false},
		{"dup", (*VM).dup, false},
		{"pop", (*VM).drop, false},
		{"clr", (*VM).clr, false},
		{"swp", (*VM).swp, false},
		{"exit", (*VM).exit, false},
	}
	interpBuiltins = []builtin{
		{":", (*VM).define, false},
		{";", (*VM).endDefine, true},
		{"words", (*VM).words, false},
		{"see", (*VM).see, false},
	}
}

func (vm *VM) compileBuiltins(builtins []builtin) {
	for _, b := range builtins {
		id := vm.dict.Add(b.name)
		if err := vm.dict.Bind(id, b.native); err != nil {
			panic(err)
		}
		vm.dict.Get(id).Immediate = b.immediate
	}
}
