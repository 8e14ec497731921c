package main

// frame is a return stack entry, enough to resume a caller.
type frame struct {
	fn FuncID
	pc int
}

func (vm *VM) push(val int32) {
	vm.stack = append(vm.stack, val)
}

// pop must only be used after need has checked stack depth.
func (vm *VM) pop() (val int32) {
	i := len(vm.stack) - 1
	val, vm.stack = vm.stack[i], vm.stack[:i]
	return val
}

func (vm *VM) need(n int) error {
	if len(vm.stack) < n {
		return errStackUnderflow
	}
	return nil
}

func (vm *VM) pushr(fr frame) error {
	if limit := vm.retLimit; limit > 0 && len(vm.rstack) >= limit {
		return errRetOverflow
	}
	vm.rstack = append(vm.rstack, fr)
	return nil
}

func (vm *VM) popr() (fr frame, err error) {
	i := len(vm.rstack) - 1
	if i < 0 {
		return fr, errRetUnderflow
	}
	fr, vm.rstack = vm.rstack[i], vm.rstack[:i]
	return fr, nil
}
