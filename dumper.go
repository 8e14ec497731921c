package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jcorbin/weakforth/internal/wordio"
)

type fmtBuf interface {
	Len() int
	Write(p []byte) (n int, err error)
	WriteByte(c byte) error
	WriteRune(r rune) (n int, err error)
	WriteString(s string) (n int, err error)
}

type vmDumper struct {
	vm  *VM
	out io.Writer

	idWidth  int
	rawWords bool
}

func (dump vmDumper) dump() {
	vm := dump.vm
	fmt.Fprintf(dump.out, "# VM Dump\n")
	fmt.Fprintf(dump.out, "  fn: %v\n", dump.name(vm.fn))
	fmt.Fprintf(dump.out, "  pc: %v\n", vm.pc)
	fmt.Fprintf(dump.out, "  mode: %v\n", vm.mode)
	if vm.defining != noFunc {
		fmt.Fprintf(dump.out, "  defining: %v\n", dump.name(vm.defining))
	}
	fmt.Fprintf(dump.out, "  stack: %v\n", vm.stack)
	dump.dumpRStack()
	dump.dumpDict()
}

func (dump vmDumper) dumpRStack() {
	var sb strings.Builder
	sb.WriteString("  rstack: [")
	for i, fr := range dump.vm.rstack {
		if i > 0 {
			sb.WriteByte(' ')
		}
		dump.formatName(&sb, dump.vm.funcName(fr.fn))
		sb.WriteByte('@')
		sb.WriteString(strconv.Itoa(fr.pc))
	}
	sb.WriteString("]\n")
	io.WriteString(dump.out, sb.String())
}

func (dump vmDumper) dumpDict() {
	if dump.idWidth == 0 {
		dump.idWidth = len(strconv.Itoa(dump.vm.dict.Len()))
	}
	fmt.Fprintf(dump.out, "# Dictionary\n")
	var sb strings.Builder
	for id := FuncID(0); int(id) < dump.vm.dict.Len(); id++ {
		fmt.Fprintf(&sb, "  #%*v ", dump.idWidth, int(id))
		dump.formatFunc(&sb, id)
		if fn := dump.vm.dict.Get(id); dump.rawWords && !fn.isNative() {
			fmt.Fprintf(&sb, "\n   %*v %v", dump.idWidth, "", fn.Code)
		}
		sb.WriteByte('\n')
		io.WriteString(dump.out, sb.String())
		sb.Reset()
	}
}

// formatFunc writes a definition like ": sq dup * ;", decompiling any code.
func (dump vmDumper) formatFunc(buf fmtBuf, id FuncID) {
	fn := dump.vm.dict.Get(id)
	if fn == nil {
		fmt.Fprintf(buf, "UNDEFINED_FUNC_%v", int(id))
		return
	}

	buf.WriteString(": ")
	dump.formatName(buf, fn.Name)

	switch {
	case fn.Native != nil:
		buf.WriteString(" <native> ;")
	case fn.isNative():
		buf.WriteString(" <undefined>")
	default:
		for pc := 0; pc < len(fn.Code); {
			buf.WriteByte(' ')
			pc = dump.formatCode(buf, fn.Code, pc)
		}
	}

	if fn.Immediate {
		buf.WriteString(" immediate")
	}
}

// formatCode writes one decoded instruction, returning the pc after it.
// Calls print as their target name, literals as numbers, and a final return
// as ";".
func (dump vmDumper) formatCode(buf fmtBuf, code []int8, pc int) int {
	op := opcode(code[pc])
	pc++

	if !op.hasOperand() {
		if op == opReturn && pc == len(code) {
			buf.WriteByte(';')
		} else {
			buf.WriteString(op.String())
		}
		return pc
	}

	if pc >= len(code) {
		buf.WriteString(op.String())
		buf.WriteString("(?)")
		return pc
	}
	arg := code[pc]
	pc++

	switch op {
	case opCall:
		dump.formatName(buf, dump.vm.funcName(FuncID(uint8(arg))))
	case opPushNum:
		buf.WriteString(strconv.Itoa(int(arg)))
	default:
		buf.WriteString(op.String())
		buf.WriteByte('(')
		buf.WriteString(strconv.Itoa(int(arg)))
		buf.WriteByte(')')
	}
	return pc
}

func (dump vmDumper) formatName(buf fmtBuf, name string) {
	if name == "" || strings.IndexFunc(name, wordio.IsSeparator) >= 0 {
		buf.WriteString(strconv.Quote(name))
	} else {
		buf.WriteString(name)
	}
}

func (dump vmDumper) name(id FuncID) string {
	var sb strings.Builder
	dump.formatName(&sb, dump.vm.funcName(id))
	return sb.String()
}

func (vm *VM) funcName(id FuncID) string {
	if fn := vm.dict.Get(id); fn != nil {
		return fn.Name
	}
	return fmt.Sprintf("#%v", int(id))
}
