/* Package main: weakforth -- a very small FORTH-alike

weakforth is an interactive stack machine. Input is read a line at a time,
and split into words on whitespace. Each word is either the name of a
function, which is called, or a decimal number, which is pushed onto the data
stack. The data stack holds signed 32-bit integers.

New functions are defined by colon definitions, just like FORTH:

	: sq dup * ;
	5 sq .

While between ":" and ";" the interpreter is in compile mode: words are not
run, but rather compiled into the body of the function being defined. Words
marked immediate, like ";", run even while compiling. A definition may span
several lines; the prompt changes to show when a definition is still open.

Functions come in two flavors: natives are implemented in Go, while every
other function is a string of bytecode. Each instruction is a one byte
opcode, optionally followed by a signed one byte operand:

	call <id>     call the function with the given (unsigned) id
	jump <off>    jump relative to its own operand
	prompt        read and run words until the end of the current line
	pushnum <n>   push a small literal
	read          read and run a single word
	return        return to the caller

Even the top level loop is bytecode, stored in the dictionary under the name
" " as "prompt jump(-2)". Since a call operand is only a byte, only the
first 256 functions may be called from compiled code; likewise a compiled
literal is only a byte wide, so wider numbers are truncated when compiled.

The builtin functions are:

	.       print the top of stack, leaving it there
	..      print the entire stack, bottom first
	+ - * / integer arithmetic on the top two elements
	dup     copy the top of stack
	pop     discard the top of stack
	clr     discard the whole stack
	swp     exchange the top two elements
	exit    end the session
	:       start a definition
	;       end a definition (immediate)
	words   list all defined functions
	see     print a function's definition

Errors, like stack underflow or an unknown word, are reported and abandon the
rest of the current line; the session then continues with the next line. The
session ends at the end of all input, or when exit runs.

See prelude.go for some simple definitions built from the builtins.
*/
package main
