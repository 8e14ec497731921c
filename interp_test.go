package main

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_interp(t *testing.T) {
	// settled expects the interpreter back at its top level, with no open
	// definition
	settled := []func(vmTestCase) vmTestCase{
		expectVMMode(modeExecute),
		expectVMDefining(""),
		expectVMRStack(),
	}

	vmTestCases{
		// execute mode
		vmTest("push and print").
			withInput("10 3 - .\n").
			expectOutput("7\n").
			expectStack(7),
		vmTest("print stack").
			withInput("1 2 3 ..\n").
			expectOutput("[ 1 2 3 ]\n"),
		vmTest("print empty").
			withInput(".\n").
			expectOutput("<empty>\n"),
		vmTest("negative literal").
			withInput("-5 .\n").
			expectOutput("-5\n"),
		vmTest("wide literal").
			withInput("100000 .\n").
			expectOutput("100000\n"),
		vmTest("number too wide").
			withInput("4294967296 1\n2\n").
			expectOutput("Error: `4294967296` not a function or a number\n").
			expectStack(2).
			expectNoFunc("4294967296"),
		vmTest("words across lines").
			withInput("1\n2\n+\n.\n").
			expectOutput("3\n"),
		vmTest("blank lines").
			withInput("\n\n1 .\n\n").
			expectOutput("1\n"),
		vmTest("tabs and spaces").
			withInput("\t1   2\t+ .  \r\n").
			expectOutput("3\n"),
		vmTest("no trailing newline").
			withInput("1 2 + .").
			expectOutput("3\n"),
		vmTest("end of input").
			withInput("1 2\n").
			expectStack(1, 2).
			expectOutput(""),
		vmTest("no input").
			expectOutput("").
			expectStack(),

		// unknown words abandon the rest of their line
		vmTest("unknown word").
			withInput("1 foo 2 .\n3 ..\n").
			expectOutput(lines(
				"Error: `foo` not a function or a number",
				"[ 1 3 ]",
			)),

		// runtime faults are reported, then the session continues
		vmTest("underflow recovers").
			withInput("pop\n1 .\n").
			expectOutput(lines(
				"Error: stack underflow",
				"1",
			)),
		vmTest("div zero recovers").
			withInput("1 0 / 5 .\n..\n").
			expectOutput(lines(
				"Error: division by zero",
				"[ 1 0 ]",
			)),
		vmTest("fault mid line").
			withInput("1 2 swp pop pop pop 7 .\n..\n").
			expectOutput(lines(
				"Error: stack underflow",
				"[ ]",
			)),

		// exit ends the session
		vmTest("exit").
			withInput("1 . exit 2 .\n3 .\n").
			expectOutput("1\n").
			expectStack(1),
		vmTest("clr").
			withInput("1 2 3 clr ..\n").
			expectOutput("[ ]\n"),

		// colon definitions
		vmTest("define square").
			withInput(": sq dup * ;\n5 sq .\n").
			expectOutput("25\n").
			expectFunc("sq",
				int8(opCall), 6, // dup
				int8(opCall), 4, // *
				int8(opReturn),
			).
			apply(settled...),
		vmTest("define and use on one line").
			withInput(": sq dup * ; 3 sq sq .\n").
			expectOutput("81\n"),
		vmTest("define across lines").
			withInput(": sq dup * ;\n: sumsq\nsq swp\nsq + ;\n3 4 sumsq .\n").
			withTestOutput().
			expectOutput("25\n").
			apply(settled...),
		vmTest("unknown word in multi-line definition").
			withInput(": sumsq\nsq swp\n").
			expectOutput("Error: `sq` not a function or a number\n").
			expectMode(modeCompile).
			expectDefining("sumsq"),
		vmTest("name on next line").
			withInput(":\n\nsq dup * ;\n4 sq .\n").
			expectOutput("16\n").
			expectFunc("sq",
				int8(opCall), 6,
				int8(opCall), 4,
				int8(opReturn),
			),
		vmTest("compiled literals").
			withInput(": seven 3 4 + ;\nseven .\n").
			expectOutput("7\n").
			expectFunc("seven",
				int8(opPushNum), 3,
				int8(opPushNum), 4,
				int8(opCall), 2,
				int8(opReturn),
			),
		vmTest("compiled literal truncated").
			withInput(": c 200 ;\nc .\n").
			expectOutput("-56\n").
			expectFunc("c", int8(opPushNum), -56, int8(opReturn)),
		vmTest("compiled negative literal").
			withInput(": m -128 ;\nm .\n").
			expectOutput("-128\n"),
		vmTest("empty definition").
			withInput(": nop ;\n1 nop .\n").
			expectOutput("1\n").
			expectFunc("nop", int8(opReturn)),
		vmTest("nested calls").
			withInput(": sq dup * ;\n: quad sq sq ;\n3 quad .\n").
			expectOutput("81\n").
			apply(settled...),
		vmTest("call resumes line").
			withInput(": inc 1 + ;\n1 inc inc inc . 10 inc .\n").
			expectOutput("4\n11\n"),
		vmTest("exit in definition").
			withInput(": bye 7 . exit ;\nbye 1 .\n").
			expectOutput("7\n").
			expectStack(7),
		vmTest("duplicate definition").
			withInput(": sq dup * ;\n: sq 1 ; 2 .\n3 sq .\n").
			expectOutput(lines(
				"Function already defined: sq",
				"9",
			)).
			expectFunc("sq", int8(opCall), 6, int8(opCall), 4, int8(opReturn)).
			expectFuncCount(firstUserFunc+1).
			apply(settled...),
		vmTest("redefine builtin").
			withInput(": dup 1 ;\n").
			expectOutput("Function already defined: dup\n").
			expectFuncCount(firstUserFunc),
		vmTest("unknown word while compiling").
			withInput(": f 1 bar 2 ;\n").
			expectOutput("Error: `bar` not a function or a number\n").
			expectMode(modeCompile).
			expectDefining("f").
			expectFunc("f", int8(opPushNum), 1),
		vmTest("open definition at end of input").
			withInput(": f 1 2").
			expectMode(modeCompile).
			expectDefining("f").
			expectFunc("f", int8(opPushNum), 1, int8(opPushNum), 2),
		vmTest("semicolon outside definition").
			withInput("; 1 .\n").
			expectOutput("1\n").
			expectFuncCount(firstUserFunc).
			apply(settled...),
		vmTest("colon while compiling").
			withInput(": f : ;\n").
			expectFunc("f", int8(opCall), 12, int8(opReturn)),

		// faults inside definitions unwind to the top level
		vmTest("fault in definition").
			withInput(": bad pop pop ;\n1 bad 2 .\n..\n").
			expectOutput(lines(
				"Error: stack underflow",
				"[ ]",
			)).
			apply(settled...),
		vmTest("runaway recursion").
			withRetLimit(16).
			withInput(": r r ;\nr 1 .\n2 .\n").
			withTestDump().
			expectOutput(lines(
				"Error: return stack overflow",
				"2",
			)).
			apply(settled...),

		// definitions left open by earlier input
		vmTest("resume definition").
			withDefining("f").
			withInput("1 2 ;\nf .\n").
			expectOutput("2\n").
			expectFunc("f", int8(opPushNum), 1, int8(opPushNum), 2, int8(opReturn)).
			apply(settled...),
		vmTest("execute while defining").
			withDefining("f").
			withMode(modeExecute).
			withInput("3 .\n").
			expectOutput("3\n").
			expectMode(modeExecute).
			expectDefining("f").
			expectFunc("f"),

		// inputs are read in order, as one session
		vmTest("inputs in order").
			withNamedInput("lib.wf", ": sq dup * ;\n").
			withNamedInput("main.wf", "\n3 sq .\n").
			expectOutput("9\n").
			assertThat(func(t *testing.T, vm *VM) {
				assert.Equal(t, "main.wf:2", vm.Location(), "expected input location")
			}),

		// prompts
		vmTest("execute prompt").
			withPrompts("> ", "... ").
			withInput("1 .\n").
			expectOutput("> 1\n> "),
		vmTest("compile prompt").
			withPrompts("> ", "... ").
			withInput(": sq\ndup * ;\n").
			expectOutput("> ... > "),
		vmTest("compile prompt for name").
			withPrompts("> ", "... ").
			withInput(":\n\nsq dup * ;\n").
			expectOutput("> ... ... > "),
		vmTest("default prompts").
			withPrompts(defaultExecutePrompt, defaultCompilePrompt).
			withInput("2 .\n").
			expectOutput("\n> 2\n\n> "),
		vmTest("no prompt mid line").
			withPrompts("> ", "... ").
			withInput(": sq dup * ;\n5 sq .\n").
			expectOutput("> > 25\n> "),
		vmTest("prompt after error").
			withPrompts("> ", "... ").
			withInput("foo 1\n").
			expectOutput("> Error: `foo` not a function or a number\n> "),
		vmTest("default prompt after error").
			withPrompts(defaultExecutePrompt, defaultCompilePrompt).
			withInput("pop\n1 .\n").
			expectOutput("\n> Error: stack underflow\n> 1\n\n> "),
		vmTest("default compile prompt after error").
			withPrompts(defaultExecutePrompt, defaultCompilePrompt).
			withInput(": f\nfoo\n;\n").
			expectOutput("\n> ...> Error: `foo` not a function or a number\n...> \n> "),

		// introspection
		vmTest("words").
			withInput("words\n").
			expectOutput(builtinWords + "\n"),
		vmTest("words with definitions").
			withInput(": sq dup * ;\n: one 1 ;\nwords\n").
			expectOutput(builtinWords + " sq one\n"),
		vmTest("see definition").
			withInput(": sq dup * ;\nsee sq\n").
			expectOutput(": sq dup * ;\n"),
		vmTest("see literals").
			withInput(": f 1 -2 + ;\nsee f\n").
			expectOutput(": f 1 -2 + ;\n"),
		vmTest("see native").
			withInput("see +\n").
			expectOutput(": + <native> ;\n"),
		vmTest("see immediate").
			withInput("see ;\n").
			expectOutput(": ; <native> ; immediate\n"),
		vmTest("see builtin").
			withInput("see words\n").
			expectOutput(": words <native> ;\n"),
		vmTest("see unknown").
			withInput("see nope 1 .\n2 .\n").
			expectOutput(lines(
				"Error: `nope` not a function",
				"2",
			)).
			expectNoFunc("nope"),
		vmTest("see nothing").
			withInput("see\n").
			expectOutput("Error: see needs a function name\n"),
	}.run(t)
}

func Test_interp_callRange(t *testing.T) {
	// fill the dictionary past what a call operand can reach
	var defs []byte
	for id := firstUserFunc; id <= maxCallID+1; id++ {
		defs = append(defs, ": w"...)
		defs = strconv.AppendInt(defs, int64(id), 10)
		defs = append(defs, " ;\n"...)
	}

	vmTestCases{
		vmTest("last callable").
			withInput(string(defs)+": f w255 ;\nsee f\n").
			expectOutput(": f w255 ;\n"),
		vmTest("beyond callable").
			withInput(string(defs)+": f w256 1 ;\n").
			expectOutput("Error: `w256` cannot be compiled, function id 256 out of range\n").
			expectDefining("f").
			expectFunc("f"),
		vmTest("beyond callable runs").
			withInput(string(defs)+"1 w256 .\n").
			expectOutput("1\n"),
	}.run(t)
}
