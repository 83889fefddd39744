// Package arcboot provides a Go implementation of the ARC boot-time bytecode
// interpreter.
//
// An ARC program is an unstructured byte stream of at most 4096 bytes read
// from the boot volume. The interpreter runs it on a 64-bit stack machine
// against a small set of firmware services: console output, keyboard input
// and power control. Programs can print text, push constants, do integer
// arithmetic, store into a variable bank, pause for a key press and branch,
// and request a shutdown or restart.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	arcboot/             Root package with the Allocator interface
//	├── interp/          Execution engine: decoder, dispatch loop, services
//	├── arena/           Fixed host memory region and the operand stack
//	├── firmware/        Host services, program loading, boot-stage hand-off
//	├── asm/             Assembler and disassembler for ARC programs
//	├── config/          arcboot.toml configuration
//	├── errors/          Structured error types for the bootstrap tooling
//	└── cmd/             arcboot and arcasm commands
//
// # Quick Start
//
// Load and run a program:
//
//	prog, err := firmware.LoadProgram(os.DirFS("/boot"), "main.arc", interp.MaxProgramSize)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	host := firmware.NewRecorder(firmware.KeyEsc)
//	eng := interp.New(host)
//	reason := eng.Run(prog)
//	fmt.Println(reason, host.Output())
//
// # Fault Tolerance
//
// The engine has no error channel. Truncated operands, unknown opcodes,
// stack underflow, invalid UTF-8 and out-of-range jump targets degrade to a
// skip or a default value, so corrupt programs can never trap the host.
//
// # Thread Safety
//
// An Engine is NOT safe for concurrent use. It runs on the goroutine that
// calls Run and blocks that goroutine while waiting for a key press.
package arcboot
