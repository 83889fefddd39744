// Package errors provides structured error types for arcboot.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries context: the file or label path, the source line,
// the instruction mnemonic involved, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseAssemble, errors.KindUndefinedLabel).
//		Path("boot.txt").
//		Line(12).
//		Op("HALT").
//		Detail("label %q is never defined", "menu").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Boot("open program", cause)
//	err := errors.OutOfRange(errors.PhaseAssemble, 70000, 0xFFFF)
//
// The execution engine never produces these errors: malformed bytecode is
// absorbed by the interpreter. They are reserved for the bootstrap phase,
// the assembler, configuration and the boot-stage hand-off.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
