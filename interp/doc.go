// Package interp implements the ARC execution engine: a single-threaded
// stack machine over 64-bit unsigned integers.
//
// A run starts at pc 0 with an empty operand stack and a zeroed bank of 64
// variables, and ends in one of three ways:
//
//   - ReasonEndOfProgram: pc reached the end of the program
//   - ReasonHalt:         the BREAK opcode (0x31) executed
//   - ReasonPowerReset:   SHUTDOWN (0x16) or RESTART (0x17) fired a reset
//
// The engine has no error channel. Decode always yields an instruction of
// at least one byte, and every malformed case (truncated operand, unknown
// opcode, stack underflow, invalid UTF-8, out-of-range jump target) either
// skips forward or falls back to a fixed default.
//
// Side effects go through the Services interface, which a host supplies:
// console output as null-terminated UTF-16, a polled keyboard, and system
// reset. The HALT opcode (0xFF) is the only point where a run blocks; it
// polls the keyboard until a key stroke is reported.
package interp
