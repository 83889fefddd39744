// Package asm assembles ARC source text into bytecode and back.
//
// Source is line oriented:
//
//	# comment
//	start:
//	    PRINT "Press ESC to restart\r\n"
//	    ASK_INT
//	    STORE_VAR
//	    HALT start
//	    SHUTDOWN
//
// Mnemonics are case-insensitive and match interp opcode names. PRINT takes
// one quoted or bare string (UTF-8, at most 255 bytes); double-quoted
// strings accept \n \r \t \0 \\ \" and \xHH escapes. HALT takes a label or
// a numeric offset. The .byte directive emits raw bytes, which lets
// malformed programs be written and lets every disassembly reassemble to
// the same image.
//
// Assembly is two-pass: the first pass sizes instructions and records label
// offsets, the second emits bytes.
package asm
