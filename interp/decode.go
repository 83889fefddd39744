package interp

import "encoding/binary"

// Program is an immutable ARC bytecode image.
type Program []byte

// MaxProgramSize is the size of the loader's read buffer.
const MaxProgramSize = 4096

// Instruction is one decoded instruction.
type Instruction struct {
	// Text aliases the program bytes of a PRINT payload.
	Text []byte
	PC   int
	// Size is how far pc moves when the instruction falls through.
	Size   int
	Target uint16
	Op     Opcode
	// Malformed is set when the declared operand runs past the end of the
	// program. Size is then 1.
	Malformed bool
}

// Decode reads the instruction at pc. It never fails: truncated operands
// and unknown opcodes decode to a one-byte instruction. pc must be inside
// the program.
func Decode(prog Program, pc int) Instruction {
	in := Instruction{Op: Opcode(prog[pc]), PC: pc, Size: 1}

	switch in.Op.Class() {
	case ClassPrint:
		if pc+1 >= len(prog) {
			in.Malformed = true
			return in
		}
		n := int(prog[pc+1])
		if pc+2+n > len(prog) {
			in.Malformed = true
			return in
		}
		in.Text = prog[pc+2 : pc+2+n]
		in.Size = 2 + n

	case ClassHalt:
		if pc+2 >= len(prog) {
			in.Malformed = true
			return in
		}
		in.Target = binary.LittleEndian.Uint16(prog[pc+1 : pc+3])
		in.Size = 3
	}

	return in
}
