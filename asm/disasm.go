package asm

import (
	"fmt"
	"strings"

	"github.com/wippyai/arcboot/interp"
)

// Line is one disassembled instruction.
type Line struct {
	// Label is set when a HALT elsewhere in the program jumps here.
	Label string
	Text  string
	Bytes []byte
	PC    int
}

// Disassemble decodes prog the way the interpreter walks it: one
// instruction after another from offset 0. Unknown opcodes and truncated
// instructions become .byte lines.
func Disassemble(prog interp.Program) []Line {
	var insns []interp.Instruction
	starts := make(map[int]bool)
	for pc := 0; pc < len(prog); {
		in := interp.Decode(prog, pc)
		insns = append(insns, in)
		starts[pc] = true
		pc += in.Size
	}

	targets := make(map[int]bool)
	for _, in := range insns {
		if in.Op == interp.OpHalt && !in.Malformed && starts[int(in.Target)] {
			targets[int(in.Target)] = true
		}
	}

	lines := make([]Line, 0, len(insns))
	for _, in := range insns {
		l := Line{PC: in.PC, Bytes: prog[in.PC : in.PC+in.Size]}
		if targets[in.PC] {
			l.Label = labelName(in.PC)
		}

		switch {
		case !in.Op.Known() || in.Malformed:
			l.Text = fmt.Sprintf(".byte 0x%02X", byte(in.Op))
		case in.Op == interp.OpPrint:
			l.Text = "PRINT " + quote(in.Text)
		case in.Op == interp.OpHalt:
			if targets[int(in.Target)] {
				l.Text = "HALT " + labelName(int(in.Target))
			} else {
				l.Text = fmt.Sprintf("HALT 0x%04X", in.Target)
			}
		default:
			l.Text = in.Op.String()
		}
		lines = append(lines, l)
	}
	return lines
}

func labelName(pc int) string {
	return fmt.Sprintf("L%04X", pc)
}

// Source renders prog as assembler input. Assembling the result yields
// prog again.
func Source(prog interp.Program) string {
	var sb strings.Builder
	for _, l := range Disassemble(prog) {
		if l.Label != "" {
			sb.WriteString(l.Label)
			sb.WriteString(":\n")
		}
		sb.WriteString("\t")
		sb.WriteString(l.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Format renders an annotated listing with offsets and raw bytes.
func Format(prog interp.Program) string {
	var sb strings.Builder
	for _, l := range Disassemble(prog) {
		if l.Label != "" {
			fmt.Fprintf(&sb, "%s:\n", l.Label)
		}
		raw := HexDump(l.Bytes)
		if len(l.Bytes) > 4 {
			raw = HexDump(l.Bytes[:4]) + " .."
		}
		fmt.Fprintf(&sb, "%04X  %-14s %s\n", l.PC, raw, l.Text)
	}
	return sb.String()
}

// HexDump renders b as upper-case hex bytes separated by spaces.
func HexDump(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(b) * 3)
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", c)
	}
	return sb.String()
}
