package interp

import (
	"fmt"
	"strings"
)

// Opcode is the one-byte instruction tag read at the program counter.
type Opcode byte

// No-op and console
const (
	OpReserved Opcode = 0x00 // no operation
	OpPrint    Opcode = 0x01 // print text (8-bit length, UTF-8 payload)
)

// Constant pushes
const (
	OpLoadRAM         Opcode = 0x02
	OpReadFile        Opcode = 0x03
	OpAskInt          Opcode = 0x04
	OpAskString       Opcode = 0x05
	OpWaitInt         Opcode = 0x06
	OpWaitString      Opcode = 0x07
	OpLoadStd         Opcode = 0x08
	OpCheckHW         Opcode = 0x13
	OpWriteFile       Opcode = 0x14
	OpCreateFile      Opcode = 0x15
	OpBIOSReboot      Opcode = 0x18
	OpBootLegacy      Opcode = 0x19
	OpBootAlt         Opcode = 0x20
	OpCompile         Opcode = 0x21
	OpTerminal        Opcode = 0x22
	OpMaintain        Opcode = 0x23
	OpFetchNet        Opcode = 0x24
	OpUpdateNet       Opcode = 0x25
	OpCheckPartitions Opcode = 0x26
	OpConnectNet      Opcode = 0x27
	OpBootMenu        Opcode = 0x28
	OpClock           Opcode = 0x29 // pushes three values
)

// Arithmetic: pop b, pop a, push a op b
const (
	OpAdd Opcode = 0x09
	OpSub Opcode = 0x10
	OpMul Opcode = 0x11
	OpDiv Opcode = 0x12
)

// Power control
const (
	OpShutdown Opcode = 0x16 // reset kind shutdown
	OpRestart  Opcode = 0x17 // reset kind cold
)

// Stack control and variables
const (
	OpUnloadRAM Opcode = 0x30 // clear the operand stack
	OpBreak     Opcode = 0x31 // terminate the run
	OpStoreVar  Opcode = 0x32 // pop into variable slot 0
)

// Interactive halt/branch
const (
	OpHalt Opcode = 0xFF // prompt, wait for a key, branch on ESC (16-bit target)
)

// Class groups opcodes that share execution semantics.
type Class uint8

const (
	ClassUnknown Class = iota
	ClassNop
	ClassPrint
	ClassPush
	ClassArith
	ClassClear
	ClassBreak
	ClassStore
	ClassPower
	ClassHalt
)

type opInfo struct {
	name   string
	class  Class
	consts []uint64
}

var opTable [256]opInfo

func init() {
	def := func(op Opcode, name string, class Class, consts ...uint64) {
		opTable[op] = opInfo{name: name, class: class, consts: consts}
	}

	def(OpReserved, "RESERVED", ClassNop)
	def(OpPrint, "PRINT", ClassPrint)

	def(OpLoadRAM, "LOAD_RAM", ClassPush, 2)
	def(OpReadFile, "READ_FILE", ClassPush, 3)
	def(OpAskInt, "ASK_INT", ClassPush, 42)
	def(OpAskString, "ASK_STRING", ClassPush, 0x53545249)
	def(OpWaitInt, "WAIT_INT", ClassPush, 99)
	def(OpWaitString, "WAIT_STRING", ClassPush, 0x57414954)
	def(OpLoadStd, "LOAD_STD", ClassPush, 0x53544400)
	def(OpCheckHW, "CHECK_HW", ClassPush, 0xDEADBEEF)
	def(OpWriteFile, "WRITE_FILE", ClassPush, 0xCAFEBABE)
	def(OpCreateFile, "CREATE_FILE", ClassPush, 0xFEEDFACE)
	def(OpBIOSReboot, "BIOS_REBOOT", ClassPush, 0xB105F00D)
	def(OpBootLegacy, "BOOT_LEGACY", ClassPush, 0xB007B007)
	def(OpBootAlt, "BOOT_ALT", ClassPush, 0x10AD10AD)
	def(OpCompile, "COMPILE", ClassPush, 0xC0DECAFE)
	def(OpTerminal, "TERMINAL", ClassPush, 0x7E57C0DE)
	def(OpMaintain, "MAINTAIN", ClassPush, 0x0BADC0DE)
	def(OpFetchNet, "FETCH_NET", ClassPush, 0xFACEFEED)
	def(OpUpdateNet, "UPDATE_NET", ClassPush, 0xC001D00D)
	def(OpCheckPartitions, "CHECK_PARTITIONS", ClassPush, 0xBEEFBEEF)
	def(OpConnectNet, "CONNECT_NET", ClassPush, 0xF00DF00D)
	def(OpBootMenu, "BOOT_MENU", ClassPush, 0xB16B00B5)
	def(OpClock, "CLOCK", ClassPush, 12, 34, 56)

	def(OpAdd, "ADD", ClassArith)
	def(OpSub, "SUB", ClassArith)
	def(OpMul, "MUL", ClassArith)
	def(OpDiv, "DIV", ClassArith)

	def(OpShutdown, "SHUTDOWN", ClassPower)
	def(OpRestart, "RESTART", ClassPower)

	def(OpUnloadRAM, "UNLOAD_RAM", ClassClear)
	def(OpBreak, "BREAK", ClassBreak)
	def(OpStoreVar, "STORE_VAR", ClassStore)

	def(OpHalt, "HALT", ClassHalt)
}

// String returns the mnemonic, or a hex form for unknown opcodes.
func (op Opcode) String() string {
	if name := opTable[op].name; name != "" {
		return name
	}
	return fmt.Sprintf("0x%02X", byte(op))
}

// Known reports whether op is part of the instruction set.
func (op Opcode) Known() bool {
	return opTable[op].class != ClassUnknown
}

// Class returns the execution class of op.
func (op Opcode) Class() Class {
	return opTable[op].class
}

// Constants returns the literals pushed by a constant opcode, in push order.
// The result is nil for every other opcode.
func (op Opcode) Constants() []uint64 {
	c := opTable[op].consts
	if c == nil {
		return nil
	}
	out := make([]uint64, len(c))
	copy(out, c)
	return out
}

// LookupOpcode resolves a mnemonic, case-insensitively.
func LookupOpcode(name string) (Opcode, bool) {
	name = strings.ToUpper(name)
	for i := range opTable {
		if opTable[i].name != "" && opTable[i].name == name {
			return Opcode(i), true
		}
	}
	return 0, false
}
