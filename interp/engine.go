package interp

import (
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/wippyai/arcboot"
	"github.com/wippyai/arcboot/arena"
)

// VarSlots is the size of the variable bank.
const VarSlots = 64

// HaltPrompt is printed by the HALT opcode before it waits for a key.
const HaltPrompt = "HALT: Press any key to continue, or ESC to jump...\r\n"

// Reason is how a run ended.
type Reason int

const (
	ReasonEndOfProgram Reason = iota + 1
	ReasonHalt
	ReasonPowerReset
)

func (r Reason) String() string {
	switch r {
	case ReasonEndOfProgram:
		return "end-of-program"
	case ReasonHalt:
		return "explicit-halt"
	case ReasonPowerReset:
		return "power-reset"
	}
	return "unknown"
}

// State is a copy of the engine state at the end of a run.
type State struct {
	Stack []uint64
	PC    int
	Steps uint64
	Vars  [VarSlots]uint64
}

// Engine executes ARC programs against a set of host services.
// An Engine may run many programs, one at a time; no state carries over
// between runs.
type Engine struct {
	svc    Services
	logger *zap.Logger
	arena  arcboot.Region
	stack  *arena.Stack
	pc     int
	steps  uint64
	vars   [VarSlots]uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. Degraded instructions are logged at
// debug level.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithArena sets the memory region backing the operand stack. The engine
// resets the region at the start of every run.
func WithArena(r arcboot.Region) Option {
	return func(e *Engine) {
		e.arena = r
	}
}

// New creates an engine bound to svc. The services handle is held for the
// engine's lifetime and never modified.
func New(svc Services, opts ...Option) *Engine {
	e := &Engine{
		svc:    svc,
		logger: Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.arena == nil {
		e.arena = arena.New(arena.DefaultWords)
	}
	e.logger = e.logger.Named("interp")
	e.reset()
	return e
}

// Run executes prog from pc 0 with a fresh stack and variable bank.
func Run(prog Program, svc Services) Reason {
	return New(svc).Run(prog)
}

// Run executes prog until it ends, breaks, or requests a system reset.
func (e *Engine) Run(prog Program) Reason {
	e.reset()
	e.logger.Debug("run start", zap.Int("size", len(prog)))

	reason := ReasonEndOfProgram
	for e.pc < len(prog) {
		in := Decode(prog, e.pc)
		e.steps++
		next, stop := e.exec(prog, in)
		if stop != 0 {
			reason = stop
			break
		}
		e.pc = next
	}

	e.logger.Debug("run end",
		zap.Stringer("reason", reason),
		zap.Int("pc", e.pc),
		zap.Uint64("steps", e.steps),
		zap.Int("stack", e.stack.Len()),
	)
	return reason
}

// Snapshot returns the state left by the most recent run.
func (e *Engine) Snapshot() State {
	return State{
		Stack: e.stack.Values(),
		PC:    e.pc,
		Steps: e.steps,
		Vars:  e.vars,
	}
}

func (e *Engine) reset() {
	e.arena.Reset()
	e.stack = arena.NewStack(e.arena)
	e.pc = 0
	e.steps = 0
	e.vars = [VarSlots]uint64{}
}

// exec applies one decoded instruction. It returns the next pc, or a
// non-zero reason when the run ends.
func (e *Engine) exec(prog Program, in Instruction) (int, Reason) {
	fallthroughPC := in.PC + in.Size

	if in.Malformed {
		e.logger.Debug("truncated operand",
			zap.Int("pc", in.PC),
			zap.Stringer("op", in.Op),
		)
		return fallthroughPC, 0
	}

	switch in.Op.Class() {
	case ClassNop:

	case ClassPrint:
		if !utf8.Valid(in.Text) {
			e.logger.Debug("invalid utf-8 in print", zap.Int("pc", in.PC))
			break
		}
		e.svc.OutputString(EncodeUTF16(string(in.Text)))

	case ClassPush:
		for _, v := range opTable[in.Op].consts {
			e.push(v)
		}

	case ClassArith:
		e.arith(in)

	case ClassClear:
		e.stack.Clear()

	case ClassBreak:
		return in.PC, ReasonHalt

	case ClassStore:
		e.vars[0] = e.stack.PopOr(0)

	case ClassPower:
		// SHUTDOWN (0x16) resets with kind 2, RESTART (0x17) with kind 0.
		kind := ResetShutdown
		if in.Op == OpRestart {
			kind = ResetCold
		}
		e.logger.Debug("system reset", zap.Stringer("kind", kind))
		e.svc.ResetSystem(kind, StatusSuccess, nil)
		return in.PC, ReasonPowerReset

	case ClassHalt:
		key := e.waitKey()
		if key.ScanCode == ScanEsc && int(in.Target) < len(prog) {
			return int(in.Target), 0
		}

	default:
		e.logger.Debug("unknown opcode",
			zap.Int("pc", in.PC),
			zap.Uint8("byte", uint8(in.Op)),
		)
	}

	return fallthroughPC, 0
}

func (e *Engine) arith(in Instruction) {
	if in.Op == OpDiv {
		// A missing or zero divisor is treated as 1. With an empty stack
		// there is no dividend and nothing is pushed.
		b := uint64(1)
		if e.stack.Len() >= 2 {
			b, _ = e.stack.Pop()
		}
		a, ok := e.stack.Pop()
		if !ok {
			return
		}
		if b == 0 {
			b = 1
		}
		e.push(a / b)
		return
	}

	if e.stack.Len() < 2 {
		e.logger.Debug("stack underflow", zap.Int("pc", in.PC), zap.Stringer("op", in.Op))
		return
	}
	b, _ := e.stack.Pop()
	a, _ := e.stack.Pop()

	switch in.Op {
	case OpAdd:
		e.push(a + b)
	case OpSub:
		e.push(a - b)
	case OpMul:
		e.push(a * b)
	}
}

func (e *Engine) push(v uint64) {
	if !e.stack.Push(v) {
		e.logger.Debug("operand stack full, value dropped",
			zap.Int("pc", e.pc),
			zap.Int("cap", e.stack.Cap()),
		)
	}
}

// waitKey prints the prompt, resets the input device and polls until a key
// stroke is available. There is no timeout.
func (e *Engine) waitKey() InputKey {
	e.svc.OutputString(EncodeUTF16(HaltPrompt))
	e.svc.ResetInput()

	var polls uint64
	for {
		polls++
		key, status := e.svc.ReadKeyStroke()
		if status == StatusSuccess {
			e.logger.Debug("key stroke",
				zap.Uint16("scan", key.ScanCode),
				zap.Uint16("char", key.UnicodeChar),
				zap.Uint64("polls", polls),
			)
			return key
		}
	}
}
