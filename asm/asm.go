package asm

import (
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/wippyai/arcboot/errors"
	"github.com/wippyai/arcboot/interp"
)

// MaxText is the longest PRINT payload; its length is stored in one byte.
const MaxText = 255

type stmtKind int

const (
	stmtOp stmtKind = iota
	stmtBytes
)

type statement struct {
	kind  stmtKind
	op    interp.Opcode
	text  []byte
	raw   []byte
	label string
	line  int
	size  int
}

// Assemble translates source into a program image. name only labels errors.
func Assemble(name, src string) (interp.Program, error) {
	a := &assembler{name: name, labels: make(map[string]int)}

	stmts, err := a.parse(src)
	if err != nil {
		return nil, err
	}

	var prog []byte
	for _, st := range stmts {
		switch st.kind {
		case stmtBytes:
			prog = append(prog, st.raw...)
		case stmtOp:
			prog = append(prog, byte(st.op))
			switch st.op {
			case interp.OpPrint:
				prog = append(prog, byte(len(st.text)))
				prog = append(prog, st.text...)
			case interp.OpHalt:
				target, err := a.resolve(st)
				if err != nil {
					return nil, err
				}
				prog = append(prog, byte(target), byte(target>>8))
			}
		}
	}

	if len(prog) > interp.MaxProgramSize {
		e := errors.TooLarge(errors.PhaseAssemble, "program", len(prog), interp.MaxProgramSize)
		e.Path = []string{name}
		return nil, e
	}
	return prog, nil
}

type assembler struct {
	labels map[string]int
	name   string
}

// locate attaches the source position to an error built by a constructor.
func (a *assembler) locate(e *errors.Error, line int, op string) *errors.Error {
	e.Line = line
	e.Op = op
	if a.name != "" {
		e.Path = []string{a.name}
	}
	return e
}

func (a *assembler) fail(kind errors.Kind, line int, op string) *errors.Builder {
	b := errors.New(errors.PhaseAssemble, kind).Line(line).Op(op)
	if a.name != "" {
		b.Path(a.name)
	}
	return b
}

// parse is the first pass: it validates every line, sizes each statement
// and records label offsets.
func (a *assembler) parse(src string) ([]statement, error) {
	var (
		stmts []statement
		pc    int
	)

	for i, raw := range strings.Split(src, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasSuffix(line, ":") {
			label := strings.TrimSpace(strings.TrimSuffix(line, ":"))
			if !validLabel(label) {
				return nil, a.fail(errors.KindInvalidInput, lineNo, "").
					Detail("invalid label %q", label).Build()
			}
			if prev, dup := a.labels[label]; dup {
				return nil, a.fail(errors.KindDuplicateLabel, lineNo, "").
					Detail("label %q already defined at offset %d", label, prev).
					Value(label).Build()
			}
			a.labels[label] = pc
			continue
		}

		fields, err := splitFields(line)
		if err != nil {
			return nil, a.fail(errors.KindInvalidInput, lineNo, "").Cause(err).Detail("tokenize").Build()
		}
		if len(fields) == 0 {
			continue
		}

		st, err := a.statement(fields, lineNo)
		if err != nil {
			return nil, err
		}
		pc += st.size
		stmts = append(stmts, st)
	}
	return stmts, nil
}

func (a *assembler) statement(fields []string, line int) (statement, error) {
	mnemonic := fields[0]
	args := fields[1:]

	if strings.EqualFold(mnemonic, ".byte") {
		if len(args) == 0 {
			return statement{}, a.fail(errors.KindMissingOperand, line, ".byte").
				Detail("expected at least one value").Build()
		}
		raw := make([]byte, 0, len(args))
		for _, arg := range args {
			v, err := strconv.ParseUint(strings.TrimSuffix(arg, ","), 0, 8)
			if stderrors.Is(err, strconv.ErrRange) {
				return statement{}, a.locate(errors.OutOfRange(errors.PhaseAssemble, arg, 0xFF), line, ".byte")
			}
			if err != nil {
				return statement{}, a.fail(errors.KindInvalidInput, line, ".byte").
					Value(arg).Cause(err).Detail("%q is not a byte value", arg).Build()
			}
			raw = append(raw, byte(v))
		}
		return statement{kind: stmtBytes, raw: raw, line: line, size: len(raw)}, nil
	}

	op, ok := interp.LookupOpcode(mnemonic)
	if !ok {
		return statement{}, a.fail(errors.KindUnknownOp, line, mnemonic).
			Detail("unknown instruction").Value(mnemonic).Build()
	}
	st := statement{kind: stmtOp, op: op, line: line, size: 1}

	switch op {
	case interp.OpPrint:
		if len(args) == 0 {
			return statement{}, a.fail(errors.KindMissingOperand, line, op.String()).
				Detail("expected text").Build()
		}
		if len(args) > 1 {
			return statement{}, a.fail(errors.KindInvalidInput, line, op.String()).
				Detail("expected one text operand, got %d (quote text containing spaces)", len(args)).Build()
		}
		if len(args[0]) > MaxText {
			return statement{}, a.fail(errors.KindTooLarge, line, op.String()).
				Value(len(args[0])).
				Detail("text is %d bytes, max %d", len(args[0]), MaxText).Build()
		}
		st.text = []byte(args[0])
		st.size = 2 + len(st.text)

	case interp.OpHalt:
		if len(args) != 1 {
			return statement{}, a.fail(errors.KindMissingOperand, line, op.String()).
				Detail("expected one jump target").Build()
		}
		st.label = args[0]
		st.size = 3

	default:
		if len(args) > 0 {
			return statement{}, a.fail(errors.KindInvalidInput, line, op.String()).
				Detail("takes no operands").Build()
		}
	}
	return st, nil
}

// resolve is the second-pass lookup of a HALT target.
func (a *assembler) resolve(st statement) (int, error) {
	if off, ok := a.labels[st.label]; ok {
		if off > 0xFFFF {
			return 0, a.locate(errors.OutOfRange(errors.PhaseAssemble, off, 0xFFFF), st.line, st.op.String())
		}
		return off, nil
	}
	if isNumber(st.label) {
		v, err := strconv.ParseUint(st.label, 0, 64)
		if err != nil && !stderrors.Is(err, strconv.ErrRange) {
			return 0, a.fail(errors.KindInvalidInput, st.line, st.op.String()).
				Value(st.label).Cause(err).Detail("%q is not a jump target", st.label).Build()
		}
		if err != nil || v > 0xFFFF {
			return 0, a.locate(errors.OutOfRange(errors.PhaseAssemble, st.label, 0xFFFF), st.line, st.op.String())
		}
		return int(v), nil
	}
	return 0, a.fail(errors.KindUndefinedLabel, st.line, st.op.String()).
		Value(st.label).Detail("undefined label %q", st.label).Build()
}

func isNumber(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func validLabel(s string) bool {
	if s == "" || isNumber(s) {
		return false
	}
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '"' || r == '\'' || r == ':' || r == '#' {
			return false
		}
	}
	return true
}
