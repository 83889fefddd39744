package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLoad     Phase = "load"     // reading source and image files for the tools
	PhaseAssemble Phase = "assemble" // source to bytecode
	PhaseConfig   Phase = "config"   // configuration decoding and validation
	PhaseBoot     Phase = "boot"     // host service acquisition before run
	PhaseHandoff  Phase = "handoff"  // transfer to the next boot stage
	PhaseRuntime  Phase = "runtime"  // host side runtime operations
)

// Kind categorizes the error
type Kind string

const (
	KindOutOfRange      Kind = "out_of_range"
	KindInvalidData     Kind = "invalid_data"
	KindInvalidInput    Kind = "invalid_input"
	KindInvalidUTF8     Kind = "invalid_utf8"
	KindTooLarge        Kind = "too_large"
	KindNotFound        Kind = "not_found"
	KindUnknownOp       Kind = "unknown_instruction"
	KindMissingOperand  Kind = "missing_operand"
	KindUndefinedLabel  Kind = "undefined_label"
	KindDuplicateLabel  Kind = "duplicate_label"
	KindInstantiation   Kind = "instantiation"
	KindTerminalFailure Kind = "terminal"
	KindNotInitialized  Kind = "not_initialized"
)

// Error is the structured error type used throughout arcboot
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Op     string
	Detail string
	Path   []string
	Line   int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "/"))
	}

	if e.Line > 0 {
		b.WriteString(" line ")
		b.WriteString(strconv.Itoa(e.Line))
	}

	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}

	if e.Detail != "" {
		if e.Op != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the file or label path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Line sets the 1-based source line
func (b *Builder) Line(n int) *Builder {
	b.err.Line = n
	return b
}

// Op sets the instruction mnemonic or operation name
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// OutOfRange creates an out of range error. value is reported as written,
// so it may be a number or the source text that failed to fit.
func OutOfRange(phase Phase, value any, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfRange,
		Detail: fmt.Sprintf("value %v out of range (max %d)", value, limit),
		Value:  value,
	}
}

// TooLarge creates a size limit error
func TooLarge(phase Phase, what string, size, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTooLarge,
		Detail: fmt.Sprintf("%s is %d bytes (limit %d)", what, size, limit),
		Value:  size,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// NotInitialized creates a not-initialized error for a missing collaborator
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Instantiation creates an instantiation error for the next boot stage
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseHandoff,
		Kind:   KindInstantiation,
		Detail: "instantiate next stage",
		Cause:  cause,
	}
}

// Load creates a file loading error for path. A missing file is
// KindNotFound, anything else KindInvalidData.
func Load(path, detail string, cause error) *Error {
	kind := KindInvalidData
	if stderrors.Is(cause, fs.ErrNotExist) {
		kind = KindNotFound
	}
	return &Error{
		Phase:  PhaseLoad,
		Kind:   kind,
		Path:   []string{path},
		Detail: detail,
		Cause:  cause,
	}
}

// Boot creates a fatal bootstrap error for path. Bootstrap failures are
// never retried.
func Boot(path, detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseBoot,
		Kind:   KindInvalidData,
		Path:   []string{path},
		Detail: detail,
		Cause:  cause,
	}
}
