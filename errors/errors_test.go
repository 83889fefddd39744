package errors

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseAssemble,
				Kind:   KindUndefinedLabel,
				Path:   []string{"boot", "menu.txt"},
				Line:   12,
				Op:     "HALT",
				Detail: "label \"menu\" is never defined",
			},
			contains: []string{"[assemble]", "undefined_label", "boot/menu.txt", "line 12", "HALT - ", "menu"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseLoad,
				Kind:  KindTooLarge,
			},
			contains: []string{"[load]", "too_large"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseBoot,
				Kind:   KindNotFound,
				Detail: "open volume",
				Cause:  errors.New("no such device"),
			},
			contains: []string{"[boot]", "not_found", "open volume", "caused by", "no such device"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_NoLineWhenZero(t *testing.T) {
	err := &Error{Phase: PhaseConfig, Kind: KindInvalidInput, Detail: "bad level"}
	if strings.Contains(err.Error(), "line") {
		t.Errorf("unexpected line marker in %q", err.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseAssemble,
		Kind:  KindUnknownOp,
		Line:  3,
	}

	if !err.Is(&Error{Phase: PhaseAssemble, Kind: KindUnknownOp}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseLoad, Kind: KindUnknownOp}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseAssemble, Kind: KindMissingOperand}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseAssemble, Kind: KindUnknownOp}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseAssemble, KindTooLarge).
		Path("hello.txt").
		Line(4).
		Op("PRINT").
		Value(300).
		Cause(cause).
		Detail("text is %d bytes, max %d", 300, 255).
		Build()

	if err.Phase != PhaseAssemble {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseAssemble)
	}
	if err.Kind != KindTooLarge {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTooLarge)
	}
	if len(err.Path) != 1 || err.Path[0] != "hello.txt" {
		t.Errorf("Path = %v, want [hello.txt]", err.Path)
	}
	if err.Line != 4 {
		t.Errorf("Line = %d, want 4", err.Line)
	}
	if err.Op != "PRINT" {
		t.Errorf("Op = %q, want PRINT", err.Op)
	}
	if err.Value != 300 {
		t.Errorf("Value = %v, want 300", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "text is 300 bytes, max 255" {
		t.Errorf("Detail = %v", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("InvalidUTF8", func(t *testing.T) {
		err := InvalidUTF8(PhaseAssemble, []string{"str"}, []byte{0xff, 0xfe})
		if err.Kind != KindInvalidUTF8 {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidUTF8)
		}
		if !strings.Contains(err.Detail, "fffe") {
			t.Errorf("Detail = %v, should contain hex preview", err.Detail)
		}
	})

	t.Run("OutOfRange", func(t *testing.T) {
		err := OutOfRange(PhaseAssemble, 70000, 0xFFFF)
		if err.Kind != KindOutOfRange {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfRange)
		}
		if err.Value != 70000 {
			t.Errorf("Value = %v, want 70000", err.Value)
		}
	})

	t.Run("TooLarge", func(t *testing.T) {
		err := TooLarge(PhaseLoad, "program", 5000, 4096)
		if err.Kind != KindTooLarge {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTooLarge)
		}
		if !strings.Contains(err.Detail, "4096") {
			t.Errorf("Detail = %v, should contain limit", err.Detail)
		}
	})

	t.Run("Boot", func(t *testing.T) {
		cause := errors.New("denied")
		err := Boot("main.arc", "open program", cause)
		if err.Phase != PhaseBoot {
			t.Errorf("Phase = %v, want %v", err.Phase, PhaseBoot)
		}
		if !errors.Is(err, cause) {
			t.Error("Boot should wrap its cause")
		}
		if len(err.Path) != 1 || err.Path[0] != "main.arc" {
			t.Errorf("Path = %v, want [main.arc]", err.Path)
		}
	})

	t.Run("Load", func(t *testing.T) {
		missing := Load("a.s", "read source", fs.ErrNotExist)
		if missing.Phase != PhaseLoad || missing.Kind != KindNotFound {
			t.Errorf("got %v/%v, want load/not_found", missing.Phase, missing.Kind)
		}
		other := Load("a.s", "read source", fs.ErrPermission)
		if other.Kind != KindInvalidData {
			t.Errorf("Kind = %v, want %v", other.Kind, KindInvalidData)
		}
	})

	t.Run("Instantiation", func(t *testing.T) {
		err := Instantiation(errors.New("bad magic"))
		if err.Phase != PhaseHandoff || err.Kind != KindInstantiation {
			t.Errorf("got %v/%v", err.Phase, err.Kind)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseAssemble, "label", "loop")
		if !strings.Contains(err.Error(), `label "loop" not found`) {
			t.Errorf("unexpected message %q", err.Error())
		}
	})
}
