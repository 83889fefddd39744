package firmware

import (
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/arcboot/errors"
	"github.com/wippyai/arcboot/interp"
)

// PollInterval bounds how long one ReadKeyStroke call waits for input.
const PollInterval = 10 * time.Millisecond

var _ interp.Services = (*Terminal)(nil)

// Terminal is a host backed by a console: text goes to out and key strokes
// are read from in. When in is a terminal it is switched to raw mode so
// single key presses, including ESC, arrive immediately.
type Terminal struct {
	in     *os.File
	out    io.Writer
	keys   chan interp.InputKey
	done   chan struct{}
	raw    *term.State
	logger *zap.Logger
	reset  *ResetRequest
	once   sync.Once
	stop   sync.Once
	mu     sync.Mutex
}

// NewTerminal creates a terminal host. Call Open before running a program
// and Close afterwards.
func NewTerminal(in *os.File, out io.Writer) *Terminal {
	return &Terminal{
		in:     in,
		out:    out,
		keys:   make(chan interp.InputKey, 64),
		done:   make(chan struct{}),
		logger: Logger().Named("terminal"),
	}
}

// Open enters raw mode when in is a terminal and starts the key reader.
func (t *Terminal) Open() error {
	if t.in == nil {
		return errors.NotInitialized(errors.PhaseBoot, "console input")
	}
	fd := int(t.in.Fd())
	if term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return errors.Wrap(errors.PhaseBoot, errors.KindTerminalFailure, err, "enter raw mode")
		}
		t.raw = state
	}
	t.once.Do(func() { go t.readLoop() })
	return nil
}

// Close stops the key reader and restores the terminal mode saved by Open.
// A read already blocked on the input returns when the next byte arrives
// or the input is closed; the reader exits then.
func (t *Terminal) Close() error {
	t.stop.Do(func() { close(t.done) })
	if t.raw == nil {
		return nil
	}
	err := term.Restore(int(t.in.Fd()), t.raw)
	t.raw = nil
	if err != nil {
		return errors.Wrap(errors.PhaseRuntime, errors.KindTerminalFailure, err, "restore terminal")
	}
	return nil
}

// IsRaw reports whether the input is in raw mode.
func (t *Terminal) IsRaw() bool { return t.raw != nil }

func (t *Terminal) readLoop() {
	defer close(t.keys)
	buf := make([]byte, 64)
	for {
		select {
		case <-t.done:
			return
		default:
		}
		n, err := t.in.Read(buf)
		for _, k := range translateInput(buf[:n]) {
			select {
			case t.keys <- k:
			case <-t.done:
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				t.logger.Warn("console input closed", zap.Error(err))
			}
			return
		}
	}
}

func (t *Terminal) OutputString(text []uint16) {
	if _, err := io.WriteString(t.out, interp.DecodeUTF16(text)); err != nil {
		t.logger.Debug("console write failed", zap.Error(err))
	}
}

// ResetInput discards key strokes typed before the call.
func (t *Terminal) ResetInput() interp.Status {
	for {
		select {
		case _, ok := <-t.keys:
			if !ok {
				return interp.StatusSuccess
			}
		default:
			return interp.StatusSuccess
		}
	}
}

// ReadKeyStroke waits at most PollInterval for a key. After the input
// reaches end of file it keeps reporting NotReady.
func (t *Terminal) ReadKeyStroke() (interp.InputKey, interp.Status) {
	timer := time.NewTimer(PollInterval)
	defer timer.Stop()

	select {
	case k, ok := <-t.keys:
		if !ok {
			<-timer.C
			return interp.InputKey{}, interp.StatusNotReady
		}
		return k, interp.StatusSuccess
	case <-timer.C:
		return interp.InputKey{}, interp.StatusNotReady
	}
}

// ResetSystem records the request. The command that owns the terminal
// decides how to act on it once the run returns.
func (t *Terminal) ResetSystem(kind interp.ResetType, status interp.Status, data []byte) {
	t.mu.Lock()
	t.reset = &ResetRequest{Kind: kind, Status: status, Data: append([]byte(nil), data...)}
	t.mu.Unlock()
	t.logger.Info("system reset requested", zap.Stringer("kind", kind))
}

// LastReset returns the most recent reset request, if any.
func (t *Terminal) LastReset() (ResetRequest, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.reset == nil {
		return ResetRequest{}, false
	}
	return *t.reset, true
}
