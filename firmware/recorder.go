package firmware

import (
	"strings"

	"github.com/wippyai/arcboot/interp"
)

var _ interp.Services = (*Recorder)(nil)

// ResetRequest is a recorded ResetSystem call.
type ResetRequest struct {
	Data   []byte
	Status interp.Status
	Kind   interp.ResetType
}

// Recorder is an in-memory host. Console text is collected, key strokes
// come from a script, and reset requests are recorded instead of taking
// effect. Once the script is exhausted every poll reports Enter so that a
// run can never wait forever.
type Recorder struct {
	out    strings.Builder
	writes []string
	keys   []interp.InputKey
	resets []ResetRequest

	// Latency is the number of polls that report NotReady before each key.
	Latency int

	pending     int
	polls       int
	inputResets int
}

// NewRecorder creates a recorder that will deliver keys in order.
func NewRecorder(keys ...interp.InputKey) *Recorder {
	return &Recorder{keys: keys}
}

func (r *Recorder) OutputString(text []uint16) {
	s := interp.DecodeUTF16(text)
	r.writes = append(r.writes, s)
	r.out.WriteString(s)
}

func (r *Recorder) ResetInput() interp.Status {
	r.inputResets++
	r.pending = r.Latency
	return interp.StatusSuccess
}

func (r *Recorder) ReadKeyStroke() (interp.InputKey, interp.Status) {
	r.polls++
	if r.pending > 0 {
		r.pending--
		return interp.InputKey{}, interp.StatusNotReady
	}
	r.pending = r.Latency
	if len(r.keys) == 0 {
		return KeyEnter, interp.StatusSuccess
	}
	k := r.keys[0]
	r.keys = r.keys[1:]
	return k, interp.StatusSuccess
}

func (r *Recorder) ResetSystem(kind interp.ResetType, status interp.Status, data []byte) {
	r.resets = append(r.resets, ResetRequest{
		Kind:   kind,
		Status: status,
		Data:   append([]byte(nil), data...),
	})
}

// Output returns all console text written so far.
func (r *Recorder) Output() string { return r.out.String() }

// Writes returns each OutputString call as a separate string.
func (r *Recorder) Writes() []string { return r.writes }

// Resets returns the recorded reset requests.
func (r *Recorder) Resets() []ResetRequest { return r.resets }

// Polls returns the number of ReadKeyStroke calls.
func (r *Recorder) Polls() int { return r.polls }

// InputResets returns the number of ResetInput calls.
func (r *Recorder) InputResets() int { return r.inputResets }

// Remaining returns the number of unconsumed scripted keys.
func (r *Recorder) Remaining() int { return len(r.keys) }
