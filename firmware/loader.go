package firmware

import (
	"encoding/hex"
	stderrors "errors"
	"io"
	"io/fs"

	"github.com/zeebo/blake3"
	"go.uber.org/zap"

	"github.com/wippyai/arcboot/errors"
	"github.com/wippyai/arcboot/interp"
)

// DefaultProgram is the file name looked up on the boot volume.
const DefaultProgram = "main.arc"

// LoadProgram reads name from the boot volume into a buffer of max bytes.
// Files longer than max are truncated, as the firmware reads exactly one
// buffer. A non-positive max uses interp.MaxProgramSize.
func LoadProgram(volume fs.FS, name string, max int) (interp.Program, error) {
	if volume == nil {
		return nil, errors.NotInitialized(errors.PhaseBoot, "boot volume")
	}
	if max <= 0 {
		max = interp.MaxProgramSize
	}

	f, err := volume.Open(name)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			e := errors.NotFound(errors.PhaseBoot, "program", name)
			e.Path = []string{name}
			e.Cause = err
			return nil, e
		}
		return nil, errors.Boot(name, "open program", err)
	}
	defer f.Close()

	buf := make([]byte, max)
	n, err := io.ReadFull(f, buf)
	if err != nil && !stderrors.Is(err, io.ErrUnexpectedEOF) && !stderrors.Is(err, io.EOF) {
		return nil, errors.Boot(name, "read program", err)
	}

	if n == max {
		var extra [1]byte
		if m, _ := f.Read(extra[:]); m > 0 {
			Logger().Warn("program truncated to read buffer",
				zap.String("name", name),
				zap.Int("limit", max),
			)
		}
	}

	Logger().Debug("program loaded", zap.String("name", name), zap.Int("size", n))
	return interp.Program(buf[:n]), nil
}

// Digest is a BLAKE3-256 program measurement.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Measure returns the BLAKE3-256 digest of prog.
func Measure(prog interp.Program) Digest {
	return Digest(blake3.Sum256(prog))
}
