package firmware

import (
	"bytes"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/arcboot/errors"
	"github.com/wippyai/arcboot/interp"
)

type deniedFS struct{}

func (deniedFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
}

func TestLoadProgram(t *testing.T) {
	volume := fstest.MapFS{
		"main.arc":      {Data: []byte{0x02, 0x03, 0x09, 0x32}},
		"empty.arc":     {Data: []byte{}},
		"big.arc":       {Data: bytes.Repeat([]byte{0x00}, interp.MaxProgramSize+100)},
		"boot/menu.arc": {Data: []byte{0x31}},
	}

	t.Run("reads whole file", func(t *testing.T) {
		prog, err := LoadProgram(volume, DefaultProgram, interp.MaxProgramSize)
		require.NoError(t, err)
		assert.Equal(t, interp.Program{0x02, 0x03, 0x09, 0x32}, prog)
	})

	t.Run("empty file", func(t *testing.T) {
		prog, err := LoadProgram(volume, "empty.arc", 0)
		require.NoError(t, err)
		assert.Empty(t, prog)
	})

	t.Run("truncates to buffer size", func(t *testing.T) {
		prog, err := LoadProgram(volume, "big.arc", 0)
		require.NoError(t, err)
		assert.Len(t, prog, interp.MaxProgramSize)
	})

	t.Run("custom limit", func(t *testing.T) {
		prog, err := LoadProgram(volume, DefaultProgram, 2)
		require.NoError(t, err)
		assert.Equal(t, interp.Program{0x02, 0x03}, prog)
	})

	t.Run("missing file is fatal", func(t *testing.T) {
		_, err := LoadProgram(volume, "nope.arc", 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseBoot, Kind: errors.KindNotFound})
		assert.Contains(t, err.Error(), `program "nope.arc" not found`)
	})

	t.Run("open failure", func(t *testing.T) {
		_, err := LoadProgram(deniedFS{}, "main.arc", 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseBoot, Kind: errors.KindInvalidData})

		var e *errors.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, []string{"main.arc"}, e.Path)
		assert.ErrorIs(t, err, fs.ErrPermission)
		assert.Equal(t, "open program", e.Detail)
	})

	t.Run("directory is not a program", func(t *testing.T) {
		_, err := LoadProgram(volume, "boot", 0)
		require.Error(t, err)

		var e *errors.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, errors.PhaseBoot, e.Phase)
		assert.Equal(t, errors.KindInvalidData, e.Kind)
		assert.Equal(t, "read program", e.Detail)
	})

	t.Run("nil volume", func(t *testing.T) {
		_, err := LoadProgram(nil, DefaultProgram, 0)
		assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseBoot, Kind: errors.KindNotInitialized})
	})
}

func TestMeasure(t *testing.T) {
	empty := Measure(nil)
	assert.Equal(t, "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262", empty.String())

	a := Measure(interp.Program{0x02, 0x03})
	b := Measure(interp.Program{0x02, 0x03})
	c := Measure(interp.Program{0x03, 0x02})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a.String(), 64)
}
