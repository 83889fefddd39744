package firmware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/arcboot/errors"
	"github.com/wippyai/arcboot/interp"
)

func TestParseKeys(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		want    []interp.InputKey
		wantErr bool
	}{
		{name: "empty", script: "  ", want: nil},
		{name: "named", script: "esc, Enter,space", want: []interp.InputKey{KeyEsc, KeyEnter, KeySpace}},
		{name: "arrows", script: "up,down,left,right", want: []interp.InputKey{
			{ScanCode: ScanUp}, {ScanCode: ScanDown}, {ScanCode: ScanLeft}, {ScanCode: ScanRight},
		}},
		{name: "characters", script: "y,ü", want: []interp.InputKey{{UnicodeChar: 'y'}, {UnicodeChar: 0xFC}}},
		{name: "word is rejected", script: "esc,hello", wantErr: true},
		{name: "empty token", script: "esc,,enter", wantErr: true},
	}

	t.Run("invalid utf-8", func(t *testing.T) {
		_, err := ParseKeys("esc,\xff")
		require.Error(t, err)
		assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseConfig, Kind: errors.KindInvalidUTF8})
		assert.Contains(t, err.Error(), "keys - invalid UTF-8 sequence: ff")
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKeys(tt.script)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseConfig, Kind: errors.KindInvalidInput})
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateInput(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []interp.InputKey
	}{
		{name: "lone escape", in: []byte{0x1b}, want: []interp.InputKey{KeyEsc}},
		{name: "arrow", in: []byte("\x1b[A\x1b[D"), want: []interp.InputKey{{ScanCode: ScanUp}, {ScanCode: ScanLeft}}},
		{name: "escape then text", in: []byte("\x1bq"), want: []interp.InputKey{KeyEsc, {UnicodeChar: 'q'}}},
		{name: "newline is enter", in: []byte("a\n\r"), want: []interp.InputKey{{UnicodeChar: 'a'}, KeyEnter, KeyEnter}},
		{name: "multibyte", in: []byte("é"), want: []interp.InputKey{{UnicodeChar: 0xE9}}},
		{name: "invalid byte dropped", in: []byte{0xff, 'x'}, want: []interp.InputKey{{UnicodeChar: 'x'}}},
		{name: "empty", in: nil, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, translateInput(tt.in))
		})
	}
}
