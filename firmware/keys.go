package firmware

import (
	"strings"
	"unicode/utf8"

	"github.com/wippyai/arcboot/errors"
	"github.com/wippyai/arcboot/interp"
)

// Scan codes for special keys.
const (
	ScanNull  uint16 = 0x0000
	ScanUp    uint16 = 0x0001
	ScanDown  uint16 = 0x0002
	ScanRight uint16 = 0x0003
	ScanLeft  uint16 = 0x0004
	ScanEsc          = interp.ScanEsc
)

var (
	KeyEsc   = interp.InputKey{ScanCode: ScanEsc}
	KeyEnter = interp.InputKey{UnicodeChar: '\r'}
	KeySpace = interp.InputKey{UnicodeChar: ' '}
)

// ParseKeys parses a comma-separated key script such as "esc,enter,y".
// Named keys are esc, enter, space, up, down, left and right; any other
// token must be a single character.
func ParseKeys(script string) ([]interp.InputKey, error) {
	if strings.TrimSpace(script) == "" {
		return nil, nil
	}

	var keys []interp.InputKey
	for i, tok := range strings.Split(script, ",") {
		tok = strings.TrimSpace(tok)
		switch strings.ToLower(tok) {
		case "esc", "escape":
			keys = append(keys, KeyEsc)
		case "enter", "return":
			keys = append(keys, KeyEnter)
		case "space":
			keys = append(keys, KeySpace)
		case "up":
			keys = append(keys, interp.InputKey{ScanCode: ScanUp})
		case "down":
			keys = append(keys, interp.InputKey{ScanCode: ScanDown})
		case "right":
			keys = append(keys, interp.InputKey{ScanCode: ScanRight})
		case "left":
			keys = append(keys, interp.InputKey{ScanCode: ScanLeft})
		default:
			if !utf8.ValidString(tok) {
				e := errors.InvalidUTF8(errors.PhaseConfig, nil, []byte(tok))
				e.Op = "keys"
				return nil, e
			}
			r, size := utf8.DecodeRuneInString(tok)
			if size == 0 || size != len(tok) || r > 0xFFFF {
				return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
					Op("keys").
					Value(tok).
					Detail("key %d: %q is not a key name or single character", i+1, tok).
					Build()
			}
			keys = append(keys, interp.InputKey{UnicodeChar: uint16(r)})
		}
	}
	return keys, nil
}

// translateInput turns raw terminal bytes into key strokes. A lone ESC is
// the escape key; ESC [ A..D are the arrow keys; carriage return and line
// feed both report Enter.
func translateInput(chunk []byte) []interp.InputKey {
	var keys []interp.InputKey
	for len(chunk) > 0 {
		if chunk[0] == 0x1b {
			if len(chunk) >= 3 && chunk[1] == '[' {
				if scan, ok := arrowScan(chunk[2]); ok {
					keys = append(keys, interp.InputKey{ScanCode: scan})
					chunk = chunk[3:]
					continue
				}
			}
			keys = append(keys, KeyEsc)
			chunk = chunk[1:]
			continue
		}

		r, size := utf8.DecodeRune(chunk)
		chunk = chunk[size:]
		switch {
		case r == '\n' || r == '\r':
			keys = append(keys, KeyEnter)
		case r == utf8.RuneError && size == 1:
			// drop undecodable bytes
		case r > 0xFFFF:
			// outside the basic plane; a key stroke holds one code unit
		default:
			keys = append(keys, interp.InputKey{UnicodeChar: uint16(r)})
		}
	}
	return keys
}

func arrowScan(b byte) (uint16, bool) {
	switch b {
	case 'A':
		return ScanUp, true
	case 'B':
		return ScanDown, true
	case 'C':
		return ScanRight, true
	case 'D':
		return ScanLeft, true
	}
	return 0, false
}
