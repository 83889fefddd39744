package interp

import (
	"strconv"
	"unicode/utf16"
)

// Status is a firmware status word. The high bit marks an error.
type Status uint64

const errorBit Status = 1 << 63

const (
	StatusSuccess     Status = 0
	StatusNotReady    Status = errorBit | 6
	StatusDeviceError Status = errorBit | 7
)

// IsError reports whether s carries the error bit.
func (s Status) IsError() bool {
	return s&errorBit != 0
}

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusNotReady:
		return "not ready"
	case StatusDeviceError:
		return "device error"
	}
	return "status(" + strconv.FormatUint(uint64(s&^errorBit), 10) + ")"
}

// ScanEsc is the scan code reported for the escape key.
const ScanEsc uint16 = 0x0017

// InputKey is a single key stroke: a scan code for special keys and a
// UTF-16 code unit for printable ones.
type InputKey struct {
	ScanCode    uint16
	UnicodeChar uint16
}

// ResetType selects the kind of system reset.
type ResetType uint32

const (
	ResetCold     ResetType = 0
	ResetWarm     ResetType = 1
	ResetShutdown ResetType = 2
)

func (r ResetType) String() string {
	switch r {
	case ResetCold:
		return "cold"
	case ResetWarm:
		return "warm"
	case ResetShutdown:
		return "shutdown"
	}
	return "reset(" + strconv.FormatUint(uint64(r), 10) + ")"
}

// Services is the host capability surface the engine calls but does not own.
//
// OutputString receives null-terminated UTF-16 text. ReadKeyStroke is polled
// until it returns StatusSuccess. ResetSystem does not return on real
// firmware; hosted implementations may return, and the engine then ends the
// run with ReasonPowerReset.
type Services interface {
	OutputString(text []uint16)
	ResetInput() Status
	ReadKeyStroke() (InputKey, Status)
	ResetSystem(kind ResetType, status Status, data []byte)
}

// EncodeUTF16 converts s to null-terminated UTF-16.
func EncodeUTF16(s string) []uint16 {
	return append(utf16.Encode([]rune(s)), 0)
}

// DecodeUTF16 converts UTF-16 text up to the first null to a string.
func DecodeUTF16(text []uint16) string {
	for i, c := range text {
		if c == 0 {
			text = text[:i]
			break
		}
	}
	return string(utf16.Decode(text))
}
