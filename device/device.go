// Package device resolves physical keyboards by name hint and streams
// their key-press events (reads /dev/input directly on Linux).
// Requires user to be in the 'input' group.
package device

import "encoding/binary"

// evdev key codes used by the dispatcher.
const (
	KeyEsc       uint16 = 1
	KeyBackslash uint16 = 43
)

const (
	evKey      = 1
	keyPress   = 1
	keyRelease = 0
)

// input_event is 24 bytes on 64-bit Linux:
// timeval (16 bytes) + type (2) + code (2) + value (4)
const inputEventSize = 24

// PressHandler receives the key code of each press transition.
// A non-nil error stops the listener.
type PressHandler func(code uint16) error

// Device is an opened keyboard producing raw key events.
type Device interface {
	// Name is the human-readable device name.
	Name() string
	// Listen blocks, invoking h for every key press (releases and
	// autorepeats are filtered out). Returns when the stream errors,
	// the device closes, or h returns an error.
	Listen(h PressHandler) error
	Close() error
}

// pressCodes extracts key-press codes from n bytes of raw input_event
// data. Release (value 0) and autorepeat (value 2) events are dropped.
func pressCodes(buf []byte, n int) []uint16 {
	var codes []uint16
	for i := 0; i+inputEventSize <= n; i += inputEventSize {
		evType := binary.LittleEndian.Uint16(buf[i+16:])
		evCode := binary.LittleEndian.Uint16(buf[i+18:])
		evValue := int32(binary.LittleEndian.Uint32(buf[i+20:]))

		if evType != evKey || evValue != keyPress {
			continue
		}
		codes = append(codes, evCode)
	}
	return codes
}
