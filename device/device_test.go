package device

import (
	"encoding/binary"
	"errors"
	"testing"
	"time"
)

// rawEvent builds one 24-byte input_event.
func rawEvent(evType, code uint16, value int32) []byte {
	buf := make([]byte, inputEventSize)
	binary.LittleEndian.PutUint16(buf[16:], evType)
	binary.LittleEndian.PutUint16(buf[18:], code)
	binary.LittleEndian.PutUint32(buf[20:], uint32(value))
	return buf
}

func TestPressCodesFiltersToKeyPresses(t *testing.T) {
	var buf []byte
	buf = append(buf, rawEvent(evKey, 30, keyPress)...)    // 'a' press
	buf = append(buf, rawEvent(evKey, 30, keyRelease)...)  // 'a' release
	buf = append(buf, rawEvent(evKey, 30, 2)...)           // autorepeat
	buf = append(buf, rawEvent(0, 0, 0)...)                // EV_SYN
	buf = append(buf, rawEvent(evKey, KeyEsc, keyPress)...)

	codes := pressCodes(buf, len(buf))
	if len(codes) != 2 {
		t.Fatalf("got %d codes, want 2: %v", len(codes), codes)
	}
	if codes[0] != 30 || codes[1] != KeyEsc {
		t.Errorf("codes = %v, want [30 %d]", codes, KeyEsc)
	}
}

func TestPressCodesIgnoresTrailingPartialEvent(t *testing.T) {
	buf := rawEvent(evKey, 30, keyPress)
	buf = append(buf, rawEvent(evKey, 31, keyPress)[:10]...) // truncated read

	codes := pressCodes(buf, len(buf))
	if len(codes) != 1 || codes[0] != 30 {
		t.Errorf("codes = %v, want [30]", codes)
	}
}

func TestPressCodesEmpty(t *testing.T) {
	if codes := pressCodes(nil, 0); codes != nil {
		t.Errorf("codes = %v, want nil", codes)
	}
}

func TestFakeDeviceDeliversPresses(t *testing.T) {
	dev := NewFake("fake keyboard")

	got := make(chan uint16, 3)
	done := make(chan error, 1)
	go func() {
		done <- dev.Listen(func(code uint16) error {
			got <- code
			return nil
		})
	}()

	dev.Press(30)
	dev.Press(KeyBackslash)
	dev.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Listen returned %v, want nil on close", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for listener exit")
	}

	if len(got) != 2 {
		t.Fatalf("got %d presses, want 2", len(got))
	}
	if c := <-got; c != 30 {
		t.Errorf("first press = %d, want 30", c)
	}
	if c := <-got; c != KeyBackslash {
		t.Errorf("second press = %d, want %d", c, KeyBackslash)
	}
}

func TestFakeDeviceStopsOnHandlerError(t *testing.T) {
	dev := NewFake("fake keyboard")
	handlerErr := errors.New("persist failed")

	done := make(chan error, 1)
	go func() {
		done <- dev.Listen(func(uint16) error { return handlerErr })
	}()

	dev.Press(30)

	select {
	case err := <-done:
		if !errors.Is(err, handlerErr) {
			t.Errorf("Listen returned %v, want %v", err, handlerErr)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for listener exit")
	}
}

func TestFakeDeviceStopsOnStreamError(t *testing.T) {
	dev := NewFake("fake keyboard")
	streamErr := errors.New("stream closed")

	done := make(chan error, 1)
	go func() {
		done <- dev.Listen(func(uint16) error { return nil })
	}()

	dev.FailWith(streamErr)

	select {
	case err := <-done:
		if !errors.Is(err, streamErr) {
			t.Errorf("Listen returned %v, want %v", err, streamErr)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for listener exit")
	}
}
