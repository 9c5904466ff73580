//go:build linux

package device

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type evdevDevice struct {
	name string
	f    *os.File
}

// Resolve matches each hint against the names of the keyboards under
// /dev/input and opens the first device containing it. Hints that
// match nothing are returned in missing; the caller decides how loudly
// to complain.
func Resolve(hints []string) (devices []Device, missing []string, err error) {
	keyboards, err := findKeyboards()
	if err != nil {
		return nil, nil, fmt.Errorf("scanning input devices: %w", err)
	}

	// A device claimed by an earlier hint never gets a second
	// listener; a hint whose only matches are claimed is satisfied,
	// not missing.
	taken := make(map[string]bool)
	for _, hint := range hints {
		matched := false
		for path, name := range keyboards {
			if !strings.Contains(name, hint) {
				continue
			}
			matched = true
			if taken[path] {
				continue
			}
			f, err := os.Open(path)
			if err != nil {
				continue
			}
			taken[path] = true
			devices = append(devices, &evdevDevice{name: name, f: f})
			break
		}
		if !matched {
			missing = append(missing, hint)
		}
	}
	return devices, missing, nil
}

func (d *evdevDevice) Name() string { return d.name }

func (d *evdevDevice) Listen(h PressHandler) error {
	buf := make([]byte, inputEventSize*16)
	for {
		n, err := d.f.Read(buf)
		if err != nil {
			return err
		}
		for _, code := range pressCodes(buf, n) {
			if err := h(code); err != nil {
				return err
			}
		}
	}
}

func (d *evdevDevice) Close() error {
	return d.f.Close()
}

// findKeyboards maps /dev/input/eventN paths to device names for every
// node with a keyboard-sized key capability bitmap.
func findKeyboards() (map[string]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, err
	}

	keyboards := make(map[string]string)
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		if !isKeyboard(e.Name()) {
			continue
		}
		name, err := deviceName(e.Name())
		if err != nil {
			continue
		}
		keyboards[filepath.Join("/dev/input", e.Name())] = name
	}
	return keyboards, nil
}

func deviceName(eventName string) (string, error) {
	namePath := filepath.Join("/sys/class/input", eventName, "device", "name")
	data, err := os.ReadFile(namePath)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func isKeyboard(eventName string) bool {
	capsPath := filepath.Join("/sys/class/input", eventName, "device", "capabilities", "key")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	// Real keyboards have long key capability bitmaps
	caps := strings.TrimSpace(string(data))
	return len(caps) > 10
}

// Diagnose checks evdev access and returns a status message.
func Diagnose() (string, error) {
	keyboards, err := findKeyboards()
	if err != nil {
		return "", fmt.Errorf("cannot scan input devices: %w", err)
	}
	if len(keyboards) == 0 {
		return "", fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	var opened string
	for path := range keyboards {
		f, err := os.Open(path)
		if err == nil {
			f.Close()
			opened = path
			break
		}
	}
	if opened == "" {
		return "", fmt.Errorf("found %d keyboard(s) but cannot open any (run: sudo usermod -aG input $USER)", len(keyboards))
	}

	return fmt.Sprintf("%d keyboard(s) found, opened %s", len(keyboards), opened), nil
}
