//go:build !linux

package device

import "fmt"

func Resolve([]string) ([]Device, []string, error) {
	return nil, nil, fmt.Errorf("keyboard capture requires Linux evdev")
}

func Diagnose() (string, error) {
	return "", fmt.Errorf("keyboard capture requires Linux evdev")
}
