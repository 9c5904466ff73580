package sink

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// FileSink persists the counter and status label as plain-text files,
// fully rewritten on each update. Writers take an exclusive flock,
// readers a shared one, so an external process never sees a torn write.
type FileSink struct {
	counterPath string
	statusPath  string
}

func NewFile(counterPath, statusPath string) *FileSink {
	return &FileSink{counterPath: counterPath, statusPath: statusPath}
}

func (f *FileSink) ReadCounter() (uint32, error) {
	file, err := os.OpenFile(f.counterPath, os.O_RDONLY, 0)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	if err := lockShared(file); err != nil {
		return 0, fmt.Errorf("locking %s: %w", f.counterPath, err)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 32)
	if err != nil {
		// Malformed content is transient-recoverable: default to 0.
		return 0, nil
	}
	return uint32(v), nil
}

func (f *FileSink) WriteCounter(v uint32) error {
	return f.overwrite(f.counterPath, strconv.FormatUint(uint64(v), 10))
}

func (f *FileSink) WriteStatus(s Status) error {
	return f.overwrite(f.statusPath, string(s))
}

func (f *FileSink) overwrite(path, content string) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := lockExclusive(file); err != nil {
		return fmt.Errorf("locking %s: %w", path, err)
	}
	_, err = file.WriteString(content)
	return err
}
