//go:build unix

package sink

import (
	"os"

	"golang.org/x/sys/unix"
)

// Advisory locks; released when the descriptor closes.

func lockShared(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_SH)
}

func lockExclusive(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX)
}
