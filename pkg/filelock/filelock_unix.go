//go:build !windows

package filelock

import (
	"os"
	"syscall"
)

// lockFile takes a non-blocking exclusive flock(2).
func lockFile(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
}

func unlockFile(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
}
