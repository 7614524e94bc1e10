//go:build !windows

package testutil

import (
	"errors"
	"syscall"
)

// ProcessAlive reports whether pid exists, zombies included.
func ProcessAlive(pid int) bool {
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}
