//go:build !windows

package storage

import (
	"errors"
	"os"
	"syscall"
)

// processAlive sends signal 0. EPERM means the process exists but belongs
// to someone else, which still counts as alive.
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
