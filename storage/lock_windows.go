//go:build windows

package storage

import "os"

// processAlive relies on FindProcess, which opens a handle and fails for
// PIDs that no longer exist on Windows.
func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	_ = proc.Release()
	return true
}
