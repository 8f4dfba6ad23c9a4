package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// lockFile in the data directory holds the PID of the running TUI.
const lockFile = "smartbar.lock"

func lockPath(dataDir string) string { return filepath.Join(dataDir, lockFile) }

// LockInstance records this process as the TUI owning dataDir. The headless
// subcommands never take the lock.
func LockInstance(dataDir string) error {
	pid := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(lockPath(dataDir), []byte(pid), 0o600)
}

// UnlockInstance removes the lock. A missing lock is not an error.
func UnlockInstance(dataDir string) error {
	if err := os.Remove(lockPath(dataDir)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// CheckInstanceLock reports whether another live process holds dataDir.
// Locks that are unreadable or left by a process that has exited are
// removed and reported as free.
func CheckInstanceLock(dataDir string) (locked bool, pid int, err error) {
	path := lockPath(dataDir)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("read instance lock: %w", err)
	}

	pid, err = strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return false, 0, removeStale(path)
	}
	if pid == os.Getpid() {
		return false, 0, nil
	}
	if !processAlive(pid) {
		return false, 0, removeStale(path)
	}
	return true, pid, nil
}

func removeStale(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove stale instance lock: %w", err)
	}
	return nil
}
