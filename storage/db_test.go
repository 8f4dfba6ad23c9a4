package storage

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesSchema(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"transcripts", "history", "searches"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, table)
	}

	ok, err := columnExists(db, "history", "bookmarked")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.FileExists(t, filepath.Join(dir, DatabaseFile))
}

func TestOpenMigratesOldHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")

	db, err := OpenPath(path)
	require.NoError(t, err)
	_, err = db.Exec(`DROP TABLE history`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE history (url TEXT PRIMARY KEY, title TEXT NOT NULL DEFAULT '', icon TEXT NOT NULL DEFAULT '', visits INTEGER NOT NULL DEFAULT 0, last_visited DATETIME NOT NULL)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenPath(path)
	require.NoError(t, err)
	defer db.Close()

	ok, err := columnExists(db, "history", "bookmarked")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInstanceLock(t *testing.T) {
	dir := t.TempDir()

	locked, _, err := CheckInstanceLock(dir)
	require.NoError(t, err)
	assert.False(t, locked)

	// our own pid never counts as another instance
	require.NoError(t, LockInstance(dir))
	locked, _, err = CheckInstanceLock(dir)
	require.NoError(t, err)
	assert.False(t, locked)

	require.NoError(t, os.WriteFile(filepath.Join(dir, lockFile), []byte("not-a-pid"), 0600))
	locked, _, err = CheckInstanceLock(dir)
	require.NoError(t, err)
	assert.False(t, locked)
	assert.NoFileExists(t, filepath.Join(dir, lockFile))

	require.NoError(t, LockInstance(dir))
	require.NoError(t, UnlockInstance(dir))
	require.NoError(t, UnlockInstance(dir))
}

// pid_max on Linux is at most 2^22, so this PID can never be running.
const deadPID = 4194399

func writeLock(t *testing.T, dir string, pid int) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, lockFile), []byte(strconv.Itoa(pid)+"\n"), 0o600))
}

func TestInstanceLockHeldByLiveProcess(t *testing.T) {
	dir := t.TempDir()
	writeLock(t, dir, os.Getppid())

	locked, pid, err := CheckInstanceLock(dir)
	require.NoError(t, err)
	assert.True(t, locked)
	assert.Equal(t, os.Getppid(), pid)
	assert.FileExists(t, filepath.Join(dir, lockFile))
}

func TestInstanceLockLeftByDeadProcess(t *testing.T) {
	dir := t.TempDir()
	writeLock(t, dir, deadPID)

	locked, pid, err := CheckInstanceLock(dir)
	require.NoError(t, err)
	assert.False(t, locked)
	assert.Zero(t, pid)
	assert.NoFileExists(t, filepath.Join(dir, lockFile), "stale lock is removed")

	require.NoError(t, LockInstance(dir))
	data, err := os.ReadFile(filepath.Join(dir, lockFile))
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid())+"\n", string(data))
}
