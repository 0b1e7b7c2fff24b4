//go:build !windows

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireLock_CreatesFile(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "picker.lock")

	fd, err := acquireLock(lockPath)
	require.NoError(t, err)
	defer releaseLock(fd)

	assert.FileExists(t, lockPath)
}

func TestAcquireLock_SecondPickerFails(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "picker.lock")

	fd1, err := acquireLock(lockPath)
	require.NoError(t, err)

	fd2, err := acquireLock(lockPath)
	if err == nil {
		releaseLock(fd2)
		releaseLock(fd1)
		t.Fatal("expected second acquireLock to fail")
	}
	assert.Contains(t, err.Error(), "another cmdpal picker is running")

	releaseLock(fd1)

	fd3, err := acquireLock(lockPath)
	require.NoError(t, err, "lock is free again after release")
	releaseLock(fd3)
}

func TestReleaseLock_InvalidFd(t *testing.T) {
	assert.NotPanics(t, func() { releaseLock(-1) })
}

func TestPickWithSession_LockHeld(t *testing.T) {
	withTestEnv(t)
	s, err := openSession("pick")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, os.MkdirAll(s.paths.CacheDir, 0o755))
	fd, err := acquireLock(s.paths.LockFile())
	require.NoError(t, err)
	defer releaseLock(fd)

	code, outcome := pickWithSession(s, "conv")
	assert.Equal(t, exitFallback, code)
	assert.Equal(t, "locked", outcome)
}

func TestPickWithSession_MissingCatalog(t *testing.T) {
	withTestEnv(t)
	catalogPath = filepath.Join(t.TempDir(), "missing.yaml")
	s, err := openSession("pick")
	require.NoError(t, err)
	defer s.Close()

	code, outcome := pickWithSession(s, "")
	assert.Equal(t, exitFallback, code)
	assert.Equal(t, "error", outcome)
}
