package storage

import (
	"path/filepath"
	"testing"

	"github.com/Canop/safecloset/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireLockRejectsSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closet.sc")
	lock, err := AcquireLock(path)
	require.NoError(t, err)
	defer lock.Release()

	_, err = AcquireLock(path)
	assert.Error(t, err)
}

func TestAcquireLockIsReleasedAndReusable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closet.sc")
	lock, err := AcquireLock(path)
	require.NoError(t, err)
	require.NoError(t, lock.Release())

	lock2, err := AcquireLock(path)
	require.NoError(t, err)
	defer lock2.Release()
}

func TestSaveAtomicLockedThenSaveLockedRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closet.sc")
	c, err := core.NewCloset(0)
	require.NoError(t, err)
	require.NoError(t, SaveAtomicLocked(path, c))
	require.NoError(t, SaveLocked(path, c))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c.Salt, loaded.Salt)
}
