package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Canop/safecloset/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenOrCreateGeneratesFreshClosetWhenAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closet.sc")
	c, justCreated, err := OpenOrCreate(path)
	require.NoError(t, err)
	assert.True(t, justCreated)
	require.NotNil(t, c)
	assert.NotEmpty(t, c.Salt)
}

func TestSaveAtomicThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closet.sc")
	c, err := core.NewCloset(0)
	require.NoError(t, err)
	require.NoError(t, SaveAtomic(path, c))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c.Salt, loaded.Salt)
	assert.Len(t, loaded.Drawers, len(c.Drawers))
}

func TestSaveAtomicFailsIfFileAlreadyExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closet.sc")
	c, err := core.NewCloset(0)
	require.NoError(t, err)
	require.NoError(t, SaveAtomic(path, c))

	err = SaveAtomic(path, c)
	assert.True(t, core.IsKind(err, core.KindFileExists))
}

func TestSaveBacksUpPreviousFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closet.sc")
	first, err := core.NewCloset(0)
	require.NoError(t, err)
	require.NoError(t, SaveAtomic(path, first))

	second, err := core.NewCloset(0)
	require.NoError(t, err)
	require.NoError(t, Save(path, second))

	_, err = os.Stat(path + ".old")
	require.NoError(t, err)

	backup, err := Load(path + ".old")
	require.NoError(t, err)
	assert.Equal(t, first.Salt, backup.Salt)

	current, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, second.Salt, current.Salt)
}

func TestLoadReportsMissingFileAsNotExist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.sc")
	_, err := Load(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closet.sc")
	require.NoError(t, os.WriteFile(path, []byte("not msgpack"), 0o600))

	_, err := Load(path)
	assert.True(t, core.IsKind(err, core.KindDecode))
}
