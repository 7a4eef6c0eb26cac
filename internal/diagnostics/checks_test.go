package diagnostics

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/Canop/safecloset/core"
	"github.com/Canop/safecloset/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileReadableCheckPassesOnValidClosetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closet.sc")
	c, err := core.NewCloset(0)
	require.NoError(t, err)
	require.NoError(t, storage.SaveAtomic(path, c))

	assert.NoError(t, FileReadableCheck(path)(context.Background()))
}

func TestFileReadableCheckFailsOnMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.sc")
	assert.Error(t, FileReadableCheck(path)(context.Background()))
}

func TestBackupPresentCheckToleratesAbsence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closet.sc")
	assert.NoError(t, BackupPresentCheck(path, ".old")(context.Background()))
}

func TestBackupPresentCheckValidatesExistingBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closet.sc")
	c, err := core.NewCloset(0)
	require.NoError(t, err)
	require.NoError(t, storage.SaveAtomic(path, c))
	require.NoError(t, storage.Save(path, c))

	assert.NoError(t, BackupPresentCheck(path, ".old")(context.Background()))
}

func TestFilePermissionsCheckFlagsGroupReadableFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	path := filepath.Join(t.TempDir(), "closet.sc")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	assert.Error(t, FilePermissionsCheck(path)(context.Background()))
}

func TestFilePermissionsCheckPassesOnOwnerOnlyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closet.sc")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	assert.NoError(t, FilePermissionsCheck(path)(context.Background()))
}

func TestRegisterDefaultChecksOnlyRegistersRequested(t *testing.T) {
	c := NewChecker(0)
	RegisterDefaultChecks(c, "somepath.sc", ".old", []string{"file_readable"})

	report := c.Diagnose(context.Background())
	require.Len(t, report.Checks, 1)
	_, ok := report.Checks["file_readable"]
	assert.True(t, ok)
}
