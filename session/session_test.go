package session

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Canop/safecloset/config"
	"github.com/Canop/safecloset/core"
	"github.com/Canop/safecloset/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Closet:      &config.ClosetConfig{Path: filepath.Join(t.TempDir(), "closet.sc"), BackupSuffix: ".old"},
		Logging:     &config.LoggingConfig{Level: "error", Format: "json", Output: "stdout"},
		Metrics:     &config.MetricsConfig{},
		Diagnostics: &config.DiagnosticsConfig{Checks: []string{"file_readable", "backup_present", "file_permissions"}},
	}
}

func TestOpenGeneratesFreshClosetWhenMissing(t *testing.T) {
	sess, err := Open(testConfig(t), logger.NewLogger(nopWriter{}, logger.ErrorLevel))
	require.NoError(t, err)
	assert.True(t, sess.JustCreated())
}

func TestCreateOpenCloseAndSaveRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	sess, err := Open(cfg, logger.NewLogger(nopWriter{}, logger.ErrorLevel))
	require.NoError(t, err)

	open, err := sess.CreateDrawer("correct horse battery")
	require.NoError(t, err)
	open.Entries = append(open.Entries, core.Entry{Name: "github", Value: "token123"})

	require.NoError(t, sess.CloseAndSave())

	// Reopen a brand new session against the same file.
	sess2, err := Open(cfg, logger.NewLogger(nopWriter{}, logger.ErrorLevel))
	require.NoError(t, err)
	assert.False(t, sess2.JustCreated())

	reopened, err := sess2.OpenDrawer("correct horse battery")
	require.NoError(t, err)
	require.NotNil(t, reopened)
}

func TestOpenDrawerWithWrongPassphraseReturnsNilNotError(t *testing.T) {
	cfg := testConfig(t)
	sess, err := Open(cfg, logger.NewLogger(nopWriter{}, logger.ErrorLevel))
	require.NoError(t, err)
	_, err = sess.CreateDrawer("correct horse battery")
	require.NoError(t, err)

	open, err := sess.OpenDrawer("totally wrong")
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestDiagnoseRunsConfiguredChecks(t *testing.T) {
	cfg := testConfig(t)
	sess, err := Open(cfg, logger.NewLogger(nopWriter{}, logger.ErrorLevel))
	require.NoError(t, err)
	require.NoError(t, sess.CloseAndSave())

	report := sess.Diagnose(context.Background())
	assert.Len(t, report.Checks, 3)
}

func TestExportCSVSkipsEmptyEntries(t *testing.T) {
	cfg := testConfig(t)
	sess, err := Open(cfg, logger.NewLogger(nopWriter{}, logger.ErrorLevel))
	require.NoError(t, err)
	open, err := sess.CreateDrawer("correct horse battery")
	require.NoError(t, err)
	open.Entries = append(open.Entries, core.Entry{Name: "github", Value: "token123"}, core.Entry{})

	var sb strings.Builder
	require.NoError(t, sess.ExportCSV(&sb, open))
	assert.Contains(t, sb.String(), "github,token123")
	assert.Equal(t, 1, strings.Count(sb.String(), "\n"))
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
