package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFileAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, SaveToFile(&Config{}, path))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "safecloset.sc", cfg.Closet.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, ".old", cfg.Closet.BackupSuffix)
}

func TestSaveToFileRoundTripsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	original := &Config{
		Environment: "staging",
		Closet:      &ClosetConfig{Path: "custom.sc", BackupSuffix: ".bak"},
		Logging:     &LoggingConfig{Level: "debug", Format: "text", Output: "stdout"},
		Metrics:     &MetricsConfig{Enabled: true, Addr: ":9531", Path: "/metrics"},
		Diagnostics: &DiagnosticsConfig{Enabled: true, Checks: []string{"file_readable"}},
	}
	require.NoError(t, SaveToFile(original, path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom.sc", loaded.Closet.Path)
	assert.Equal(t, ":9531", loaded.Metrics.Addr)
}

func TestSubstituteEnvVarsInConfig(t *testing.T) {
	t.Setenv("SAFECLOSET_TEST_PATH", "/tmp/from-env.sc")

	cfg := &Config{
		Closet: &ClosetConfig{Path: "${SAFECLOSET_TEST_PATH}", BackupSuffix: "${UNSET_VAR:.old}"},
	}
	SubstituteEnvVarsInConfig(cfg)

	assert.Equal(t, "/tmp/from-env.sc", cfg.Closet.Path)
	assert.Equal(t, ".old", cfg.Closet.BackupSuffix)
}

func TestValidateFlagsEmptyClosetPathAsError(t *testing.T) {
	cfg := &Config{Closet: &ClosetConfig{Path: ""}}
	issues := Validate(cfg)

	assert.Contains(t, issues, ValidationIssue{Field: "closet.path", Message: "must not be empty", Level: "error"})
}

func TestValidateFlagsMetricsAddrWhenEnabled(t *testing.T) {
	cfg := &Config{
		Closet:  &ClosetConfig{Path: "safecloset.sc"},
		Metrics: &MetricsConfig{Enabled: true, Addr: ""},
	}
	issues := Validate(cfg)

	var found bool
	for _, issue := range issues {
		if issue.Field == "metrics.addr" {
			found = true
		}
	}
	assert.True(t, found, "expected an issue for metrics enabled with no addr")
}
