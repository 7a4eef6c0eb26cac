package diagnostics

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/Canop/safecloset/storage"
)

// FileReadableCheck reports whether path exists and decodes as a valid
// closet. It never attempts to open any drawer in it.
func FileReadableCheck(path string) Check {
	return func(ctx context.Context) error {
		if _, err := storage.Load(path); err != nil {
			return fmt.Errorf("closet file at %s is not readable: %w", path, err)
		}
		return nil
	}
}

// BackupPresentCheck reports whether path's ".old" backup exists and
// itself decodes as a valid closet. Absent on a file that's never been
// saved twice, which is expected and not itself a failure.
func BackupPresentCheck(path, backupSuffix string) Check {
	return func(ctx context.Context) error {
		backupPath := path + backupSuffix
		if _, err := os.Stat(backupPath); os.IsNotExist(err) {
			return nil
		}
		if _, err := storage.Load(backupPath); err != nil {
			return fmt.Errorf("backup file at %s does not decode: %w", backupPath, err)
		}
		return nil
	}
}

// FilePermissionsCheck reports whether path is readable/writable by
// anyone other than its owner, on platforms where that's meaningful.
func FilePermissionsCheck(path string) Check {
	return func(ctx context.Context) error {
		if runtime.GOOS == "windows" {
			return nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if info.Mode().Perm()&0o077 != 0 {
			return fmt.Errorf("closet file %s is readable or writable by group/other (mode %o)", path, info.Mode().Perm())
		}
		return nil
	}
}

// RegisterDefaultChecks wires the standard set of checks named in
// config.DiagnosticsConfig.Checks against a closet file at path.
func RegisterDefaultChecks(c *Checker, path, backupSuffix string, enabled []string) {
	want := make(map[string]bool, len(enabled))
	for _, name := range enabled {
		want[name] = true
	}
	if want["file_readable"] {
		c.Register("file_readable", FileReadableCheck(path))
	}
	if want["backup_present"] {
		c.Register("backup_present", BackupPresentCheck(path, backupSuffix))
	}
	if want["file_permissions"] {
		c.Register("file_permissions", FilePermissionsCheck(path))
	}
}
