// Package session is the line-oriented shell that drives core/storage
// through every operation in the closet's public API. It stands in for
// a real UI (a terminal app, a GUI) without being one: command syntax
// here is an implementation choice, not a specified interface.
package session

import (
	"context"
	"encoding/csv"
	"io"
	"time"

	"github.com/Canop/safecloset/config"
	"github.com/Canop/safecloset/core"
	"github.com/Canop/safecloset/internal/diagnostics"
	"github.com/Canop/safecloset/internal/logger"
	"github.com/Canop/safecloset/internal/metrics"
	"github.com/Canop/safecloset/storage"
)

// Session wraps one OpenCloset plus the bookkeeping needed to persist
// it correctly: a fresh file must be written with storage.SaveAtomic
// once, every later save goes through storage.Save's rename-to-.old
// path.
type Session struct {
	oc        *core.OpenCloset
	cfg       *config.Config
	log       logger.Logger
	everSaved bool
}

// Open loads or creates the closet file named by cfg.Closet.Path.
func Open(cfg *config.Config, log logger.Logger) (*Session, error) {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	root, justCreated, err := storage.OpenOrCreate(cfg.Closet.Path)
	if err != nil {
		log.Error("failed to open closet file", logger.String("path", cfg.Closet.Path), logger.Error(err))
		return nil, err
	}
	oc := core.NewOpenCloset(cfg.Closet.Path, root, justCreated)
	log.Info("closet opened",
		logger.String("path", cfg.Closet.Path),
		logger.Bool("created", justCreated),
	)
	return &Session{oc: oc, cfg: cfg, log: log, everSaved: !justCreated}, nil
}

// JustCreated reports whether the backing file was freshly generated.
func (s *Session) JustCreated() bool {
	return s.oc.JustCreated()
}

// Depth is the number of drawers currently open.
func (s *Session) Depth() int {
	return s.oc.Depth()
}

// timeDerivation measures one whole core call, which may derive many
// keys, and records its duration in the key-derivation histogram. Only
// CreateDrawer and OpenDrawer go through it.
func timeDerivation(f func() error) error {
	start := time.Now()
	err := f()
	metrics.RecordKeyDerivation(time.Since(start))
	return err
}

// CreateDrawer creates a drawer in the deepest currently open closet.
func (s *Session) CreateDrawer(passphrase string) (*core.OpenDrawer, error) {
	var open *core.OpenDrawer
	err := timeDerivation(func() error {
		var innerErr error
		open, innerErr = s.oc.CreateDrawer(passphrase)
		return innerErr
	})
	if err != nil {
		s.log.Warn("create drawer failed", logger.Error(err))
		return nil, err
	}
	metrics.DrawersCreatedTotal.Inc()
	s.log.Info("drawer created", logger.Int("depth", open.Depth))
	return open, nil
}

// OpenDrawer tries passphrase against the currently reachable closets,
// deepest first (spec §4.6).
func (s *Session) OpenDrawer(passphrase string) (*core.OpenDrawer, error) {
	var open *core.OpenDrawer
	err := timeDerivation(func() error {
		var innerErr error
		open, innerErr = s.oc.OpenDrawer(passphrase)
		return innerErr
	})
	if err != nil {
		s.log.Error("open drawer errored", logger.Error(err))
		return nil, err
	}
	if open == nil {
		metrics.AuthFailuresTotal.Inc()
		s.log.Debug("passphrase did not open any drawer")
		return nil, nil
	}
	metrics.DrawersOpenedTotal.Inc()
	s.log.Info("drawer opened", logger.Int("depth", open.Depth))
	return open, nil
}

// CloseDeepestDrawer seals and pops the deepest open drawer.
func (s *Session) CloseDeepestDrawer() error {
	if err := s.oc.CloseDeepestDrawer(); err != nil {
		return err
	}
	s.log.Debug("drawer closed", logger.Int("depth", s.oc.Depth()))
	return nil
}

// ChangePassword replaces the deepest open drawer's passphrase.
func (s *Session) ChangePassword(open *core.OpenDrawer, newPassphrase string) error {
	if err := s.oc.ChangePassword(open, newPassphrase); err != nil {
		s.log.Warn("change password failed", logger.Error(err))
		return err
	}
	s.log.Info("password changed")
	return nil
}

// DeleteDrawer removes the deepest open drawer without resealing it.
func (s *Session) DeleteDrawer(open *core.OpenDrawer) error {
	if err := s.oc.DeleteDrawer(open); err != nil {
		s.log.Warn("delete drawer failed", logger.Error(err))
		return err
	}
	s.log.Info("drawer deleted")
	return nil
}

// SaveAndKeepOpen persists the current state without closing anything,
// via save_then_reopen (spec §4.6).
func (s *Session) SaveAndKeepOpen() error {
	err := s.oc.SaveThenReopen(s.persist)
	metrics.RecordSave(err)
	if err != nil {
		s.log.Error("save_then_reopen failed", logger.Error(err))
		return err
	}
	s.log.Info("closet saved", logger.Int("depth", s.oc.Depth()))
	return nil
}

// CloseAndSave closes every open drawer then persists the root closet.
func (s *Session) CloseAndSave() error {
	err := s.oc.CloseAndSave(s.persist)
	metrics.RecordSave(err)
	if err != nil {
		s.log.Error("close_and_save failed", logger.Error(err))
		return err
	}
	s.log.Info("closet saved and closed")
	return nil
}

// persist is the storage-layer hook core.OpenCloset calls back into. It
// picks SaveAtomic for the very first save of a freshly created file
// (spec §4.5.6 step 2 demands FileExists on any pre-existing file at
// that step) and the backup-then-write Save for every save after.
func (s *Session) persist(root *core.Closet) error {
	if !s.everSaved {
		if err := storage.SaveAtomicLocked(s.oc.Path, root); err != nil {
			return err
		}
		s.everSaved = true
		return nil
	}
	return storage.SaveLocked(s.oc.Path, root)
}

// ExportCSV writes open's entries as "name,value" rows, matching
// original_source's csv column layout. Import is explicitly out of
// scope.
func (s *Session) ExportCSV(w io.Writer, open *core.OpenDrawer) error {
	cw := csv.NewWriter(w)
	for _, e := range open.Entries {
		if e.IsEmpty() {
			continue
		}
		if err := cw.Write([]string{e.Name, e.Value}); err != nil {
			return core.WrapIO("writing csv row", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Diagnose runs the configured diagnostics checks against the closet
// file without opening any drawer in it.
func (s *Session) Diagnose(ctx context.Context) *diagnostics.Report {
	checker := diagnostics.NewChecker(5 * time.Second)
	checker.SetLogger(s.log)
	diagnostics.RegisterDefaultChecks(checker, s.oc.Path, s.cfg.Closet.BackupSuffix, s.cfg.Diagnostics.Checks)
	return checker.Diagnose(ctx)
}
