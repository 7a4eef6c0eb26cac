package storage

import (
	"github.com/Canop/safecloset/core"
	"github.com/gofrs/flock"
)

// Lock is an advisory, cooperative lock held for the duration of a
// save sequence, so two safecloset processes pointed at the same file
// can't interleave their rename-then-write steps (spec §5, single
// writer at a time).
type Lock struct {
	fl *flock.Flock
}

// AcquireLock blocks-free tries to take an exclusive lock on path+".lock".
// A sibling lock file is used, rather than locking path itself, so the
// lock survives the rename-to-.old step in Save.
func AcquireLock(path string) (*Lock, error) {
	fl := flock.New(path + ".lock")
	ok, err := fl.TryLock()
	if err != nil {
		return nil, core.WrapIO("acquiring closet file lock", err)
	}
	if !ok {
		return nil, core.WrapIO("closet file is locked by another process", nil)
	}
	return &Lock{fl: fl}, nil
}

// Release gives up the lock. Safe to call on a nil *Lock.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	return l.fl.Unlock()
}

// SaveLocked wraps Save with AcquireLock/Release around the whole
// rename-then-write sequence.
func SaveLocked(path string, c *core.Closet) error {
	lock, err := AcquireLock(path)
	if err != nil {
		return err
	}
	defer lock.Release()
	return Save(path, c)
}

// SaveAtomicLocked wraps SaveAtomic the same way, for first-time saves.
func SaveAtomicLocked(path string, c *core.Closet) error {
	lock, err := AcquireLock(path)
	if err != nil {
		return err
	}
	defer lock.Release()
	return SaveAtomic(path, c)
}
