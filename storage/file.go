// Package storage persists a core.Closet to disk using SafeCloset's
// self-describing binary format, with the single-level ".old" backup
// discipline described in the spec (C7).
package storage

import (
	"os"

	"github.com/Canop/safecloset/core"
	"github.com/vmihailenco/msgpack/v5"
)

// fileMode matches the teacher's secure_storage.go choice of
// owner-only permissions for anything holding secrets.
const fileMode = 0o600

// Load decodes the closet stored at path. A missing file is reported as
// a plain *os.PathError (via errors.Is(err, os.ErrNotExist)) so callers
// like OpenOrCreate can tell "absent" apart from "corrupt".
func Load(path string) (*core.Closet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c core.Closet
	if err := msgpack.Unmarshal(data, &c); err != nil {
		return nil, core.WrapDecode("decoding closet file", err)
	}
	return &c, nil
}

// Save writes c to path atomically: any existing file at path is first
// renamed to path+".old" (replacing a previous backup), then the new
// content is written to a fresh file at path. If encoding or the final
// write fails after the rename, the backup still holds the last good
// state — save never deletes data it cannot prove is superseded.
//
// The write itself is not staged: a crash mid-write can leave a partial
// file at path, with the previous version still intact in path+".old".
func Save(path string, c *core.Closet) error {
	data, err := msgpack.Marshal(c)
	if err != nil {
		return core.WrapEncode("encoding closet file", err)
	}
	if _, err := os.Stat(path); err == nil {
		oldPath := path + ".old"
		os.Remove(oldPath)
		if err := os.Rename(path, oldPath); err != nil {
			return core.WrapIO("backing up previous closet file", err)
		}
	} else if !os.IsNotExist(err) {
		return core.WrapIO("checking for existing closet file", err)
	}
	if _, err := os.Stat(path); err == nil {
		return core.NewFileExists("closet file already exists after backup step")
	}
	if err := os.WriteFile(path, data, fileMode); err != nil {
		return core.WrapIO("writing closet file", err)
	}
	return nil
}

// SaveAtomic is the create-new-file variant used for the first save of a
// closet that OpenOrCreate just generated: it fails with FileExists if
// anything is already at path, rather than silently overwriting it.
func SaveAtomic(path string, c *core.Closet) error {
	data, err := msgpack.Marshal(c)
	if err != nil {
		return core.WrapEncode("encoding closet file", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fileMode)
	if err != nil {
		if os.IsExist(err) {
			return core.NewFileExists("a file already exists at this path")
		}
		return core.WrapIO("creating closet file", err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return core.WrapIO("writing closet file", err)
	}
	return nil
}

// OpenOrCreate implements spec §4.6 open_or_create: parse the file at
// path if it exists, otherwise generate a brand new root closet and
// report that it was just created so the caller can pick the right
// greeting and the right save path (SaveAtomic vs Save).
func OpenOrCreate(path string) (closet *core.Closet, justCreated bool, err error) {
	c, err := Load(path)
	if err == nil {
		return c, false, nil
	}
	if !os.IsNotExist(err) {
		return nil, false, err
	}
	c, err = core.NewCloset(0)
	if err != nil {
		return nil, false, err
	}
	return c, true, nil
}
