package core

// OpenDrawer is a decrypted drawer: its entries, its display settings,
// and the nested closet it owns, plus enough bookkeeping to re-seal it
// on close (spec §3, "OpenDrawer (in memory only)").
//
// Password is retained only so the drawer can be re-encrypted on close
// or save; it is never serialized (invariant I6).
type OpenDrawer struct {
	ID            DrawerID
	Depth         int
	Password      string
	Entries       []Entry
	Settings      DrawerSettings
	ContentCloset *Closet

	// drawerIndex is the slot in the enclosing closet's Drawers this
	// drawer was taken from. A Closet never has more than one drawer
	// open at a time, so the index stays valid until this drawer is
	// closed (spec §9 strategy (b)).
	drawerIndex int
}

// GetID implements Identified.
func (d *OpenDrawer) GetID() DrawerID {
	return d.ID
}

// EmptyEntry returns the index of the first empty entry, appending a new
// empty one if none exists, mirroring the reference UI's "always have a
// blank row to type into" behavior.
func (d *OpenDrawer) EmptyEntry() int {
	for i, e := range d.Entries {
		if e.IsEmpty() {
			return i
		}
	}
	d.Entries = append(d.Entries, Entry{})
	return len(d.Entries) - 1
}

// Zero drops the drawer's sensitive in-memory content so it becomes
// unreachable and eligible for garbage collection (spec §5, "Sensitive
// data"). Go strings are immutable, so this can't overwrite their
// backing bytes in place the way a Vec<u8> zeroize would; dropping the
// references is the best effort available without resorting to unsafe,
// which matches the spec's "SHOULD", not "MUST", framing.
func (d *OpenDrawer) Zero() {
	d.Password = ""
	d.Entries = nil
}
