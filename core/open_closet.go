package core

// OpenCloset tracks a file's root closet together with the stack of
// drawers currently open along the path from the root down (spec §4.6).
// At most one drawer can be open per closet, so the stack has at most
// one entry per depth: openDrawers[i] is the drawer open within the
// closet at depth i, and it owns the closet at depth i+1.
type OpenCloset struct {
	Path        string
	root        *Closet
	openDrawers []*OpenDrawer
	created     bool
}

// NewOpenCloset wraps an already-loaded (or freshly generated) root
// closet. created records whether root was just generated because path
// didn't exist yet, so callers can greet the user accordingly.
func NewOpenCloset(path string, root *Closet, created bool) *OpenCloset {
	return &OpenCloset{Path: path, root: root, created: created}
}

// JustCreated reports whether the backing file did not exist and a new,
// empty closet was generated for it.
func (oc *OpenCloset) JustCreated() bool {
	return oc.created
}

// Root is the depth-0 closet, the one that gets serialized to disk.
func (oc *OpenCloset) Root() *Closet {
	return oc.root
}

// Depth is the number of drawers currently open, i.e. the depth at
// which a new drawer would be created or opened.
func (oc *OpenCloset) Depth() int {
	return len(oc.openDrawers)
}

// DeepestOpenDrawer returns the drawer currently being worked on, or nil
// if nothing is open.
func (oc *OpenCloset) DeepestOpenDrawer() *OpenDrawer {
	if oc.Depth() == 0 {
		return nil
	}
	return oc.openDrawers[oc.Depth()-1]
}

// closetAt returns the closet in which a drawer would be created or
// opened at depth: the root for depth 0, otherwise the content closet
// owned by the drawer open one level up.
func (oc *OpenCloset) closetAt(depth int) *Closet {
	if depth == 0 {
		return oc.root
	}
	return oc.openDrawers[depth-1].ContentCloset
}

// CreateDrawer creates a new drawer in the deepest currently open
// closet (spec §4.5.2) and pushes it onto the open stack.
func (oc *OpenCloset) CreateDrawer(password string) (*OpenDrawer, error) {
	depth := oc.Depth()
	open, err := oc.closetAt(depth).CreateDrawer(depth, password)
	if err != nil {
		return nil, err
	}
	oc.openDrawers = append(oc.openDrawers, open)
	return open, nil
}

// OpenDrawer tries password against the deepest open closet first; on a
// miss it pops one drawer — sealing it back into its parent, which also
// reshuffles that parent's slots (spec §4.5.4) — and retries at the
// now-shallower level, walking up toward the root (spec §4.6). The first
// match wins. Closing a level before searching its parent, rather than
// after, matters: a parent's shuffle on reseal invalidates any
// drawerIndex captured from it earlier, so the match at a given level
// must only be looked up once that level's own deeper drawer (if any)
// has already been sealed back. Returns (nil, nil), not an error, if no
// closet along the path has a drawer for password.
func (oc *OpenCloset) OpenDrawer(password string) (*OpenDrawer, error) {
	for {
		depth := oc.Depth()
		open, err := oc.closetAt(depth).OpenDrawer(depth, password)
		if err != nil {
			return nil, err
		}
		if open != nil {
			oc.openDrawers = append(oc.openDrawers, open)
			return open, nil
		}
		if depth == 0 {
			return nil, nil
		}
		if err := oc.CloseDeepestDrawer(); err != nil {
			return nil, err
		}
	}
}

// PushBack seals open back into the closet it was taken from and pops it
// off the open stack. open must be the deepest open drawer: a drawer
// with something open beneath it can't be sealed without first closing
// that deeper drawer.
func (oc *OpenCloset) PushBack(open *OpenDrawer) error {
	depth := oc.Depth()
	if depth == 0 || oc.openDrawers[depth-1] != open {
		return newErr(KindInvalidPushBack, "only the deepest open drawer can be closed")
	}
	if err := oc.closetAt(depth - 1).CloseDrawer(open); err != nil {
		return err
	}
	oc.openDrawers = oc.openDrawers[:depth-1]
	return nil
}

// CloseDeepestDrawer seals and pops whichever drawer is currently
// deepest, or reports KindNoOpenDrawer if nothing is open.
func (oc *OpenCloset) CloseDeepestDrawer() error {
	depth := oc.Depth()
	if depth == 0 {
		return newErr(KindNoOpenDrawer, "no drawer is open")
	}
	return oc.PushBack(oc.openDrawers[depth-1])
}

// CloseAll seals every open drawer, deepest first, leaving Root ready to
// be persisted.
func (oc *OpenCloset) CloseAll() error {
	for oc.Depth() > 0 {
		if err := oc.CloseDeepestDrawer(); err != nil {
			return err
		}
	}
	return nil
}

// CloseAndSave closes every open drawer and hands the now fully sealed
// root closet to persist, typically storage.Save (spec §4.6
// close_and_save). Kept storage-agnostic so core never imports storage.
func (oc *OpenCloset) CloseAndSave(persist func(*Closet) error) error {
	if err := oc.CloseAll(); err != nil {
		return err
	}
	return persist(oc.root)
}

// SaveThenReopen persists the current state like CloseAndSave, then
// reopens every level along the original passphrase path, so each
// drawer on the path ends up with a fresh nonce and garbage padding even
// when its content didn't change (spec §4.6 save_then_reopen). A reopen
// failure after a successful save is an internal-consistency violation:
// the passwords just worked a moment ago.
func (oc *OpenCloset) SaveThenReopen(persist func(*Closet) error) error {
	passwords := make([]string, oc.Depth())
	for i, d := range oc.openDrawers {
		passwords[i] = d.Password
	}
	if err := oc.CloseAndSave(persist); err != nil {
		return err
	}
	for _, password := range passwords {
		open, err := oc.OpenDrawer(password)
		if err != nil {
			return err
		}
		if open == nil {
			return newErr(KindInternal, "drawer vanished on reopen after save")
		}
	}
	return nil
}

// ChangePassword replaces open's password, provided open is the deepest
// open drawer and no other drawer in its enclosing closet already uses
// newPassword (invariant I1). The reseal that makes the change durable
// happens on the next PushBack/CloseAll, same as any other edit.
func (oc *OpenCloset) ChangePassword(open *OpenDrawer, newPassword string) error {
	depth := oc.Depth()
	if depth == 0 || oc.openDrawers[depth-1] != open {
		return newErr(KindOperationOnlyAtMaxDepth, "password can only be changed on the deepest open drawer")
	}
	if len(newPassword) < MinPasswordLength {
		return newErr(KindPasswordTooShort, "passphrase shorter than minimum length")
	}
	closet := oc.closetAt(depth - 1)
	for i, closed := range closet.Drawers {
		if i == open.drawerIndex {
			continue
		}
		_, err := openClosedDrawer(closed, newPassword, closet.Salt, open.Depth, i)
		if err == nil {
			return newErr(KindPasswordAlreadyUsed, "a drawer in this closet already uses this passphrase")
		}
		if !IsKind(err, KindAeadOrNoMatch) && !IsKind(err, KindInvalidCheckID) {
			return err
		}
	}
	open.Password = newPassword
	return nil
}

// DeleteDrawer removes open from its enclosing closet without resealing
// it, provided it is the deepest open drawer.
func (oc *OpenCloset) DeleteDrawer(open *OpenDrawer) error {
	depth := oc.Depth()
	if depth == 0 || oc.openDrawers[depth-1] != open {
		return newErr(KindOperationOnlyAtMaxDepth, "a drawer can only be deleted while it is the deepest open drawer")
	}
	if err := oc.closetAt(depth - 1).DeleteDrawer(open); err != nil {
		return err
	}
	oc.openDrawers = oc.openDrawers[:depth-1]
	return nil
}
