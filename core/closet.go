package core

// MinPasswordLength is the only requirement SafeCloset imposes on a
// passphrase: deliberately low, with no complexity rules (spec §4.5.2).
const MinPasswordLength = 2

// defaultComments is the clear-text banner a freshly created closet
// carries (spec §4.5.1).
const defaultComments = "This is a SafeCloset file. More about SafeCloset at https://github.com/Canop/safecloset"

// decoyBonusChance is the probability, checked repeatedly, of adding one
// more decoy drawer beyond a depth's base range (spec §4.5.1). The loop
// runs at every depth, including depths whose base range is zero, so
// decoys can appear arbitrarily deep (spec §9, "do not optimize it away").
const decoyBonusChance = 0.2

// Closet is the sole on-disk container shape (spec §3): a salt, a
// free-text comment, and an ordered list of opaque encrypted drawers.
// The list order carries no semantics and is reshuffled on every close.
type Closet struct {
	Comments string          `msgpack:"comments"`
	Salt     string          `msgpack:"salt"`
	Drawers  []*ClosedDrawer `msgpack:"drawers"`
}

// NewCloset builds an empty closet at the given depth, seeded with a
// random salt and a depth-dependent number of decoy drawers, each under
// a throwaway passphrase that is discarded immediately (spec §4.5.1).
func NewCloset(depth int) (*Closet, error) {
	salt, err := RandomPassword()
	if err != nil {
		return nil, err
	}
	c := &Closet{
		Comments: defaultComments,
		Salt:     salt,
		Drawers:  nil,
	}
	n, err := decoyCount(depth)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		password, err := RandomPassword()
		if err != nil {
			return nil, err
		}
		if err := c.createDrawerUnchecked(depth, password); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// decoyBaseRange returns the [min, max) count of decoys drawn
// unconditionally at depth (spec §4.5.1 table).
func decoyBaseRange(depth int) (int, int) {
	switch depth {
	case 0:
		return 3, 6
	case 1:
		return 1, 3
	case 2:
		return 0, 2
	default:
		return 0, 0
	}
}

// decoyCount draws the total decoy count for depth: the base range plus
// the depth-independent bonus loop.
func decoyCount(depth int) (int, error) {
	min, max := decoyBaseRange(depth)
	n := min
	if max > min {
		extra, err := randomInt(max - min)
		if err != nil {
			return 0, err
		}
		n += extra
	}
	for {
		bonus, err := randomChance(decoyBonusChance)
		if err != nil {
			return 0, err
		}
		if !bonus {
			break
		}
		n++
	}
	return n, nil
}

// createDrawerUnchecked seals a fresh, empty drawer under password
// without checking password uniqueness or length. Used only to generate
// decoys, whose passwords are thrown away right after.
func (c *Closet) createDrawerUnchecked(depth int, password string) error {
	id, err := NewDrawerID()
	if err != nil {
		return err
	}
	content, err := NewCloset(depth + 1)
	if err != nil {
		return err
	}
	open := &OpenDrawer{
		ID:            id,
		Depth:         depth,
		Password:      password,
		Entries:       nil,
		Settings:      DrawerSettings{},
		ContentCloset: content,
	}
	closed, err := sealDrawer(open, c.Salt)
	if err != nil {
		return err
	}
	c.Drawers = append(c.Drawers, closed)
	return nil
}

// IsPasswordTaken reports whether password already opens a drawer in
// this closet (invariant I1). depth is only used to build the resulting
// OpenDrawer, which is discarded here.
func (c *Closet) IsPasswordTaken(depth int, password string) (bool, error) {
	for i, closed := range c.Drawers {
		_, err := openClosedDrawer(closed, password, c.Salt, depth, i)
		if err == nil {
			return true, nil
		}
		if IsKind(err, KindAeadOrNoMatch) || IsKind(err, KindInvalidCheckID) {
			continue
		}
		return false, err
	}
	return false, nil
}

// CreateDrawer creates a new, empty drawer under password and appends it
// to the closet, returning it open (spec §4.5.2).
func (c *Closet) CreateDrawer(depth int, password string) (*OpenDrawer, error) {
	if len(password) < MinPasswordLength {
		return nil, newErr(KindPasswordTooShort, "passphrase shorter than minimum length")
	}
	taken, err := c.IsPasswordTaken(depth, password)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, newErr(KindPasswordAlreadyUsed, "a drawer in this closet already uses this passphrase")
	}
	id, err := NewDrawerID()
	if err != nil {
		return nil, err
	}
	content, err := NewCloset(depth + 1)
	if err != nil {
		return nil, err
	}
	open := &OpenDrawer{
		ID:            id,
		Depth:         depth,
		Password:      password,
		Entries:       nil,
		Settings:      DrawerSettings{},
		ContentCloset: content,
		drawerIndex:   len(c.Drawers),
	}
	closed, err := sealDrawer(open, c.Salt)
	if err != nil {
		return nil, err
	}
	c.Drawers = append(c.Drawers, closed)
	return open, nil
}

// OpenDrawer tries password against every drawer in the closet, in
// current list order, and returns the first one that opens. It returns
// (nil, nil) — not an error — when no drawer opens, so a wrong
// passphrase is indistinguishable from "no such drawer" (invariant I4,
// property P8).
func (c *Closet) OpenDrawer(depth int, password string) (*OpenDrawer, error) {
	for i, closed := range c.Drawers {
		open, err := openClosedDrawer(closed, password, c.Salt, depth, i)
		if err == nil {
			return open, nil
		}
		if IsKind(err, KindAeadOrNoMatch) || IsKind(err, KindInvalidCheckID) {
			continue
		}
		return nil, err
	}
	return nil, nil
}

// CloseDrawer seals open and replaces the slot it was taken from, then
// shuffles the drawer list (spec §4.5.4, invariant I3).
func (c *Closet) CloseDrawer(open *OpenDrawer) error {
	if open.drawerIndex < 0 || open.drawerIndex >= len(c.Drawers) {
		return newErr(KindInvalidPushBack, "drawer does not belong to this closet")
	}
	closed, err := sealDrawer(open, c.Salt)
	if err != nil {
		return err
	}
	c.Drawers[open.drawerIndex] = closed
	c.shuffleDrawers()
	return nil
}

// DeleteDrawer removes the slot open was taken from, without resealing
// it (spec §4.6 delete_drawer).
func (c *Closet) DeleteDrawer(open *OpenDrawer) error {
	if open.drawerIndex < 0 || open.drawerIndex >= len(c.Drawers) {
		return newErr(KindInvalidDelete, "drawer does not belong to this closet")
	}
	c.Drawers = append(c.Drawers[:open.drawerIndex], c.Drawers[open.drawerIndex+1:]...)
	return nil
}

// shuffleDrawers uniformly permutes the drawer list (spec §4.5.5). It is
// invoked on every close so the slot a drawer occupies carries no
// information across saves.
func (c *Closet) shuffleDrawers() {
	for i := len(c.Drawers) - 1; i > 0; i-- {
		j, err := randomInt(i + 1)
		if err != nil {
			// Fall back to leaving the remaining prefix in place rather
			// than panicking: a failed shuffle only weakens the
			// indistinguishability property, it doesn't corrupt data.
			return
		}
		c.Drawers[i], c.Drawers[j] = c.Drawers[j], c.Drawers[i]
	}
}
