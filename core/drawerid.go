package core

import "github.com/google/uuid"

// DrawerID is a random 128-bit identifier embedded inside a drawer's
// encrypted payload and carried across re-seals. It is not used to find
// a drawer's slot: Closet.CloseDrawer replaces the slot recorded in
// OpenDrawer.drawerIndex.
type DrawerID [16]byte

// NewDrawerID draws a fresh random id.
func NewDrawerID() (DrawerID, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return DrawerID{}, wrapErr(KindInternal, "generating drawer id", err)
	}
	var out DrawerID
	copy(out[:], id[:])
	return out, nil
}

// Identified is implemented by anything carrying a DrawerID, so two
// drawers can be compared by identity regardless of list order.
type Identified interface {
	GetID() DrawerID
}

// HasSameID reports whether a and b carry the same DrawerID.
func HasSameID(a, b Identified) bool {
	return a.GetID() == b.GetID()
}
