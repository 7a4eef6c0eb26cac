package core

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Garbage padding bounds: every SerDrawer carries a random byte string in
// this range so ciphertext size doesn't leak whether a drawer is empty,
// full, a decoy, or real (spec §3/§6, property P7).
const (
	GarbageMinSize = 10_000
	GarbageMaxSize = 30_000
)

// SerDrawer is the plaintext payload of a ClosedDrawer, as decrypted or
// about to be encrypted (spec §3/§6). It only exists transiently, during
// sealing and opening.
type SerDrawer struct {
	// CheckID binds this drawer to the closet it was sealed in: it must
	// equal the enclosing closet's salt (spec §4.3, invariant I5).
	CheckID  string         `msgpack:"check_id"`
	Entries  []Entry        `msgpack:"entries"`
	Settings DrawerSettings `msgpack:"settings"`
	Closet   Closet         `msgpack:"content_closet"`
	Garbage  []byte         `msgpack:"garbage"`
	// ID identifies the drawer's content independent of its ciphertext
	// or slot position, carried across re-seals (spec §9 strategy (a)).
	// It is not used for slot matching here (see Closet.CloseDrawer) and
	// is kept only as a content-level identity.
	ID DrawerID `msgpack:"id"`
}

// newSerDrawer builds the SerDrawer for sealing open, binding it to
// checkID and drawing fresh garbage padding.
func newSerDrawer(open *OpenDrawer, checkID string) (*SerDrawer, error) {
	garbage, err := RandomBytesRandomSize(GarbageMinSize, GarbageMaxSize)
	if err != nil {
		return nil, err
	}
	return &SerDrawer{
		CheckID:  checkID,
		Entries:  open.Entries,
		Settings: open.Settings,
		Closet:   *open.ContentCloset,
		Garbage:  garbage,
		ID:       open.ID,
	}, nil
}

// toOpenDrawer reconstructs the in-memory OpenDrawer from a decrypted
// SerDrawer plus the context only the caller (Closet.OpenDrawer) knows:
// the depth, the candidate password that worked, and the index of the
// slot it came from.
func (sd *SerDrawer) toOpenDrawer(depth int, password string, drawerIndex int) *OpenDrawer {
	content := sd.Closet
	return &OpenDrawer{
		ID:            sd.ID,
		Depth:         depth,
		Password:      password,
		Entries:       sd.Entries,
		Settings:      sd.Settings,
		ContentCloset: &content,
		drawerIndex:   drawerIndex,
	}
}

// EncodeMsgpack/DecodeMsgpack keep DrawerID's wire form compact (a
// msgpack binary blob) instead of the default fixed-array-of-ints
// encoding reflection would otherwise pick for a [16]byte.
func (id DrawerID) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeBytes(id[:])
}

func (id *DrawerID) DecodeMsgpack(dec *msgpack.Decoder) error {
	b, err := dec.DecodeBytes()
	if err != nil {
		return err
	}
	if len(b) != len(id) {
		return fmt.Errorf("invalid drawer id length %d", len(b))
	}
	copy(id[:], b)
	return nil
}
