package core

// ClosedDrawer is the encrypted form of a drawer, as carried in a
// Closet's drawer list (spec §3/§6). It is the only representation that
// ever reaches disk for a drawer's content.
type ClosedDrawer struct {
	Nonce   []byte `msgpack:"nonce"`
	Content []byte `msgpack:"content"`
}

// sealDrawer seals open under its own password and the enclosing
// closet's salt, producing a fresh ClosedDrawer with a brand new nonce
// and garbage padding (spec §4.3 "Seal", invariant I2).
func sealDrawer(open *OpenDrawer, enclosingSalt string) (*ClosedDrawer, error) {
	aead, err := DeriveCipher(open.Password, enclosingSalt)
	if err != nil {
		return nil, err
	}
	ser, err := newSerDrawer(open, enclosingSalt)
	if err != nil {
		return nil, err
	}
	plaintext, err := encodeNamed(ser)
	if err != nil {
		return nil, err
	}
	nonce, err := RandomNonce()
	if err != nil {
		return nil, err
	}
	ciphertext := aead.Seal(nil, nonce, plaintext, nil)
	return &ClosedDrawer{Nonce: nonce, Content: ciphertext}, nil
}

// openClosedDrawer attempts to decrypt closed with candidatePassword
// under enclosingSalt (spec §4.3 "Open"). Any authentication, decode, or
// check-id failure is reported as KindAeadOrNoMatch/KindInvalidCheckID:
// the caller (Closet.OpenDrawer) treats both identically as "try the
// next slot" and must never surface them as real errors (invariant I4).
func openClosedDrawer(closed *ClosedDrawer, candidatePassword, enclosingSalt string, depth, drawerIndex int) (*OpenDrawer, error) {
	aead, err := DeriveCipher(candidatePassword, enclosingSalt)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, closed.Nonce, closed.Content, nil)
	if err != nil {
		return nil, newErr(KindAeadOrNoMatch, "authentication failed")
	}
	var ser SerDrawer
	if err := decodeNamed(plaintext, &ser); err != nil {
		return nil, newErr(KindAeadOrNoMatch, "plaintext did not decode as a drawer")
	}
	if ser.CheckID != enclosingSalt {
		return nil, newErr(KindInvalidCheckID, "check id does not match enclosing closet salt")
	}
	return ser.toOpenDrawer(depth, candidatePassword, drawerIndex), nil
}
