package core

import (
	"crypto/cipher"

	siv "github.com/secure-io/siv-go"
	"golang.org/x/crypto/argon2"
)

// Argon2 and AEAD parameters are fixed and form part of the on-disk
// format (spec §4.2/§6 and DESIGN.md "Open Question decisions" — the
// original Rust implementation hands the argon2 crate's Config::default()
// plus hash_length=32 to argon2::hash_raw and never stores the
// parameters; Go's argon2 package has no implicit default object, so
// these constants pin the equivalent working set/time/parallelism and
// must never change without bumping the file format).
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // KiB
	argon2Threads = 4
	keyLength     = 32 // AES-256
)

// DeriveCipher derives the AEAD cipher for a (passphrase, salt) pair
// (C2). The salt is always the enclosing closet's salt, carried as
// UTF-8 text per spec §4.2. passphrase may be empty: rejecting short or
// empty passphrases is the create/change-password paths' job
// (Closet.CreateDrawer, OpenCloset.ChangePassword) so that trying one
// against open_drawer stays a silent miss like any other wrong
// passphrase (invariant I4).
func DeriveCipher(passphrase, salt string) (cipher.AEAD, error) {
	key := argon2.IDKey([]byte(passphrase), []byte(salt), argon2Time, argon2Memory, argon2Threads, keyLength)
	aead, err := siv.NewGCM(key)
	if err != nil {
		return nil, wrapErr(KindKeyDerivation, "building AES-256-GCM-SIV cipher", err)
	}
	return aead, nil
}
