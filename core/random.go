package core

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// passwordCharset is the fixed alphabet random passphrases and salts are
// drawn from (spec §4.1). Order matters only for readability.
const passwordCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz" +
	"0123456789" +
	")(*&^%$#@!~._[]{}/;:?%,=-+'"

// nonceSize is the AEAD nonce length used throughout (96 bits, spec §4.2).
const nonceSize = 12

// RandomBytes returns n cryptographically random bytes.
func RandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, wrapErr(KindInternal, "reading random bytes", err)
	}
	return buf, nil
}

// RandomBytesRandomSize returns a random number of random bytes, with the
// count drawn uniformly from [min, max).
func RandomBytesRandomSize(min, max int) ([]byte, error) {
	if max <= min {
		return nil, newErr(KindInternal, "invalid random size range")
	}
	n, err := randomInt(max - min)
	if err != nil {
		return nil, err
	}
	return RandomBytes(min + n)
}

// RandomNonce returns a fresh 96-bit AEAD nonce.
func RandomNonce() ([]byte, error) {
	return RandomBytes(nonceSize)
}

// RandomPassword returns a random string of 30-80 characters drawn from
// passwordCharset, suitable as a closet salt or a decoy drawer's
// passphrase.
func RandomPassword() (string, error) {
	n, err := randomInt(80 - 30)
	if err != nil {
		return "", err
	}
	length := 30 + n
	out := make([]byte, length)
	for i := range out {
		idx, err := randomInt(len(passwordCharset))
		if err != nil {
			return "", err
		}
		out[i] = passwordCharset[idx]
	}
	return string(out), nil
}

// randomInt returns a cryptographically random integer in [0, n).
func randomInt(n int) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, wrapErr(KindInternal, fmt.Sprintf("drawing random int in [0,%d)", n), err)
	}
	return int(v.Int64()), nil
}

// randomChance reports true with probability p (0 <= p <= 1), using the
// crypto RNG so decoy-count decisions aren't predictable from a seeded PRNG.
func randomChance(p float64) (bool, error) {
	const granularity = 1_000_000
	n, err := randomInt(granularity)
	if err != nil {
		return false, err
	}
	return float64(n) < p*granularity, nil
}
