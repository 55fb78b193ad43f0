package sealbox

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// Compatibility contract with every blob already published. These are constants,
// not options: a blob sealed under one set of values can only ever be opened
// under the same set.
const (
	// Iterations is the PBKDF2 iteration count. Deliberately expensive.
	Iterations = 100_000
	// KeySize is the derived AES key length in bytes (AES-256).
	KeySize = 256 / 8
	// NonceSize is the GCM nonce length prefixed to every blob.
	NonceSize = 12
	// TagSize is the GCM authentication tag length appended to every blob.
	TagSize = 16
)

// Key is AES-256 key material derived for a single seal or open operation.
// It is bound to one identity pair and must not be logged or persisted.
type Key []byte

// DeriveKey stretches an identity pair into a Key using PBKDF2-HMAC-SHA256
// with the id as the password and the index as the salt. The role assignment
// is part of the published contract; swapping the two derives a different,
// useless key.
func DeriveKey(id, index string) Key {
	return Key(pbkdf2.Key([]byte(id), []byte(index), Iterations, KeySize, sha256.New))
}
