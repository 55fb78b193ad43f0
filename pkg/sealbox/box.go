package sealbox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrMalformedBlob reports a blob too short to contain a nonce.
	ErrMalformedBlob = errors.New("malformed blob")
	// ErrAuthentication reports a failed tag check. Wrong identity and
	// tampered data surface identically as this error.
	ErrAuthentication = errors.New("authentication failed")
	// ErrEncoding reports authenticated plaintext that is not valid UTF-8.
	ErrEncoding = errors.New("plaintext is not valid UTF-8")
)

// Seal encrypts plaintext under key and returns the published blob layout:
// a fresh random nonce, then the ciphertext with the GCM tag appended.
func Seal(key Key, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open authenticates and decrypts a published blob with key.
// Blobs shorter than a nonce fail with ErrMalformedBlob before any cipher
// work. Everything after the nonce, tag included, goes to the AEAD open; a
// tag mismatch fails with ErrAuthentication and no plaintext.
func Open(key Key, blob []byte) ([]byte, error) {
	if len(blob) < NonceSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than a nonce", ErrMalformedBlob, len(blob))
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce, ciphertext := blob[:NonceSize], blob[NonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plaintext, nil
}

// OpenText opens a blob and returns its plaintext as a string, failing with
// ErrEncoding if the authenticated bytes are not valid UTF-8. Correctly
// published content is always UTF-8, but the case is still checked rather
// than assumed.
func OpenText(key Key, blob []byte) (string, error) {
	plaintext, err := Open(key, blob)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(plaintext) {
		return "", ErrEncoding
	}
	return string(plaintext), nil
}

func newGCM(key Key) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
