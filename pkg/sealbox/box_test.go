package sealbox

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) Key {
	t.Helper()
	key, err := hex.DecodeString("eef4a3a523adc474b565a6a6d9289177657a4335cf52aa0edfc341ce33499328")
	require.NoError(t, err)
	return Key(key)
}

func TestSealOpenRoundTrip(t *testing.T) {
	key := testKey(t)
	plaintext := []byte("How wonderful life is while you're in the world")

	blob, err := Seal(key, plaintext)
	require.NoError(t, err)
	assert.Len(t, blob, NonceSize+len(plaintext)+TagSize)
	assert.NotEqual(t, plaintext, blob[NonceSize:NonceSize+len(plaintext)])

	got, err := Open(key, blob)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestSealFreshNonces(t *testing.T) {
	key := testKey(t)
	first, err := Seal(key, []byte("same plaintext"))
	require.NoError(t, err)
	second, err := Seal(key, []byte("same plaintext"))
	require.NoError(t, err)
	assert.NotEqual(t, first[:NonceSize], second[:NonceSize])
	assert.NotEqual(t, first, second)
}

func TestOpenKnownBlob(t *testing.T) {
	// Blob produced by an independent AES-256-GCM implementation under the
	// published layout: nonce || ciphertext || tag.
	key := testKey(t)
	blob, err := hex.DecodeString("000102030405060708090a0b959dd81e0bcb4aedcc6f9c721456549cca1442e768cb2bf3b5a3dee73f260fbb56")
	require.NoError(t, err)

	text, err := OpenText(key, blob)
	require.NoError(t, err)
	assert.Equal(t, "plain result text", text)
}

func TestOpenTamperSensitivity(t *testing.T) {
	key := testKey(t)
	blob, err := Seal(key, []byte("short"))
	require.NoError(t, err)

	for i := range blob {
		for bit := 0; bit < 8; bit++ {
			tampered := bytes.Clone(blob)
			tampered[i] ^= 1 << bit
			_, err := Open(key, tampered)
			assert.ErrorIs(t, err, ErrAuthentication, "byte %d bit %d", i, bit)
		}
	}
}

func TestOpenWrongCredentials(t *testing.T) {
	blob, err := Seal(DeriveKey("987654321", "2020123"), []byte("per-identity content"))
	require.NoError(t, err)

	_, err = Open(DeriveKey("987654320", "2020123"), blob)
	assert.ErrorIs(t, err, ErrAuthentication)
	_, err = Open(DeriveKey("987654321", "2020124"), blob)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestOpenShortBlob(t *testing.T) {
	key := testKey(t)
	for length := 0; length < NonceSize; length++ {
		_, err := Open(key, make([]byte, length))
		assert.ErrorIs(t, err, ErrMalformedBlob, "length %d", length)
	}
}

func TestOpenShortBlobSkipsCipher(t *testing.T) {
	// A 5-byte key would make cipher construction fail, so seeing
	// ErrMalformedBlob proves the length check runs first.
	_, err := Open(Key("bogus"), make([]byte, NonceSize-1))
	assert.ErrorIs(t, err, ErrMalformedBlob)
}

func TestOpenNonceOnlyBlob(t *testing.T) {
	// Exactly 12 bytes is not malformed, just unopenable: there is no tag to
	// verify, which reads as an authentication failure.
	key := testKey(t)
	_, err := Open(key, make([]byte, NonceSize))
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestSealOpenEmptyPlaintext(t *testing.T) {
	key := testKey(t)
	blob, err := Seal(key, nil)
	require.NoError(t, err)
	assert.Len(t, blob, NonceSize+TagSize)

	got, err := Open(key, blob)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpenTextInvalidEncoding(t *testing.T) {
	key := testKey(t)
	blob, err := Seal(key, []byte{0xff, 0xfe, 0xfd})
	require.NoError(t, err)

	// The bytes authenticate fine; only the text decoding is rejected.
	raw, err := Open(key, blob)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xfe, 0xfd}, raw)

	_, err = OpenText(key, blob)
	assert.ErrorIs(t, err, ErrEncoding)
}

func TestOpenTextValid(t *testing.T) {
	key := testKey(t)
	blob, err := Seal(key, []byte("résultat: 合格"))
	require.NoError(t, err)

	text, err := OpenText(key, blob)
	require.NoError(t, err)
	assert.Equal(t, "résultat: 合格", text)
}
