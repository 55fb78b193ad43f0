// Package locator maps an identity pair to the name of its published resource.
//
// A resource is addressed by the uppercase hex SHA-256 digest of the index and
// id joined with Delimiter, plus Extension. The scheme is shared with the
// publishing side: both ends must produce the same name for the same pair, so
// none of these rules may change without republishing every resource.
//
// The delimiter reduces concatenation ambiguity between different pairs, but
// does not eliminate it: values that themselves contain the delimiter can
// still collide with another pair. The published naming contract accepts this.
package locator

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	// Delimiter joins index and id before digesting.
	Delimiter = "|"
	// Extension marks published resources. Part of the naming contract.
	Extension = ".sealed"
)

// Digest returns the SHA-256 fingerprint of text.
// It is deterministic and accepts any input, including the empty string.
func Digest(text string) [sha256.Size]byte {
	return sha256.Sum256([]byte(text))
}

// Resolve returns the resource name for the given identity pair.
// It is order-sensitive: swapping index and id yields a different name unless
// the two are equal. Inputs are used exactly as given, with no validation or
// normalization, since they must match what the publisher registered.
func Resolve(index, id string) string {
	sum := Digest(index + Delimiter + id)
	return strings.ToUpper(hex.EncodeToString(sum[:])) + Extension
}
