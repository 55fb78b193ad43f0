/*
Package sealbox seals and opens the encrypted blobs this system publishes, using a key
stretched from a low-entropy identity pair.

# How it works:

A 256-bit AES key is derived from the identity's id (as the password) and index (as the salt)
with PBKDF2-HMAC-SHA256 at a fixed iteration count. The publisher seals plaintext under that
key with AES-256-GCM, prefixing the random 12-byte nonce to the ciphertext, and the GCM mode
appends its 16-byte authentication tag. The result is the entire published blob: no header,
no version byte, no checksum.

The viewer re-derives the same key from the same identity and calls Open, which splits the
nonce back off and performs authenticated decryption. A failed tag check is reported as a
single authentication failure whether the identity was wrong or the blob was altered; the two
cases are deliberately not told apart.

# General guidelines:
  - Every value in the constants block is shared with previously published blobs. Changing any
    of them orphans everything already published; there is intentionally no option to tune them.
  - The iteration count is the brute-force deterrent for guessable identities. Do not lower it
    to make interactive use feel faster.
  - A Key is only valid for opening or sealing blobs under this contract. Never log, persist,
    or reuse it outside the run that derived it.
  - The salt here is the identity's index, carried out of band, so blobs carry no salt suffix
    and two publishes of the same plaintext still differ only by nonce.
  - Params exists for tooling to detect contract drift between builds. Opening never reads it.
*/
package sealbox
