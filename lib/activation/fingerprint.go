// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package activation

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// fingerprintKey is the BLAKE3 key for token fingerprints: the ASCII
// domain name, zero-padded to 32 bytes.
var fingerprintKey = [32]byte{
	'a', 'c', 't', 'i', 'v', 'a', 't', 'i', 'o', 'n', '.', 't', 'o', 'k', 'e', 'n',
	'.', 'l', 'o', 'g',
}

// Fingerprint returns a short stable digest of a token for logs. A
// token is a bearer credential until it is associated, so it is never
// logged in clear.
func Fingerprint(token Token) string {
	hasher, err := blake3.NewKeyed(fingerprintKey[:])
	if err != nil {
		// NewKeyed only fails for keys that are not 32 bytes.
		panic("activation: fingerprint key: " + err.Error())
	}
	hasher.Write([]byte(token))
	digest := hasher.Sum(nil)
	return hex.EncodeToString(digest[:6])
}
