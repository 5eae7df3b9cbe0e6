// Package id mints the public identifiers used for pools, tranches,
// insurance policies and fund positions.
package id

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID32 returns exactly 32 lowercase hex characters, no separators or
// prefixes, so the same `hex32` validation applies to every id field.
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
