// Package token generates opaque random identifiers used as one-time
// capability credentials.
package token

import (
	"crypto/rand"
	"encoding/hex"
)

// Generator produces cryptographically unpredictable token strings.
type Generator interface {
	Generate() (string, error)
}

// HexGenerator emits hex-encoded random strings of a fixed byte size.
type HexGenerator struct {
	Size int
}

// NewHexGenerator returns a generator producing size random bytes per token
// (so 2*size hex characters). Sizes below 16 bytes are rejected at
// construction time rather than silently weakening tokens.
func NewHexGenerator(size int) HexGenerator {
	if size < 16 {
		size = 16
	}
	return HexGenerator{Size: size}
}

// Generate returns a fresh random token string.
func (g HexGenerator) Generate() (string, error) {
	b := make([]byte, g.Size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
