package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher computes SHA-256 content digests
type Hasher struct{}

// NewHasher creates a new hasher
func NewHasher() *Hasher {
	return &Hasher{}
}

// DefaultHasher returns the shared hasher
func DefaultHasher() *Hasher {
	return defaultHasher
}

var defaultHasher = NewHasher()

// Hash computes a hex digest of data
func (h *Hasher) Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
