// Package hash provides keyed hashing used to sign outbound service calls.
package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Hash produces a deterministic digest of its input.
type Hash interface {
	// Hash returns the digest of plain, hex encoded.
	Hash(plain string) (string, error)
	// Verify reports whether digest matches plain in constant time.
	Verify(plain, digest string) bool
}

// HMACSHA256 is a Hash keyed with a shared secret.
type HMACSHA256 struct {
	secret []byte
}

// NewHMACSHA256 returns an HMAC-SHA256 hasher keyed with secret.
func NewHMACSHA256(secret string) *HMACSHA256 {
	return &HMACSHA256{secret: []byte(secret)}
}

// Hash returns the hex-encoded HMAC-SHA256 of plain.
func (h *HMACSHA256) Hash(plain string) (string, error) {
	mac := hmac.New(sha256.New, h.secret)
	if _, err := mac.Write([]byte(plain)); err != nil {
		return "", err
	}
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Verify reports whether digest is the HMAC of plain.
func (h *HMACSHA256) Verify(plain, digest string) bool {
	want, err := h.Hash(plain)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(want), []byte(digest))
}
