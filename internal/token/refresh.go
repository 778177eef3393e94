package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// RefreshValueLength is the fixed length of an encoded refresh token:
// 64 random bytes, hex-encoded. Length stability lets callers reject
// malformed tokens before a store lookup.
const RefreshValueLength = 128

// NewRefreshValue generates a cryptographically random opaque refresh token.
func NewRefreshValue() (string, error) {
	raw := make([]byte, 64)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(raw), nil
}

// ValidRefreshFormat is a cheap format check prior to a store lookup.
func ValidRefreshFormat(s string) bool {
	if len(s) != RefreshValueLength {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
