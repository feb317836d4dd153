package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const opaqueTokenBytes = 32

// newOpaqueToken returns 256 random bits, hex encoded, for verification and
// reset links.
func newOpaqueToken() (string, error) {
	b := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
