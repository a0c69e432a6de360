package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const singleUseTokenBytes = 32

// GenerateSingleUseToken returns a cryptographically random opaque token for
// email verification and password reset flows. The token is stored on the
// user record with an expiry and looked up by exact match.
func GenerateSingleUseToken() (string, error) {
	buf := make([]byte, singleUseTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
