package oauth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateState returns a random CSRF state value for the authorization
// redirect. The handler stores it in a short-lived cookie and compares it on
// callback.
func GenerateState() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
