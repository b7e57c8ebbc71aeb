package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// SessionSecretLength is the number of random bytes behind a generated
// session secret.
const SessionSecretLength = 32

// GenerateSessionSecret creates a cryptographically secure random
// secret, hex-encoded. Used when no secret is configured; sessions and
// CSRF tokens then reset on every restart.
func GenerateSessionSecret() (string, error) {
	bytes := make([]byte, SessionSecretLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// DecodeSessionSecret converts a configured hex secret back into key
// bytes for the CSRF middleware. A malformed value is rejected rather
// than silently truncated.
func DecodeSessionSecret(secret string) ([]byte, error) {
	key, err := hex.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("session secret is not valid hex: %w", err)
	}
	if len(key) < SessionSecretLength {
		return nil, fmt.Errorf("session secret too short: need %d bytes, got %d", SessionSecretLength, len(key))
	}
	return key, nil
}
