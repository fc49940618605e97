package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
)

// Token format: sk_{secret}
// Example: sk_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b
const (
	// TokenSecretLen is the secret length (hex encoded 32 bytes).
	TokenSecretLen = 64
)

var (
	// ErrInvalidTokenFormat indicates the session token format is invalid.
	ErrInvalidTokenFormat = errors.New("invalid session token format")
	// tokenFormatRegex validates the token format.
	tokenFormatRegex = regexp.MustCompile(`^sk_[a-f0-9]{64}$`)
)

// GenerateSessionToken creates a new opaque session token.
// The plaintext is returned to the client once; the store only ever
// sees its digest.
func GenerateSessionToken() (string, error) {
	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", fmt.Errorf("generate token secret: %w", err)
	}

	return "sk_" + hex.EncodeToString(secretBytes), nil
}

// ValidateTokenFormat checks if the token matches the expected format.
func ValidateTokenFormat(token string) bool {
	return tokenFormatRegex.MatchString(token)
}

// TokenDigest derives the store key for a session token.
func TokenDigest(token string) string {
	return QuickHash(token)
}
