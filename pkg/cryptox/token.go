package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Sizes in bytes before encoding.
const (
	// SecretSize256 is the minimum HMAC secret size for HS256.
	SecretSize256 = 32
	// SecretSize512 matches the HS512 block size.
	SecretSize512 = 64
)

// GenerateSecret returns size cryptographically random bytes.
func GenerateSecret(size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("secret size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate random secret: %w", err)
	}
	return buf, nil
}

// GenerateToken is GenerateSecret encoded as base64url without padding.
func GenerateToken(size int) (string, error) {
	buf, err := GenerateSecret(size)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
