package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the validity window of an access token when the
// service is not configured otherwise.
const DefaultAccessTokenTTL = 24 * time.Hour

// Claims are the access-token claims issued after a successful login.
// The subject is the account's username.
type Claims struct {
	jwt.RegisteredClaims

	// Roles attached to the account at the time of issue.
	Roles []string `json:"roles,omitempty"`
}

// NewAccessClaims builds minimally-correct claims valid from now for ttl.
func NewAccessClaims(
	username string,
	roles []string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Roles: roles,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateSubject rejects tokens without a subject.
func (c *Claims) ValidateSubject() error {
	if c.Subject == "" {
		return ErrInvalidClaim
	}
	return nil
}

// ValidateExpiry ensures the token is inside [nbf, exp) at now. A token
// without exp is rejected.
func (c *Claims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt == nil {
		return ErrInvalidClaim
	}
	if !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
