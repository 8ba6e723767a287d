package jwtx

import (
	"errors"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// MinHS256SecretSize is the shortest secret accepted for HS256 (RFC 7518 §3.2).
const MinHS256SecretSize = 32

// HS256Signer implements the Signer interface using HMAC-SHA256.
type HS256Signer struct {
	kid    string
	secret []byte
}

func newHS256Signer(kid string, secret []byte) (*HS256Signer, error) {
	if len(secret) < MinHS256SecretSize {
		return nil, errors.New("jwtx: HS256 secret must be at least 32 bytes")
	}
	return &HS256Signer{kid: kid, secret: slices.Clone(secret)}, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }
func (s *HS256Signer) KID() string { return s.kid }

// Sign turns claims into a signed compact JWT.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	if s.kid != "" {
		t.Header["kid"] = s.kid
	}
	return t.SignedString(s.secret)
}

// VerificationKey returns a copy of the shared secret.
func (s *HS256Signer) VerificationKey() any { return slices.Clone(s.secret) }

func (s *HS256Signer) Validate() error {
	if len(s.secret) < MinHS256SecretSize {
		return errors.New("jwtx: HS256 secret too short")
	}
	return nil
}
