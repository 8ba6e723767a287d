package jwtx

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/streamly/accounts/pkg/cryptox"
)

// EdDSASigner implements the Signer interface using Ed25519.
type EdDSASigner struct {
	kid string
	key ed25519.PrivateKey
	pub ed25519.PublicKey
}

// newEdDSASigner loads an Ed25519 private key from PKCS8 PEM bytes.
func newEdDSASigner(kid string, pemKey []byte) (*EdDSASigner, error) {
	key, err := cryptox.ParseSigningKey(pemKey)
	if err != nil {
		return nil, fmt.Errorf("jwtx: %w", err)
	}
	return &EdDSASigner{
		kid: kid,
		key: key.Private,
		pub: key.Public(),
	}, nil
}

func (s *EdDSASigner) Alg() string { return jwt.SigningMethodEdDSA.Alg() }
func (s *EdDSASigner) KID() string { return s.kid }

// Sign turns claims into a signed compact JWT.
func (s *EdDSASigner) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	if s.kid != "" {
		t.Header["kid"] = s.kid
	}
	return t.SignedString(s.key)
}

// VerificationKey returns the Ed25519 public key.
func (s *EdDSASigner) VerificationKey() any { return s.pub }

// Validate does a quick sanity check to make sure we actually have keys.
func (s *EdDSASigner) Validate() error {
	if s.key == nil || s.pub == nil {
		return errors.New("jwtx: nil Ed25519 key")
	}
	if len(s.key) != ed25519.PrivateKeySize {
		return errors.New("jwtx: invalid Ed25519 private key size")
	}
	if len(s.pub) != ed25519.PublicKeySize {
		return errors.New("jwtx: invalid Ed25519 public key size")
	}
	return nil
}
