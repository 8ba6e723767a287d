package cryptox

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

const (
	pemPrivateKey = "PRIVATE KEY"
	pemPublicKey  = "PUBLIC KEY"
)

// SigningKey is an Ed25519 token signing key. PrivatePEM is what
// ACCOUNTS_TOKEN_KEY_FILE holds; PublicPEM can be handed to services that
// only verify tokens.
type SigningKey struct {
	Private    ed25519.PrivateKey
	PrivatePEM []byte // PKCS8
	PublicPEM  []byte // PKIX
}

// NewSigningKey generates a fresh Ed25519 signing key.
func NewSigningKey() (SigningKey, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return SigningKey{}, fmt.Errorf("cryptox: generate Ed25519 key: %w", err)
	}
	return encodeSigningKey(priv)
}

// ParseSigningKey reads a PKCS8 PEM Ed25519 private key, such as one written
// by `accounts gen-key` or `openssl genpkey -algorithm ed25519`.
func ParseSigningKey(pemKey []byte) (SigningKey, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return SigningKey{}, errors.New("cryptox: invalid PEM for Ed25519 key")
	}
	if block.Type != pemPrivateKey {
		return SigningKey{}, fmt.Errorf("cryptox: expected %s, got %q (Ed25519 requires PKCS8)", pemPrivateKey, block.Type)
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return SigningKey{}, fmt.Errorf("cryptox: parse PKCS8: %w", err)
	}
	priv, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return SigningKey{}, fmt.Errorf("cryptox: %T is not an Ed25519 private key", parsed)
	}
	return encodeSigningKey(priv)
}

// Public returns the verification half of k.
func (k SigningKey) Public() ed25519.PublicKey {
	return k.Private.Public().(ed25519.PublicKey)
}

func encodeSigningKey(priv ed25519.PrivateKey) (SigningKey, error) {
	privDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return SigningKey{}, fmt.Errorf("cryptox: marshal PKCS8 key: %w", err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(priv.Public())
	if err != nil {
		return SigningKey{}, fmt.Errorf("cryptox: marshal public key: %w", err)
	}

	return SigningKey{
		Private:    priv,
		PrivatePEM: pem.EncodeToMemory(&pem.Block{Type: pemPrivateKey, Bytes: privDER}),
		PublicPEM:  pem.EncodeToMemory(&pem.Block{Type: pemPublicKey, Bytes: pubDER}),
	}, nil
}
