package jwtx

import "fmt"

// Supported JWT signing algorithms.
const (
	AlgorithmHS256 = "HS256"
	AlgorithmEdDSA = "EdDSA"
)

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	KID() string
	Sign(Claims) (string, error)
	// VerificationKey is the key a verifier needs to check this signer's
	// tokens: the shared secret for HMAC, the public key otherwise.
	VerificationKey() any
	Validate() error
}

// NewSignerHS256 creates an HMAC-SHA256 signer from a shared secret.
func NewSignerHS256(kid string, secret []byte) (Signer, error) {
	return newHS256Signer(kid, secret)
}

// NewSignerEdDSA creates an EdDSA signer from PEM bytes.
// Ed25519 keys must be in PKCS8 format.
func NewSignerEdDSA(kid string, pemKey []byte) (Signer, error) {
	return newEdDSASigner(kid, pemKey)
}

// NewSigner picks the constructor for alg. key is the raw secret for HS256
// and a PKCS8 PEM for EdDSA.
func NewSigner(alg, kid string, key []byte) (Signer, error) {
	switch alg {
	case AlgorithmHS256:
		return NewSignerHS256(kid, key)
	case AlgorithmEdDSA:
		return NewSignerEdDSA(kid, key)
	default:
		return nil, fmt.Errorf("jwtx: unsupported algorithm %q", alg)
	}
}
