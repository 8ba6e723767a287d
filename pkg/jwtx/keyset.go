package jwtx

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"sync"
)

var ErrNoKey = errors.New("jwtx: key not found")

// KeySet holds verification keys by kid. It is safe for concurrent use so a
// new key can be added while requests are being verified.
type KeySet struct {
	mu   sync.RWMutex
	alg  string
	keys map[string]any // kid: []byte (HS256) | ed25519.PublicKey (EdDSA)
}

// NewKeySet returns an empty KeySet accepting keys for alg.
func NewKeySet(alg string) *KeySet {
	return &KeySet{alg: alg, keys: make(map[string]any)}
}

// Alg is the only algorithm tokens verified against this set may use.
func (k *KeySet) Alg() string { return k.alg }

// AddSigner registers the signer's verification key under its kid.
func (k *KeySet) AddSigner(s Signer) error {
	if s.Alg() != k.alg {
		return fmt.Errorf("jwtx: signer algorithm %s does not match key set %s", s.Alg(), k.alg)
	}
	return k.Add(s.KID(), s.VerificationKey())
}

// Add stores key under kid after checking it fits the set's algorithm.
func (k *KeySet) Add(kid string, key any) error {
	switch key.(type) {
	case []byte:
		if k.alg != AlgorithmHS256 {
			return ErrAlgMismatch
		}
	case ed25519.PublicKey:
		if k.alg != AlgorithmEdDSA {
			return ErrAlgMismatch
		}
	default:
		return fmt.Errorf("jwtx: unsupported key type %T", key)
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys[kid] = key
	return nil
}

// Get returns the verification key for the given kid.
func (k *KeySet) Get(kid string) (any, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if key, ok := k.keys[kid]; ok {
		return key, nil
	}
	return nil, ErrNoKey
}

// IsReady returns true if the KeySet has at least one key loaded.
func (k *KeySet) IsReady() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.keys) > 0
}
