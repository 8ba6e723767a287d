package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// KeySetVerifier checks tokens against the keys of a KeySet. Only the set's
// algorithm is accepted, so an HS256 verifier never trusts an EdDSA header
// and vice versa.
type KeySetVerifier struct {
	keys   *KeySet
	issuer string
	now    func() time.Time
}

// NewVerifier creates a verifier using keys. An empty issuer disables the
// issuer check.
func NewVerifier(keys *KeySet, issuer string) *KeySetVerifier {
	return &KeySetVerifier{keys: keys, issuer: issuer, now: time.Now}
}

// WithClock overrides the time source used for exp/nbf checks.
func (v *KeySetVerifier) WithClock(now func() time.Time) *KeySetVerifier {
	cp := *v
	cp.now = now
	return &cp
}

// Verify validates the JWT string and returns its parsed Claims.
func (v *KeySetVerifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{v.keys.Alg()}),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		return v.keys.Get(kid)
	})
	if err != nil {
		return Claims{}, classify(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidClaim
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateSubject(); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiry(v.now()); err != nil {
		return Claims{}, err
	}

	return *claims, nil
}

// classify maps jwt/v5 parse errors onto this package's sentinels while
// keeping the original as context. A disallowed alg header surfaces as
// ErrInvalidSig.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrNoKey):
		return err
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %w", ErrInvalidSig, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return fmt.Errorf("%w: %w", ErrNotYetValid, err)
	case errors.Is(err, jwt.ErrTokenInvalidClaims), errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return fmt.Errorf("%w: %w", ErrInvalidClaim, err)
	default:
		return fmt.Errorf("jwtx: parse or verify: %w", err)
	}
}
