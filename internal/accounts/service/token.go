package service

import (
	"errors"
	"time"

	"github.com/streamly/accounts/internal/accounts/domain"
	"github.com/streamly/accounts/pkg/jwtx"
)

// IssuedToken is a freshly signed access token.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// VerifiedToken is what a valid token asserts.
type VerifiedToken struct {
	Username  string
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer signs access tokens for authenticated identities and checks
// tokens presented back to the service. It only holds read-only key material
// and is safe for concurrent use.
type TokenIssuer struct {
	signer   jwtx.Signer
	keys     *jwtx.KeySet
	verifier *jwtx.KeySetVerifier
	issuer   string
	ttl      time.Duration
	now      func() time.Time
}

// NewTokenIssuer builds an issuer around signer. A non-positive ttl falls back
// to jwtx.DefaultAccessTokenTTL.
func NewTokenIssuer(signer jwtx.Signer, issuer string, ttl time.Duration) (*TokenIssuer, error) {
	if signer == nil {
		return nil, errors.New("token issuer: signer is required")
	}
	if err := signer.Validate(); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	keys := jwtx.NewKeySet(signer.Alg())
	if err := keys.AddSigner(signer); err != nil {
		return nil, err
	}

	return &TokenIssuer{
		signer:   signer,
		keys:     keys,
		verifier: jwtx.NewVerifier(keys, issuer),
		issuer:   issuer,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// WithClock returns a copy of t that reads time from now.
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	cp := *t
	cp.now = now
	cp.verifier = t.verifier.WithClock(now)
	return &cp
}

// TTL is the validity window of issued tokens.
func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

// Issue signs a token asserting id, valid from now for the configured TTL.
func (t *TokenIssuer) Issue(id domain.Identity) (IssuedToken, error) {
	now := t.now()
	claims := jwtx.NewAccessClaims(id.Username, id.Roles, t.ttl, t.issuer, now)

	token, err := t.signer.Sign(claims)
	if err != nil {
		return IssuedToken{}, err
	}
	return IssuedToken{Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Verify reports whether token carries a valid signature from this issuer
// and has not expired. It never panics and never returns an error.
func (t *TokenIssuer) Verify(token string) (VerifiedToken, bool) {
	claims, err := t.verifier.Verify(token)
	if err != nil {
		return VerifiedToken{}, false
	}

	out := VerifiedToken{Username: claims.Subject, Roles: claims.Roles}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, true
}

// Verifier exposes the underlying JWT verifier for HTTP middleware.
func (t *TokenIssuer) Verifier() jwtx.Verifier { return t.verifier }

// Ready reports whether verification keys are loaded.
func (t *TokenIssuer) Ready() bool { return t.keys.IsReady() }
