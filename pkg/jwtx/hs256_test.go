package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/streamly/accounts/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newHS256(t *testing.T) (jwtx.Signer, *jwtx.KeySetVerifier) {
	t.Helper()
	signer, err := jwtx.NewSignerHS256("", []byte(testSecret))
	require.NoError(t, err)

	keyset := jwtx.NewKeySet(jwtx.AlgorithmHS256)
	require.NoError(t, keyset.AddSigner(signer))
	return signer, jwtx.NewVerifier(keyset, exampleIssuer)
}

func TestHS256SignAndVerify(t *testing.T) {
	signer, verifier := newHS256(t)
	require.Equal(t, "HS256", signer.Alg())
	require.NoError(t, signer.Validate())

	claims := jwtx.NewAccessClaims("alice", []string{"USER"}, 24*time.Hour, exampleIssuer, time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(token, "."))

	parsed, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "alice", parsed.Subject)
	require.Equal(t, []string{"USER"}, parsed.Roles)
}

func TestHS256ShortSecret(t *testing.T) {
	_, err := jwtx.NewSignerHS256("", []byte("too-short"))
	require.Error(t, err)
}

func TestHS256VerifyFailures(t *testing.T) {
	signer, verifier := newHS256(t)
	now := time.Now()

	valid, err := signer.Sign(jwtx.NewAccessClaims("alice", nil, time.Hour, exampleIssuer, now))
	require.NoError(t, err)

	expired, err := signer.Sign(jwtx.NewAccessClaims("alice", nil, time.Hour, exampleIssuer, now.Add(-2*time.Hour)))
	require.NoError(t, err)

	other, err := jwtx.NewSignerHS256("", []byte(strings.Repeat("z", 32)))
	require.NoError(t, err)
	foreign, err := other.Sign(jwtx.NewAccessClaims("alice", nil, time.Hour, exampleIssuer, now))
	require.NoError(t, err)

	noSubject, err := signer.Sign(jwtx.NewAccessClaims("", nil, time.Hour, exampleIssuer, now))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone,
		jwtx.NewAccessClaims("alice", nil, time.Hour, exampleIssuer, now)).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"expired", expired, jwtx.ErrExpired},
		{"foreign secret", foreign, jwtx.ErrInvalidSig},
		{"alg none", unsigned, jwtx.ErrInvalidSig},
		{"tampered signature", flipSignatureByte(valid), nil},
		{"garbage", "not.a.jwt", jwtx.ErrMalformed},
		{"empty", "", jwtx.ErrMalformed},
		{"missing subject", noSubject, jwtx.ErrInvalidClaim},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.Verify(tt.token)
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestHS256VerifyWithClock(t *testing.T) {
	signer, verifier := newHS256(t)
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	token, err := signer.Sign(jwtx.NewAccessClaims("alice", nil, 24*time.Hour, exampleIssuer, issued))
	require.NoError(t, err)

	_, err = verifier.WithClock(func() time.Time { return issued.Add(23 * time.Hour) }).Verify(token)
	require.NoError(t, err)

	_, err = verifier.WithClock(func() time.Time { return issued.Add(24 * time.Hour) }).Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

// flipSignatureByte swaps one character of the signature segment for a
// different valid base64url character.
func flipSignatureByte(token string) string {
	i := strings.LastIndex(token, ".") + 1
	b := []byte(token)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}
