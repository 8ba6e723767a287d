package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/streamly/accounts/internal/accounts/domain"
	"github.com/streamly/accounts/internal/accounts/observability"
	"github.com/streamly/accounts/pkg/jwtx"
)

type authFixture struct {
	store  *faultyStore
	hasher *stubHasher
	auth   *AuthService
	reg    *RegistrationService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	st := &faultyStore{Store: newTestStore(t)}
	hasher := &stubHasher{PasswordHasher: newTestHasher(t)}
	metrics := observability.NewMetrics(prometheus.NewRegistry())

	reg := NewRegistrationService(st, hasher, "", "", 0)
	reg.Metrics = metrics

	return &authFixture{
		store:  st,
		hasher: hasher,
		reg:    reg,
		auth: &AuthService{
			Store:   st,
			Hasher:  hasher,
			Tokens:  newTestIssuer(t),
			Metrics: metrics,
			Now:     fixedClock,
		},
	}
}

func (f *authFixture) register(t *testing.T, username, email, password string) domain.Account {
	t.Helper()
	acct, err := f.reg.Register(context.Background(), username, email, password)
	require.NoError(t, err)
	return acct
}

func TestAuthenticate_Success(t *testing.T) {
	f := newAuthFixture(t)
	acct := f.register(t, "alice", "alice@x.com", "secret123")

	session, err := f.auth.Authenticate(context.Background(), "alice", "secret123")
	require.NoError(t, err)
	require.Equal(t, acct.ID, session.Identity.AccountID)
	require.Equal(t, "alice", session.Identity.Username)
	require.Equal(t, []string{"USER"}, session.Identity.Roles)
	require.NotEmpty(t, session.Token)

	verified, ok := f.auth.Tokens.Verify(session.Token)
	require.True(t, ok)
	require.Equal(t, "alice", verified.Username)

	stored, err := f.store.Accounts().GetAccountByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, stored.LastLoginAt)
	require.True(t, stored.LastLoginAt.Equal(testNow))

	require.Equal(t, float64(1), testutil.ToFloat64(f.auth.Metrics.LoginsTotal.WithLabelValues(observability.OutcomeSuccess)))
}

func TestAuthenticate_NoAccountExistenceLeak(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice", "alice@x.com", "secret123")

	_, missingErr := f.auth.Authenticate(context.Background(), "mallory", "secret123")
	_, wrongErr := f.auth.Authenticate(context.Background(), "alice", "wrong-password")

	require.ErrorIs(t, missingErr, ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	require.Equal(t, missingErr, wrongErr)
	require.Equal(t, missingErr.Error(), wrongErr.Error())
}

func TestAuthenticate_UnknownUserStillVerifies(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.auth.Authenticate(context.Background(), "ghost", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	f.hasher.mu.Lock()
	defer f.hasher.mu.Unlock()
	require.Len(t, f.hasher.verified, 1)
	require.True(t, strings.HasPrefix(f.hasher.verified[0], "$argon2id$"))
}

func TestAuthenticate_UsernameIsCaseSensitive(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice", "alice@x.com", "secret123")

	_, err := f.auth.Authenticate(context.Background(), "Alice", "secret123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_RecordLoginFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice", "alice@x.com", "secret123")
	f.store.recordLoginErr = errors.New("database is locked")

	session, err := f.auth.Authenticate(context.Background(), "alice", "secret123")
	require.ErrorIs(t, err, ErrAuthenticationFailed)
	require.NotErrorIs(t, err, ErrInvalidCredentials)
	require.Empty(t, session.Token)
	require.Equal(t, int32(1), f.store.recordLogins.Load())
}

func TestAuthenticate_LookupFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.store.lookupErr = errors.New("connection reset")

	_, err := f.auth.Authenticate(context.Background(), "alice", "secret123")
	require.ErrorIs(t, err, ErrAuthenticationFailed)
	require.Equal(t, int32(0), f.store.recordLogins.Load())
}

func TestAuthenticate_WrongPasswordDoesNotRecordLogin(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice", "alice@x.com", "secret123")

	_, err := f.auth.Authenticate(context.Background(), "alice", "nope-nope")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Equal(t, int32(0), f.store.recordLogins.Load())
}

func TestAuthenticate_UpgradesLegacyHash(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "alice", "alice@x.com", "secret123")

	legacy, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	acct, err := f.store.Accounts().GetAccountByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NoError(t, f.store.Accounts().UpdatePasswordHash(ctx, acct.ID, string(legacy), testNow))

	_, err = f.auth.Authenticate(ctx, "alice", "secret123")
	require.NoError(t, err)

	upgraded, err := f.store.Accounts().GetAccountByUsername(ctx, "alice")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(upgraded.PasswordHash, "$argon2id$"))
	require.False(t, f.hasher.NeedsUpgrade(upgraded.PasswordHash))

	_, err = f.auth.Authenticate(ctx, "alice", "secret123")
	require.NoError(t, err)
}

func TestAuthenticate_NeverLogsSecrets(t *testing.T) {
	f := newAuthFixture(t)
	acct := f.register(t, "alice", "alice@x.com", "secret123")
	ctx, logs := logCapture()

	_, err := f.auth.Authenticate(ctx, "alice", "secret123")
	require.NoError(t, err)
	_, err = f.auth.Authenticate(ctx, "alice", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	f.store.recordLoginErr = errors.New("database is locked")
	_, err = f.auth.Authenticate(ctx, "alice", "secret123")
	require.ErrorIs(t, err, ErrAuthenticationFailed)

	out := logs.String()
	require.Contains(t, out, `"username":"alice"`)
	require.NotContains(t, out, "secret123")
	require.NotContains(t, out, "wrong-password")
	require.NotContains(t, out, acct.PasswordHash)
	require.NotContains(t, out, testSecret)
}

func TestAuthenticate_ConcurrentLogins(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice", "alice@x.com", "secret123")
	f.register(t, "bob", "bob@x.com", "hunter2hunter2")

	type result struct {
		username string
		session  domain.Session
		err      error
	}
	results := make(chan result, 20)
	for i := range 20 {
		user, pass := "alice", "secret123"
		if i%2 == 1 {
			user, pass = "bob", "hunter2hunter2"
		}
		go func() {
			s, err := f.auth.Authenticate(context.Background(), user, pass)
			results <- result{username: user, session: s, err: err}
		}()
	}

	for range 20 {
		r := <-results
		require.NoError(t, r.err)
		require.Equal(t, r.username, r.session.Identity.Username)
	}
}

func TestAuthenticate_ExpiryFollowsTTL(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice", "alice@x.com", "secret123")

	signer := mustHS256(t)
	issuer, err := NewTokenIssuer(signer, testIssuer, time.Hour)
	require.NoError(t, err)
	f.auth.Tokens = issuer.WithClock(fixedClock)

	session, err := f.auth.Authenticate(context.Background(), "alice", "secret123")
	require.NoError(t, err)
	require.True(t, session.ExpiresAt.Equal(testNow.Add(time.Hour)))
}

// failingSigner behaves like the wrapped signer except that Sign always fails.
type failingSigner struct {
	jwtx.Signer
}

func (failingSigner) Sign(jwtx.Claims) (string, error) {
	return "", errors.New("signing key unavailable")
}

func TestAuthenticate_SigningFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "alice", "alice@x.com", "secret123")

	issuer, err := NewTokenIssuer(failingSigner{Signer: mustHS256(t)}, testIssuer, time.Hour)
	require.NoError(t, err)
	f.auth.Tokens = issuer

	session, err := f.auth.Authenticate(context.Background(), "alice", "secret123")
	require.ErrorIs(t, err, ErrAuthenticationFailed)
	require.NotErrorIs(t, err, ErrInvalidCredentials)
	require.Empty(t, session.Token)
	require.NotContains(t, err.Error(), "signing key unavailable")
	require.Equal(t, float64(1), testutil.ToFloat64(f.auth.Metrics.LoginsTotal.WithLabelValues(observability.OutcomeFailed)))
}

func TestAuthenticate_TrimsUsername(t *testing.T) {
	f := newAuthFixture(t)
	acct := f.register(t, "  alice ", "alice@x.com", "secret123")
	require.Equal(t, "alice", acct.Username)

	for _, username := range []string{"  alice ", "alice", "\talice\n"} {
		session, err := f.auth.Authenticate(context.Background(), username, "secret123")
		require.NoError(t, err, "username %q", username)
		require.Equal(t, "alice", session.Identity.Username)
	}

	_, err := f.auth.Authenticate(context.Background(), "alice", " secret123 ")
	require.ErrorIs(t, err, ErrInvalidCredentials, "passwords are never trimmed")
}

func TestAuthenticate_DummyHashFallback(t *testing.T) {
	f := newAuthFixture(t)
	f.hasher.hashErr = errors.New("out of memory")
	ctx, logs := logCapture()

	_, err := f.auth.Authenticate(ctx, "ghost", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	f.hasher.mu.Lock()
	defer f.hasher.mu.Unlock()
	require.Equal(t, []string{dummyPasswordHash}, f.hasher.verified)
	require.Contains(t, logs.String(), "hashing timing dummy failed")
}
