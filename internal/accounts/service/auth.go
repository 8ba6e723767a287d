package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/streamly/accounts/internal/accounts/domain"
	"github.com/streamly/accounts/internal/accounts/observability"
	"github.com/streamly/accounts/internal/accounts/store"
	"github.com/streamly/accounts/pkg/slogx"
)

// PasswordHasher is the credential hasher the services depend on.
// *cryptox.PasswordHasher implements it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
	NeedsUpgrade(encoded string) bool
}

// dummyPassword is hashed once and verified against when the username is
// unknown, so a miss costs the same as a wrong password.
const dummyPassword = "accounts-timing-equaliser"

// dummyPasswordHash stands in when the hasher cannot produce a dummy of its
// own. It is not a credential and matches no password.
//
//nolint:gosec // G101: fixed fake hash used only for timing.
const dummyPasswordHash = "$argon2id$v=19$m=19456,t=2,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// AuthService turns a username/password pair into a session.
type AuthService struct {
	Store   store.Store
	Hasher  PasswordHasher
	Tokens  *TokenIssuer
	Metrics *observability.Metrics
	// Now defaults to time.Now.
	Now func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// Authenticate verifies the credentials, records the login and issues a
// token. A missing account and a wrong password yield the same
// ErrInvalidCredentials. When the last-login write fails no token is issued.
// The username is trimmed the same way registration trims it.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (domain.Session, error) {
	username = strings.TrimSpace(username)
	l := slogx.FromContext(ctx).With(slog.String("username", username))

	acct, err := s.Store.Accounts().GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.verify(password, s.dummy(l))
			l.Info("login rejected")
			s.Metrics.Login(observability.OutcomeInvalidCredentials)
			return domain.Session{}, ErrInvalidCredentials
		}
		l.Error("account lookup failed", slog.Any("error", err))
		s.Metrics.Login(observability.OutcomeFailed)
		return domain.Session{}, failed(err)
	}

	if !s.verify(password, acct.PasswordHash) {
		l.Info("login rejected")
		s.Metrics.Login(observability.OutcomeInvalidCredentials)
		return domain.Session{}, ErrInvalidCredentials
	}

	identity := domain.Identity{
		AccountID: acct.ID,
		Username:  acct.Username,
		Roles:     acct.RoleNames(),
	}

	now := s.now()
	if err := s.Store.Accounts().RecordLogin(ctx, acct.ID, now); err != nil {
		l.Error("recording last login failed", slog.Any("error", err))
		s.Metrics.Login(observability.OutcomeFailed)
		return domain.Session{}, failed(err)
	}

	if s.Hasher.NeedsUpgrade(acct.PasswordHash) {
		s.upgradeHash(ctx, l, acct.ID, password, now)
	}

	issued, err := s.Tokens.Issue(identity)
	if err != nil {
		l.Error("signing access token failed", slog.Any("error", err))
		s.Metrics.Login(observability.OutcomeFailed)
		return domain.Session{}, failed(err)
	}
	s.Metrics.TokenIssued()
	s.Metrics.Login(observability.OutcomeSuccess)
	l.Info("login succeeded", slog.String("account_id", acct.ID))

	return domain.Session{
		Identity:  identity,
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
	}, nil
}

// upgradeHash re-hashes a password stored under old parameters or a legacy
// algorithm. Failure is logged; the login itself already succeeded.
func (s *AuthService) upgradeHash(ctx context.Context, l *slog.Logger, accountID, password string, now time.Time) {
	start := time.Now()
	hash, err := s.Hasher.Hash(password)
	s.Metrics.ObserveHash("hash", start)
	if err != nil {
		l.Warn("password rehash failed", slog.Any("error", err))
		return
	}
	if err := s.Store.Accounts().UpdatePasswordHash(ctx, accountID, hash, now); err != nil {
		l.Warn("storing upgraded password hash failed", slog.Any("error", err))
		return
	}
	l.Info("password hash upgraded")
}

func (s *AuthService) verify(password, encoded string) bool {
	start := time.Now()
	ok := s.Hasher.Verify(password, encoded)
	s.Metrics.ObserveHash("verify", start)
	return ok
}

func (s *AuthService) dummy(l *slog.Logger) string {
	s.dummyOnce.Do(func() {
		hash, err := s.Hasher.Hash(dummyPassword)
		if err != nil {
			l.Warn("hashing timing dummy failed, using fixed hash", slog.Any("error", err))
			hash = dummyPasswordHash
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
